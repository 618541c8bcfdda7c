package models

// All lists every relational model, in migration order
func All() []any {
	return []any{
		&User{},
		&Friendship{},
		&Post{},
		&Comment{},
		&Reaction{},
		&SavedPost{},
		&Group{},
		&GroupMember{},
		&Conversation{},
		&ConversationParticipant{},
		&Message{},
		&Notification{},
		&NotificationSettings{},
		&Story{},
		&StoryView{},
		&Page{},
		&PageLike{},
		&Event{},
		&EventRSVP{},
	}
}
