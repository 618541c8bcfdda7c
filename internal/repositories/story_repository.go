package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// StoryRepository stores story content. Views live in StoryViewRepository.
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)
	GetActiveStoriesByUserIDs(ctx context.Context, userIDs []uint, now time.Time) ([]models.Story, error)
}

// prepareStory fills the id, timestamps and defaults of a new story
func prepareStory(story *models.Story) {
	now := time.Now()
	if story.ID == "" {
		story.ID = uuid.NewString()
	}
	if story.Duration <= 0 {
		story.Duration = models.DefaultStoryDuration
	}
	story.CreatedAt = now
	story.ExpiresAt = now.Add(models.StoryLifetime)
}

// GormStoryRepository keeps stories in the relational store
type GormStoryRepository struct {
	db *gorm.DB
}

func NewGormStoryRepository(db *gorm.DB) *GormStoryRepository {
	return &GormStoryRepository{db: db}
}

func (r *GormStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	prepareStory(story)
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *GormStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&story).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *GormStoryRepository) GetActiveStoriesByUserIDs(ctx context.Context, userIDs []uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	if len(userIDs) == 0 {
		return stories, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND expires_at > ?", userIDs, now).
		Order("created_at ASC").
		Find(&stories).Error
	return stories, err
}

// MongoStoryRepository keeps stories as documents; a TTL index drops them once expired
type MongoStoryRepository struct {
	collection *mongo.Collection
}

func NewMongoStoryRepository(db *mongo.Database) *MongoStoryRepository {
	return &MongoStoryRepository{collection: db.Collection("stories")}
}

// EnsureIndexes creates the expiry TTL index and the author lookup index
func (r *MongoStoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
		},
	})
	return err
}

func (r *MongoStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	prepareStory(story)
	_, err := r.collection.InsertOne(ctx, story)
	return err
}

// GetStoryByID returns gorm.ErrRecordNotFound for a missing story so callers treat both stores alike
func (r *MongoStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&story)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &story, nil
}

func (r *MongoStoryRepository) GetActiveStoriesByUserIDs(ctx context.Context, userIDs []uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	if len(userIDs) == 0 {
		return stories, nil
	}
	filter := bson.M{
		"user_id":    bson.M{"$in": userIDs},
		"expires_at": bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}
