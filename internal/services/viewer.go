package services

// Viewer is the identity a request acts as. The zero value is anonymous;
// there is no sentinel user id.
type Viewer struct {
	id            uint
	authenticated bool
}

func Anonymous() Viewer { return Viewer{} }

func AuthenticatedAs(userID uint) Viewer {
	return Viewer{id: userID, authenticated: true}
}

// ID returns the user id and whether the viewer is authenticated
func (v Viewer) ID() (uint, bool) { return v.id, v.authenticated }

func (v Viewer) IsAnonymous() bool { return !v.authenticated }

// Is reports whether the viewer is the given user
func (v Viewer) Is(userID uint) bool { return v.authenticated && v.id == userID }
