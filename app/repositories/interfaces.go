package repositories

import (
	"context"

	"newsportal/app/models"
	"newsportal/app/state"
)

// SessionRepository defines the interface for view session storage
type SessionRepository interface {
	Get(id string) (*state.Session, error)
	Save(session *state.Session) error
	Delete(id string) error
	Count() (int, error)

	// Update loads the session (or starts a new one), applies fn and saves
	// the result. Updates of the same id never interleave.
	Update(ctx context.Context, id string, fn func(*state.Session)) (*state.Session, error)
}

// UploadRepository holds selected cover images between form requests.
type UploadRepository interface {
	// Put stores img.Data and returns img with Ref and Size set.
	Put(img models.ImageFile) (models.ImageFile, error)
	Get(ref string) (models.ImageFile, error)
	Delete(ref string) error
}
