package resumes

import "context"

// Repo persists resumes. Every read and write except Create is scoped to (id, owner).
type Repo interface {
	Create(ctx context.Context, resume Resume) (Resume, error)
	GetOwned(ctx context.Context, id, ownerID int64) (Resume, error)
	ListOwned(ctx context.Context, ownerID int64) ([]Resume, error)
	// UpdateOwned applies patch and returns the stored row. Concurrent updates are last-write-wins.
	UpdateOwned(ctx context.Context, id, ownerID int64, patch Patch) (Resume, error)
	// DeleteOwned reports whether a row was removed; deleting twice is not an error.
	DeleteOwned(ctx context.Context, id, ownerID int64) (bool, error)
}
