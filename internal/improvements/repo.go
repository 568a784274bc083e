package improvements

import "context"

// Repo persists improvement history.
type Repo interface {
	// Append stores a record for resumeID. It returns ErrNotFound when the resume no longer exists.
	Append(ctx context.Context, resumeID int64, content string) (Record, error)
	// ListByResume returns records newest first.
	ListByResume(ctx context.Context, resumeID int64) ([]Record, error)
}
