package improvements

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ResumeChecker reports whether a resume row exists.
type ResumeChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// MemoryRepo stores history in memory. When Resumes is set, appends for missing
// resumes fail with ErrNotFound.
type MemoryRepo struct {
	mu       sync.RWMutex
	nextID   int64
	byResume map[int64][]Record
	resumes  ResumeChecker
	now      func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo. resumes may be nil.
func NewMemoryRepo(resumes ResumeChecker) *MemoryRepo {
	return &MemoryRepo{
		byResume: make(map[int64][]Record),
		resumes:  resumes,
		now:      time.Now,
	}
}

func (r *MemoryRepo) Append(ctx context.Context, resumeID int64, content string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	// The existence check shares the lock with DeleteResume, so a cascade cannot
	// slip between check and insert.
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resumes != nil {
		ok, err := r.resumes.Exists(ctx, resumeID)
		if err != nil {
			return Record{}, err
		}
		if !ok {
			return Record{}, ErrNotFound
		}
	}
	r.nextID++
	rec := Record{
		ID:              r.nextID,
		ResumeID:        resumeID,
		ImprovedContent: content,
		CreatedAt:       r.now().UTC(),
	}
	r.byResume[resumeID] = append(r.byResume[resumeID], rec)
	return rec, nil
}

func (r *MemoryRepo) ListByResume(ctx context.Context, resumeID int64) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := append(make([]Record, 0, len(r.byResume[resumeID])), r.byResume[resumeID]...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// DeleteResume drops history for a resume, mirroring the cascade in Postgres.
func (r *MemoryRepo) DeleteResume(resumeID int64) {
	r.mu.Lock()
	delete(r.byResume, resumeID)
	r.mu.Unlock()
}

var _ Repo = (*MemoryRepo)(nil)
