package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores resumes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Resume
	now    func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[int64]Resume),
		now:  time.Now,
	}
}

// Create assigns id and created_at and stores the resume.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	resume.ID = r.nextID
	resume.CreatedAt = r.now().UTC()
	r.byID[resume.ID] = resume
	return resume, nil
}

// GetOwned returns the resume when it exists and belongs to ownerID.
func (r *MemoryRepo) GetOwned(ctx context.Context, id, ownerID int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[id]
	if !ok || resume.UserID != ownerID {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// ListOwned returns the owner's resumes in creation order.
func (r *MemoryRepo) ListOwned(ctx context.Context, ownerID int64) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Resume, 0)
	for _, resume := range r.byID {
		if resume.UserID == ownerID {
			out = append(out, resume)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateOwned applies the non-nil patch fields.
func (r *MemoryRepo) UpdateOwned(ctx context.Context, id, ownerID int64, patch Patch) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.byID[id]
	if !ok || resume.UserID != ownerID {
		return Resume{}, ErrNotFound
	}
	resume = patch.apply(resume)
	r.byID[id] = resume
	return resume, nil
}

// DeleteOwned removes the resume if the owner matches.
func (r *MemoryRepo) DeleteOwned(ctx context.Context, id, ownerID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.byID[id]
	if !ok || resume.UserID != ownerID {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

// Exists reports whether any resume with id is stored, regardless of owner.
func (r *MemoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok, nil
}

var _ Repo = (*MemoryRepo)(nil)
