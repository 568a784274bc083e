package resumes

import "time"

// Resume is a user-owned document. UserID comes from the authenticated caller and never changes.
type Resume struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	CreatedAt time.Time
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Title   *string
	Content *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil
}

func (p Patch) apply(r Resume) Resume {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Content != nil {
		r.Content = *p.Content
	}
	return r
}
