package improvements

import "time"

// Record is one stored improvement of a resume.
type Record struct {
	ID              int64
	ResumeID        int64
	ImprovedContent string
	CreatedAt       time.Time
}
