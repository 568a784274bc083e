package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-service/internal/extract"
	"resume-service/internal/shared/util"
)

// Service holds resume use cases.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create stores a new resume owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID int64, title, content string) (Resume, error) {
	return s.Repo.Create(ctx, Resume{UserID: ownerID, Title: title, Content: content})
}

// Get returns the caller's resume or ErrNotFound.
func (s *Service) Get(ctx context.Context, id, ownerID int64) (Resume, error) {
	return s.Repo.GetOwned(ctx, id, ownerID)
}

// List returns the caller's resumes.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Resume, error) {
	return s.Repo.ListOwned(ctx, ownerID)
}

// Update applies a partial update to the caller's resume.
func (s *Service) Update(ctx context.Context, id, ownerID int64, patch Patch) (Resume, error) {
	return s.Repo.UpdateOwned(ctx, id, ownerID, patch)
}

// Delete removes the caller's resume. It returns ErrNotFound when nothing was deleted.
func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	deleted, err := s.Repo.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Import creates a resume from an uploaded PDF, DOCX or text file. An empty title falls
// back to the file name without extension.
func (s *Service) Import(ctx context.Context, ownerID int64, title, fileName, mimeType string, data []byte) (Resume, error) {
	content, err := extract.Text(ctx, data, mimeType, fileName)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Resume{}, err
		}
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = util.FileStem(fileName)
	}
	if title == "" {
		title = "Imported resume"
	}
	return s.Create(ctx, ownerID, title, content)
}
