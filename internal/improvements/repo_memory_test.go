package improvements

import (
	"context"
	"errors"
	"testing"
	"time"

	"resume-service/internal/resumes"
)

func TestMemoryRepoRequiresExistingResume(t *testing.T) {
	ctx := context.Background()
	resumeRepo := resumes.NewMemoryRepo()
	repo := NewMemoryRepo(resumeRepo)

	if _, err := repo.Append(ctx, 99, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	resume, err := resumeRepo.Create(ctx, resumes.Resume{UserID: 1, Title: "A", Content: "a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec, err := repo.Append(ctx, resume.ID, "a [Improved]")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if rec.ID == 0 || rec.ResumeID != resume.ID || rec.ImprovedContent != "a [Improved]" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestMemoryRepoListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(nil)
	base := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)

	repo.now = func() time.Time { return base }
	first, _ := repo.Append(ctx, 1, "v1")
	second, _ := repo.Append(ctx, 1, "v2")
	repo.now = func() time.Time { return base.Add(time.Minute) }
	third, _ := repo.Append(ctx, 1, "v3")
	if _, err := repo.Append(ctx, 2, "other"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	list, err := repo.ListByResume(ctx, 1)
	if err != nil {
		t.Fatalf("ListByResume: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	if list[0].ID != third.ID || list[1].ID != second.ID || list[2].ID != first.ID {
		t.Fatalf("unexpected order: %+v", list)
	}

	empty, err := repo.ListByResume(ctx, 42)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v err=%v", empty, err)
	}

	repo.DeleteResume(1)
	if list, _ := repo.ListByResume(ctx, 1); len(list) != 0 {
		t.Fatalf("expected history dropped, got %+v", list)
	}
}

// deletingChecker reports the resume as present while a cascade delete races the append.
type deletingChecker struct {
	repo *MemoryRepo
	done chan struct{}
}

func (d *deletingChecker) Exists(context.Context, int64) (bool, error) {
	go func() {
		d.repo.DeleteResume(7)
		close(d.done)
	}()
	return true, nil
}

func TestMemoryRepoCascadeDuringAppendLeavesNoOrphan(t *testing.T) {
	ctx := context.Background()
	checker := &deletingChecker{done: make(chan struct{})}
	repo := NewMemoryRepo(checker)
	checker.repo = repo

	if _, err := repo.Append(ctx, 7, "improved"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	select {
	case <-checker.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("cascade delete did not finish")
	}

	list, err := repo.ListByResume(ctx, 7)
	if err != nil {
		t.Fatalf("ListByResume: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected cascade to remove the appended record, got %+v", list)
	}
}
