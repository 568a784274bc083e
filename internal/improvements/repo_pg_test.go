package improvements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var historyColumns = []string{"id", "resume_id", "improved_content", "created_at"}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPGRepo(db), mock
}

func TestPGRepoAppend(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO resume_improvement_history (.+) WHERE EXISTS").
		WithArgs(int64(7), "Go [Improved]").
		WillReturnRows(sqlmock.NewRows(historyColumns).AddRow(int64(3), int64(7), "Go [Improved]", created))

	rec, err := repo.Append(context.Background(), 7, "Go [Improved]")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if rec.ID != 3 || rec.ResumeID != 7 || !rec.CreatedAt.Equal(created) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoAppendMissingResume(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO resume_improvement_history").
		WithArgs(int64(7), "x").
		WillReturnRows(sqlmock.NewRows(historyColumns))
	mock.ExpectQuery("INSERT INTO resume_improvement_history").
		WithArgs(int64(7), "x").
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})

	for i := 0; i < 2; i++ {
		if _, err := repo.Append(context.Background(), 7, "x"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("attempt %d: expected ErrNotFound, got %v", i, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoAppendPassesOtherErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("INSERT INTO resume_improvement_history").WillReturnError(boom)

	if _, err := repo.Append(context.Background(), 7, "x"); !errors.Is(err, boom) {
		t.Fatalf("expected raw error, got %v", err)
	}
}

func TestPGRepoListByResumeOrdersNewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	newer := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM resume_improvement_history WHERE resume_id = \\$1 ORDER BY created_at DESC, id DESC").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(historyColumns).
			AddRow(int64(2), int64(7), "v2", newer).
			AddRow(int64(1), int64(7), "v1", older))

	list, err := repo.ListByResume(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByResume: %v", err)
	}
	if len(list) != 2 || list[0].ID != 2 || list[1].ID != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
}
