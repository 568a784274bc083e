package improvements

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgForeignKeyViolation = "23503"

// PGRepo stores history in Postgres.
type PGRepo struct {
	DB *sql.DB
}

// NewPGRepo constructs a PGRepo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

// Append inserts only while the parent resume exists, so a concurrent delete yields
// ErrNotFound instead of an orphan row.
func (r *PGRepo) Append(ctx context.Context, resumeID int64, content string) (Record, error) {
	const q = `
INSERT INTO resume_improvement_history (resume_id, improved_content)
SELECT $1::bigint, $2::text
WHERE EXISTS (SELECT 1 FROM resumes WHERE id = $1::bigint)
RETURNING id, resume_id, improved_content, created_at`

	var rec Record
	err := r.DB.QueryRowContext(ctx, q, resumeID, content).
		Scan(&rec.ID, &rec.ResumeID, &rec.ImprovedContent, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

func (r *PGRepo) ListByResume(ctx context.Context, resumeID int64) ([]Record, error) {
	const q = `
SELECT id, resume_id, improved_content, created_at
FROM resume_improvement_history
WHERE resume_id = $1
ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, q, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.ResumeID, &rec.ImprovedContent, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
