package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// NewPGRepo constructs a PGRepo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

const resumeColumns = `id, user_id, title, content, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var r Resume
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.CreatedAt); err != nil {
		return Resume{}, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}

// Create inserts a resume; id and created_at come from the database.
func (r *PGRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	const query = `
INSERT INTO resumes (user_id, title, content)
VALUES ($1, $2, $3)
RETURNING ` + resumeColumns
	return scanResume(r.DB.QueryRowContext(ctx, query, resume.UserID, resume.Title, resume.Content))
}

// GetOwned returns a resume by id for its owner.
func (r *PGRepo) GetOwned(ctx context.Context, id, ownerID int64) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1 AND user_id = $2`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// ListOwned lists the owner's resumes in creation order.
func (r *PGRepo) ListOwned(ctx context.Context, ownerID int64) ([]Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// UpdateOwned applies the non-nil patch fields in a single statement.
func (r *PGRepo) UpdateOwned(ctx context.Context, id, ownerID int64, patch Patch) (Resume, error) {
	if patch.Empty() {
		return r.GetOwned(ctx, id, ownerID)
	}
	const query = `
UPDATE resumes
SET title = COALESCE($3, title),
    content = COALESCE($4, content)
WHERE id = $1 AND user_id = $2
RETURNING ` + resumeColumns
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, id, ownerID, patch.Title, patch.Content))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// DeleteOwned deletes the owner's resume. History rows go with it (ON DELETE CASCADE).
func (r *PGRepo) DeleteOwned(ctx context.Context, id, ownerID int64) (bool, error) {
	const query = `DELETE FROM resumes WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ Repo = (*PGRepo)(nil)
