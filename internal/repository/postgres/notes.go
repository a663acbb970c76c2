package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/studytrack/api/internal/domain"
	"github.com/studytrack/api/internal/repository"
)

// CreateNote inserts a note.
func (r *Repository) CreateNote(ctx context.Context, note *domain.Note) error {
	const query = `INSERT INTO notes (id, user_id, subject_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query, note.ID, note.UserID, note.SubjectID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt)
	return err
}

// GetNote fetches one note scoped to its owner.
func (r *Repository) GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	const query = `SELECT id, user_id, subject_id, title, content, created_at, updated_at
		FROM notes WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, noteID, userID)
	var n domain.Note
	if err := row.Scan(&n.ID, &n.UserID, &n.SubjectID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// ListNotes returns the user's notes newest first, optionally narrowed
// to a subject.
func (r *Repository) ListNotes(ctx context.Context, userID, subjectID string) ([]domain.Note, error) {
	const base = `SELECT id, user_id, subject_id, title, content, created_at, updated_at
		FROM notes WHERE user_id = $1`
	var (
		rows pgx.Rows
		err  error
	)
	if subjectID != "" {
		rows, err = r.pool.Query(ctx, base+` AND subject_id = $2 ORDER BY created_at DESC`, userID, subjectID)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY created_at DESC`, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.SubjectID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// UpdateNote persists mutable note fields, matching id and owner.
func (r *Repository) UpdateNote(ctx context.Context, note *domain.Note) error {
	const query = `UPDATE notes SET subject_id = $1, title = $2, content = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6`
	tag, err := r.pool.Exec(ctx, query, note.SubjectID, note.Title, note.Content, note.UpdatedAt, note.ID, note.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteNote removes a note matching id and owner.
func (r *Repository) DeleteNote(ctx context.Context, userID, noteID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, noteID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
