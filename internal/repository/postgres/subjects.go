package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studytrack/api/internal/domain"
	"github.com/studytrack/api/internal/repository"
)

// CreateSubject inserts a subject.
func (r *Repository) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	const query = `INSERT INTO subjects (id, user_id, name, color, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query, subject.ID, subject.UserID, subject.Name, subject.Color, subject.Progress, subject.CreatedAt, subject.UpdatedAt)
	return err
}

// GetSubject fetches one subject scoped to its owner.
func (r *Repository) GetSubject(ctx context.Context, userID, subjectID string) (*domain.Subject, error) {
	const query = `SELECT id, user_id, name, color, progress, created_at, updated_at
		FROM subjects WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, subjectID, userID)
	var s domain.Subject
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Color, &s.Progress, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListSubjects returns the user's subjects ordered by creation time.
func (r *Repository) ListSubjects(ctx context.Context, userID string) ([]domain.Subject, error) {
	const query = `SELECT id, user_id, name, color, progress, created_at, updated_at
		FROM subjects WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := make([]domain.Subject, 0)
	for rows.Next() {
		var s domain.Subject
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Color, &s.Progress, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// UpdateSubject persists mutable subject fields, matching id and owner.
func (r *Repository) UpdateSubject(ctx context.Context, subject *domain.Subject) error {
	const query = `UPDATE subjects SET name = $1, color = $2, progress = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6`
	tag, err := r.pool.Exec(ctx, query, subject.Name, subject.Color, subject.Progress, subject.UpdatedAt, subject.ID, subject.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteSubjectCascade removes a subject and every task and note that
// references it, in one transaction. The caller never observes a state
// with the subject gone and dependents remaining, or the reverse.
func (r *Repository) DeleteSubjectCascade(ctx context.Context, userID, subjectID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cascade: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE subject_id = $1 AND user_id = $2`, subjectID, userID); err != nil {
		return fmt.Errorf("delete dependent tasks: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM notes WHERE subject_id = $1 AND user_id = $2`, subjectID, userID); err != nil {
		return fmt.Errorf("delete dependent notes: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM subjects WHERE id = $1 AND user_id = $2`, subjectID, userID)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Nothing matched the (id, owner) pair; roll back the dependent
		// deletes, which were scoped to the same owner and so removed
		// nothing either.
		return repository.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cascade: %w", err)
	}
	return nil
}
