package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/studytrack/api/internal/domain"
	"github.com/studytrack/api/internal/repository"
)

// CreateTask inserts a task.
func (r *Repository) CreateTask(ctx context.Context, task *domain.Task) error {
	const query = `INSERT INTO tasks (id, user_id, subject_id, title, due_date, priority, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query, task.ID, task.UserID, task.SubjectID, task.Title, task.DueDate, task.Priority, task.Completed, task.CreatedAt, task.UpdatedAt)
	return err
}

// GetTask fetches one task scoped to its owner.
func (r *Repository) GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	const query = `SELECT id, user_id, subject_id, title, due_date, priority, completed, created_at, updated_at
		FROM tasks WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, taskID, userID)
	var t domain.Task
	if err := row.Scan(&t.ID, &t.UserID, &t.SubjectID, &t.Title, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListTasks returns the user's tasks, optionally narrowed to a subject.
// A subject id that matches nothing yields an empty slice.
func (r *Repository) ListTasks(ctx context.Context, userID, subjectID string) ([]domain.Task, error) {
	const base = `SELECT id, user_id, subject_id, title, due_date, priority, completed, created_at, updated_at
		FROM tasks WHERE user_id = $1`
	var (
		rows pgx.Rows
		err  error
	)
	if subjectID != "" {
		rows, err = r.pool.Query(ctx, base+` AND subject_id = $2 ORDER BY created_at ASC`, userID, subjectID)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY created_at ASC`, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.SubjectID, &t.Title, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask persists mutable task fields, matching id and owner.
func (r *Repository) UpdateTask(ctx context.Context, task *domain.Task) error {
	const query = `UPDATE tasks SET subject_id = $1, title = $2, due_date = $3, priority = $4, completed = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8`
	tag, err := r.pool.Exec(ctx, query, task.SubjectID, task.Title, task.DueDate, task.Priority, task.Completed, task.UpdatedAt, task.ID, task.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteTask removes a task matching id and owner.
func (r *Repository) DeleteTask(ctx context.Context, userID, taskID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
