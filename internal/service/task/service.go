package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/studytrack/api/internal/domain"
	"github.com/studytrack/api/internal/repository"
)

// CreateInput holds attributes for a new task.
type CreateInput struct {
	Title     string     `json:"title"`
	SubjectID string     `json:"subjectId"`
	DueDate   *time.Time `json:"dueDate"`
	Priority  string     `json:"priority"`
}

// UpdateInput holds the fields a task update may change. Nil fields are
// left untouched.
type UpdateInput struct {
	Title     *string    `json:"title"`
	SubjectID *string    `json:"subjectId"`
	DueDate   *time.Time `json:"dueDate"`
	Priority  *string    `json:"priority"`
	Completed *bool      `json:"completed"`
}

// Service manages tasks scoped to their owning user.
type Service struct {
	tasks    repository.TaskRepository
	subjects repository.SubjectRepository
	logger   *slog.Logger
}

// New returns a task service.
func New(tasks repository.TaskRepository, subjects repository.SubjectRepository, logger *slog.Logger) Service {
	return Service{tasks: tasks, subjects: subjects, logger: logger}
}

// List returns the caller's tasks, optionally narrowed to one subject.
// A well-formed subject id that matches nothing the caller owns yields
// an empty slice, not an error.
func (s Service) List(ctx context.Context, userID, subjectID string) ([]domain.Task, error) {
	if subjectID != "" {
		if _, err := uuid.Parse(subjectID); err != nil {
			return nil, domain.ValidationError("invalid subjectId")
		}
	}
	return s.tasks.ListTasks(ctx, userID, subjectID)
}

// Create stores a task after confirming the referenced subject belongs
// to the caller.
func (s Service) Create(ctx context.Context, userID string, input CreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ValidationError("title is required")
	}
	if input.SubjectID == "" {
		return nil, domain.ValidationError("subjectId is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, domain.ValidationError("priority must be low, medium or high")
	}
	if err := s.checkSubject(ctx, userID, input.SubjectID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	task := &domain.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		SubjectID: input.SubjectID,
		Title:     title,
		DueDate:   input.DueDate,
		Priority:  priority,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("task created", "task_id", task.ID, "subject_id", task.SubjectID, "user_id", userID)
	return task, nil
}

// Update applies a partial update to a task the caller owns.
func (s Service) Update(ctx context.Context, userID, taskID string, input UpdateInput) (*domain.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return nil, repository.ErrNotFound
	}
	task, err := s.tasks.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ValidationError("title cannot be empty")
		}
		task.Title = title
	}
	if input.SubjectID != nil && *input.SubjectID != task.SubjectID {
		if err := s.checkSubject(ctx, userID, *input.SubjectID); err != nil {
			return nil, err
		}
		task.SubjectID = *input.SubjectID
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, domain.ValidationError("priority must be low, medium or high")
		}
		task.Priority = *input.Priority
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task the caller owns. Deleting an already-absent
// task reports not found; nothing else.
func (s Service) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := uuid.Parse(taskID); err != nil {
		return repository.ErrNotFound
	}
	return s.tasks.DeleteTask(ctx, userID, taskID)
}

// checkSubject confirms subjectID names a subject owned by userID. A
// subject that is missing or owned by another user is reported as a
// validation failure, not a lookup error.
func (s Service) checkSubject(ctx context.Context, userID, subjectID string) error {
	if _, err := uuid.Parse(subjectID); err != nil {
		return domain.ValidationError("invalid subjectId")
	}
	if _, err := s.subjects.GetSubject(ctx, userID, subjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ValidationError("subject not found")
		}
		return err
	}
	return nil
}
