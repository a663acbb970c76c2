package subject

import (
	"context"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/studytrack/api/internal/domain"
	"github.com/studytrack/api/internal/repository"
)

// CreateInput holds attributes for a new subject.
type CreateInput struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Progress *int   `json:"progress"`
}

// UpdateInput holds the fields a subject update may change. Nil fields
// are left untouched.
type UpdateInput struct {
	Name     *string `json:"name"`
	Color    *string `json:"color"`
	Progress *int    `json:"progress"`
}

// Service manages subjects and coordinates the deletion cascade.
type Service struct {
	subjects repository.SubjectRepository
	logger   *slog.Logger
}

// New returns a subject service.
func New(subjects repository.SubjectRepository, logger *slog.Logger) Service {
	return Service{subjects: subjects, logger: logger}
}

// List returns the caller's subjects.
func (s Service) List(ctx context.Context, userID string) ([]domain.Subject, error) {
	return s.subjects.ListSubjects(ctx, userID)
}

// Create stores a subject owned by userID.
func (s Service) Create(ctx context.Context, userID string, input CreateInput) (*domain.Subject, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ValidationError("name is required")
	}
	progress := 0
	if input.Progress != nil {
		progress = clampProgress(*input.Progress)
	}
	now := time.Now().UTC()
	subject := &domain.Subject{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Color:     input.Color,
		Progress:  progress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.subjects.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	s.logger.Info("subject created", "subject_id", subject.ID, "user_id", userID)
	return subject, nil
}

// Update applies a partial update to a subject the caller owns. A
// subject owned by someone else behaves exactly like a missing one.
func (s Service) Update(ctx context.Context, userID, subjectID string, input UpdateInput) (*domain.Subject, error) {
	if _, err := uuid.Parse(subjectID); err != nil {
		return nil, repository.ErrNotFound
	}
	subject, err := s.subjects.GetSubject(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ValidationError("name cannot be empty")
		}
		subject.Name = name
	}
	if input.Color != nil {
		subject.Color = *input.Color
	}
	if input.Progress != nil {
		subject.Progress = clampProgress(*input.Progress)
	}
	subject.UpdatedAt = time.Now().UTC()
	if err := s.subjects.UpdateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// Delete removes a subject together with every task and note that
// references it. The repository performs the removal as one atomic
// unit, so no orphaned dependents survive a successful return.
func (s Service) Delete(ctx context.Context, userID, subjectID string) error {
	if _, err := uuid.Parse(subjectID); err != nil {
		return repository.ErrNotFound
	}
	if err := s.subjects.DeleteSubjectCascade(ctx, userID, subjectID); err != nil {
		return err
	}
	s.logger.Info("subject deleted with dependents", "subject_id", subjectID, "user_id", userID)
	return nil
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
