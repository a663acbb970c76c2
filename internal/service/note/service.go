package note

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

// CreateInput holds attributes for a new note.
type CreateInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	SubjectID string `json:"subjectId"`
}

// UpdateInput holds the fields a note update may change. Nil fields are
// left untouched.
type UpdateInput struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	SubjectID *string `json:"subjectId"`
}

// Service manages notes scoped to their owning user.
type Service struct {
	notes    repository.NoteRepository
	subjects repository.SubjectRepository
	logger   *slog.Logger
}

// New returns a note service.
func New(notes repository.NoteRepository, subjects repository.SubjectRepository, logger *slog.Logger) Service {
	return Service{notes: notes, subjects: subjects, logger: logger}
}

// List returns the caller's notes newest first, optionally narrowed to
// one subject.
func (s Service) List(ctx context.Context, userID, subjectID string) ([]domain.Note, error) {
	if subjectID != "" {
		if _, err := uuid.Parse(subjectID); err != nil {
			return nil, domain.ValidationError("invalid subjectId")
		}
	}
	return s.notes.ListNotes(ctx, userID, subjectID)
}

// Create stores a note after confirming the referenced subject belongs
// to the caller.
func (s Service) Create(ctx context.Context, userID string, input CreateInput) (*domain.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ValidationError("title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.ValidationError("content is required")
	}
	if input.SubjectID == "" {
		return nil, domain.ValidationError("subjectId is required")
	}
	if err := s.checkSubject(ctx, userID, input.SubjectID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	note := &domain.Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		SubjectID: input.SubjectID,
		Title:     title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	s.logger.Info("note created", "note_id", note.ID, "subject_id", note.SubjectID, "user_id", userID)
	return note, nil
}

// Update applies a partial update to a note the caller owns.
func (s Service) Update(ctx context.Context, userID, noteID string, input UpdateInput) (*domain.Note, error) {
	if _, err := uuid.Parse(noteID); err != nil {
		return nil, repository.ErrNotFound
	}
	note, err := s.notes.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ValidationError("title cannot be empty")
		}
		note.Title = title
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, domain.ValidationError("content cannot be empty")
		}
		note.Content = *input.Content
	}
	if input.SubjectID != nil && *input.SubjectID != note.SubjectID {
		if err := s.checkSubject(ctx, userID, *input.SubjectID); err != nil {
			return nil, err
		}
		note.SubjectID = *input.SubjectID
	}
	note.UpdatedAt = time.Now().UTC()
	if err := s.notes.UpdateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note the caller owns.
func (s Service) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := uuid.Parse(noteID); err != nil {
		return repository.ErrNotFound
	}
	return s.notes.DeleteNote(ctx, userID, noteID)
}

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
