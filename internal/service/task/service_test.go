package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/studytrack/api/internal/domain"
	"github.com/studytrack/api/internal/repository"
)

type stubTaskRepository struct {
	tasks map[string]*domain.Task
}

func newStubTaskRepository() *stubTaskRepository {
	return &stubTaskRepository{tasks: make(map[string]*domain.Task)}
}

func (s *stubTaskRepository) CreateTask(_ context.Context, task *domain.Task) error {
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *stubTaskRepository) GetTask(_ context.Context, userID, taskID string) (*domain.Task, error) {
	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *stubTaskRepository) ListTasks(_ context.Context, userID, subjectID string) ([]domain.Task, error) {
	out := make([]domain.Task, 0)
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		if subjectID != "" && task.SubjectID != subjectID {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (s *stubTaskRepository) UpdateTask(_ context.Context, task *domain.Task) error {
	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return repository.ErrNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *stubTaskRepository) DeleteTask(_ context.Context, userID, taskID string) error {
	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

type stubSubjectStore struct {
	owners map[string]string // subject id -> owning user id
}

func (s stubSubjectStore) CreateSubject(context.Context, *domain.Subject) error { return nil }
func (s stubSubjectStore) ListSubjects(context.Context, string) ([]domain.Subject, error) {
	return nil, nil
}
func (s stubSubjectStore) UpdateSubject(context.Context, *domain.Subject) error { return nil }
func (s stubSubjectStore) DeleteSubjectCascade(context.Context, string, string) error {
	return nil
}
func (s stubSubjectStore) GetSubject(_ context.Context, userID, subjectID string) (*domain.Subject, error) {
	if owner, ok := s.owners[subjectID]; ok && owner == userID {
		return &domain.Subject{ID: subjectID, UserID: userID}, nil
	}
	return nil, repository.ErrNotFound
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRequiresTitleAndSubject(t *testing.T) {
	subjectID := uuid.NewString()
	svc := New(newStubTaskRepository(), stubSubjectStore{owners: map[string]string{subjectID: "user-1"}}, newLogger())

	_, err := svc.Create(context.Background(), "user-1", CreateInput{SubjectID: subjectID})
	requireValidation(t, err)

	_, err = svc.Create(context.Background(), "user-1", CreateInput{Title: "HW"})
	requireValidation(t, err)
}

func TestCreateRejectsForeignSubject(t *testing.T) {
	subjectID := uuid.NewString()
	repo := newStubTaskRepository()
	svc := New(repo, stubSubjectStore{owners: map[string]string{subjectID: "user-a"}}, newLogger())

	_, err := svc.Create(context.Background(), "user-b", CreateInput{Title: "HW", SubjectID: subjectID})
	requireValidation(t, err)
	if len(repo.tasks) != 0 {
		t.Fatalf("task created despite foreign subject")
	}
}

func TestCreateDefaultsPriorityAndCompleted(t *testing.T) {
	subjectID := uuid.NewString()
	svc := New(newStubTaskRepository(), stubSubjectStore{owners: map[string]string{subjectID: "user-1"}}, newLogger())

	task, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "HW", SubjectID: subjectID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("expected default priority medium, got %q", task.Priority)
	}
	if task.Completed {
		t.Fatalf("expected new task incomplete")
	}
	if task.UserID != "user-1" || task.SubjectID != subjectID {
		t.Fatalf("bad stamping: %+v", task)
	}
}

func TestCreateRejectsUnknownPriority(t *testing.T) {
	subjectID := uuid.NewString()
	svc := New(newStubTaskRepository(), stubSubjectStore{owners: map[string]string{subjectID: "user-1"}}, newLogger())

	_, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "HW", SubjectID: subjectID, Priority: "urgent"})
	requireValidation(t, err)
}

func TestListRejectsMalformedSubjectFilter(t *testing.T) {
	svc := New(newStubTaskRepository(), stubSubjectStore{}, newLogger())
	_, err := svc.List(context.Background(), "user-1", "not-a-uuid")
	requireValidation(t, err)
}

func TestListUnknownSubjectFilterYieldsEmpty(t *testing.T) {
	subjectID := uuid.NewString()
	svc := New(newStubTaskRepository(), stubSubjectStore{owners: map[string]string{subjectID: "user-1"}}, newLogger())

	if _, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "HW", SubjectID: subjectID}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tasks, err := svc.List(context.Background(), "user-1", uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(tasks))
	}
}

func TestUpdateForeignTaskIsNotFound(t *testing.T) {
	subjectID := uuid.NewString()
	svc := New(newStubTaskRepository(), stubSubjectStore{owners: map[string]string{subjectID: "user-a"}}, newLogger())

	task, err := svc.Create(context.Background(), "user-a", CreateInput{Title: "HW", SubjectID: subjectID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	done := true
	_, err = svc.Update(context.Background(), "user-b", task.ID, UpdateInput{Completed: &done})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRejectsMovingToForeignSubject(t *testing.T) {
	mine := uuid.NewString()
	theirs := uuid.NewString()
	svc := New(newStubTaskRepository(), stubSubjectStore{owners: map[string]string{mine: "user-1", theirs: "user-2"}}, newLogger())

	task, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "HW", SubjectID: mine})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Update(context.Background(), "user-1", task.ID, UpdateInput{SubjectID: &theirs})
	requireValidation(t, err)
}

func TestDeleteIsIdempotentlyNotFound(t *testing.T) {
	subjectID := uuid.NewString()
	svc := New(newStubTaskRepository(), stubSubjectStore{owners: map[string]string{subjectID: "user-1"}}, newLogger())

	task, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "HW", SubjectID: subjectID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", task.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", task.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
