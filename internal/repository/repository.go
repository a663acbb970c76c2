package repository

import (
	"context"

	"github.com/studytrack/api/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// SubjectRepository persists subjects. Every read and write is scoped
// to the owning user; a subject owned by someone else behaves as absent.
type SubjectRepository interface {
	CreateSubject(ctx context.Context, subject *domain.Subject) error
	GetSubject(ctx context.Context, userID, subjectID string) (*domain.Subject, error)
	ListSubjects(ctx context.Context, userID string) ([]domain.Subject, error)
	UpdateSubject(ctx context.Context, subject *domain.Subject) error
	DeleteSubjectCascade(ctx context.Context, userID, subjectID string) error
}

// TaskRepository persists tasks with owner scoping.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, userID, subjectID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// NoteRepository persists notes with owner scoping.
type NoteRepository interface {
	CreateNote(ctx context.Context, note *domain.Note) error
	GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error)
	ListNotes(ctx context.Context, userID, subjectID string) ([]domain.Note, error)
	UpdateNote(ctx context.Context, note *domain.Note) error
	DeleteNote(ctx context.Context, userID, noteID string) error
}
