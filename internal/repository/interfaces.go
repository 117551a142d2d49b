package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Xiaobonor/Migo-Backend/internal/domain"
)

// ErrNotFound signals that no document matched the lookup.
var ErrNotFound = errors.New("repository: not found")

// UserRepository exposes persistence for Migo accounts.
//
// Upsert must be idempotent under concurrent duplicate sign-ins for the same
// email: the collection carries a unique index on email, and losers of the
// create race converge on the already-created document.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (domain.User, error)
	// Upsert creates the user if absent, otherwise reuses the stored
	// document, and touches last_login/last_active either way.
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	// TouchLastActive records activity for an existing user.
	TouchLastActive(ctx context.Context, id primitive.ObjectID) error
}

// NoteFilter narrows note listings.
type NoteFilter struct {
	UserID *primitive.ObjectID
	Skip   int64
	Limit  int64
}

// NoteRepository persists notes.
type NoteRepository interface {
	Create(ctx context.Context, note domain.Note) (domain.Note, error)
	List(ctx context.Context, filter NoteFilter) ([]domain.Note, error)
}

// DiaryFilter narrows diary listings to a user and optional date range.
type DiaryFilter struct {
	UserID    primitive.ObjectID
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int64
	Limit     int64
}

// DiaryRepository persists day-structured diaries.
type DiaryRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (domain.Diary, error)
	GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (domain.Diary, error)
	// Save writes the full diary document, inserting when the ID is new.
	Save(ctx context.Context, diary domain.Diary) (domain.Diary, error)
	// List returns diaries newest-first.
	List(ctx context.Context, filter DiaryFilter) ([]domain.Diary, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
