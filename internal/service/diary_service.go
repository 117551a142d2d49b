package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Xiaobonor/Migo-Backend/internal/domain"
	"github.com/Xiaobonor/Migo-Backend/internal/repository"
)

// DiaryEntryInput is a single entry in a diary create request.
type DiaryEntryInput struct {
	Title              string         `json:"title"`
	Content            string         `json:"content"`
	Emotions           []string       `json:"emotions"`
	Medias             []MediaInput   `json:"medias"`
	Tags               []string       `json:"tags"`
	WritingTimeSeconds int            `json:"writing_time_seconds"`
	ImportedData       map[string]any `json:"imported_data"`
}

// DiaryCreateInput creates or extends the diary for a given day.
type DiaryCreateInput struct {
	UserID   string            `json:"user_id" binding:"required"`
	Date     *time.Time        `json:"date"`
	Entries  []DiaryEntryInput `json:"entries"`
	IsPublic bool              `json:"is_public"`
}

// DiaryListFilter narrows diary listings.
type DiaryListFilter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int64
	Limit     int64
}

// DiaryService manages day-structured diaries.
type DiaryService struct {
	diaries repository.DiaryRepository
	users   repository.UserRepository
	logger  *zap.Logger
}

// NewDiaryService wires dependencies.
func NewDiaryService(diaries repository.DiaryRepository, users repository.UserRepository, logger *zap.Logger) *DiaryService {
	return &DiaryService{diaries: diaries, users: users, logger: logger}
}

// CreateOrAppend adds entries to the diary for the given day, creating the
// diary when the user has none for that date yet.
func (s *DiaryService) CreateOrAppend(ctx context.Context, input DiaryCreateInput) (domain.Diary, error) {
	ctx, span := otel.Tracer("github.com/Xiaobonor/Migo-Backend/internal/service").Start(ctx, "DiaryService.CreateOrAppend")
	defer span.End()

	userID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		return domain.Diary{}, fmt.Errorf("parse user id: %w", repository.ErrNotFound)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		span.RecordError(err)
		return domain.Diary{}, err
	}

	now := time.Now().UTC()
	date := now
	if input.Date != nil {
		date = *input.Date
	}
	date = dayOf(date)

	diary, err := s.diaries.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			span.RecordError(err)
			return domain.Diary{}, err
		}
		diary = domain.Diary{
			UserID:    userID,
			Date:      date,
			Entries:   []domain.DiaryEntry{},
			CreatedAt: now,
		}
	}

	for _, entryInput := range input.Entries {
		diary.Entries = append(diary.Entries, domain.DiaryEntry{
			ID:                 primitive.NewObjectID(),
			Title:              entryInput.Title,
			Content:            entryInput.Content,
			Emotions:           entryInput.Emotions,
			Medias:             buildMedias(entryInput.Medias),
			Tags:               entryInput.Tags,
			WritingTimeSeconds: entryInput.WritingTimeSeconds,
			ImportedData:       entryInput.ImportedData,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	diary.IsPublic = input.IsPublic
	diary.UpdatedAt = now

	saved, err := s.diaries.Save(ctx, diary)
	if err != nil {
		span.RecordError(err)
		return domain.Diary{}, err
	}
	s.logger.Info("diary saved",
		zap.String("diary_id", saved.ID.Hex()),
		zap.String("user_id", input.UserID),
		zap.Int("entries", len(saved.Entries)),
	)
	return saved, nil
}

// Get returns a diary by ID.
func (s *DiaryService) Get(ctx context.Context, id string) (domain.Diary, error) {
	diaryID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Diary{}, fmt.Errorf("parse diary id: %w", repository.ErrNotFound)
	}
	return s.diaries.GetByID(ctx, diaryID)
}

// GetByDate returns the user's diary for a specific day.
func (s *DiaryService) GetByDate(ctx context.Context, userID string, date time.Time) (domain.Diary, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.Diary{}, fmt.Errorf("parse user id: %w", repository.ErrNotFound)
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return domain.Diary{}, err
	}
	return s.diaries.GetByUserAndDate(ctx, id, dayOf(date))
}

// List returns the user's diaries newest-first, optionally bounded by dates.
func (s *DiaryService) List(ctx context.Context, filter DiaryListFilter) ([]domain.Diary, error) {
	userID, err := primitive.ObjectIDFromHex(filter.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", repository.ErrNotFound)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.diaries.List(ctx, repository.DiaryFilter{
		UserID:    userID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Skip:      filter.Skip,
		Limit:     filter.Limit,
	})
}

// Delete removes a diary.
func (s *DiaryService) Delete(ctx context.Context, id string) error {
	diaryID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parse diary id: %w", repository.ErrNotFound)
	}
	return s.diaries.Delete(ctx, diaryID)
}

// DeleteEntry removes a single entry from a diary.
func (s *DiaryService) DeleteEntry(ctx context.Context, diaryID, entryID string) error {
	id, err := primitive.ObjectIDFromHex(diaryID)
	if err != nil {
		return fmt.Errorf("parse diary id: %w", repository.ErrNotFound)
	}

	diary, err := s.diaries.GetByID(ctx, id)
	if err != nil {
		return err
	}

	kept := diary.Entries[:0]
	for _, entry := range diary.Entries {
		if entry.ID.Hex() != entryID {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(diary.Entries) {
		return repository.ErrNotFound
	}
	diary.Entries = kept
	diary.UpdatedAt = time.Now().UTC()

	_, err = s.diaries.Save(ctx, diary)
	return err
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
