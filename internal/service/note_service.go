package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Xiaobonor/Migo-Backend/internal/domain"
	"github.com/Xiaobonor/Migo-Backend/internal/repository"
)

// MediaInput describes an attachment reference in a create request.
type MediaInput struct {
	Type        string `json:"type" binding:"required"`
	URL         string `json:"url" binding:"required"`
	Description string `json:"description"`
}

// NoteCreateInput is the payload for creating a note.
type NoteCreateInput struct {
	UserID      string       `json:"user_id" binding:"required"`
	Content     string       `json:"content" binding:"required"`
	ContentType string       `json:"content_type" binding:"required"`
	Emotions    []string     `json:"emotions"`
	Medias      []MediaInput `json:"medias"`
	Location    string       `json:"location"`
}

// NoteService handles note creation and listing.
type NoteService struct {
	notes  repository.NoteRepository
	users  repository.UserRepository
	logger *zap.Logger
}

// NewNoteService wires dependencies.
func NewNoteService(notes repository.NoteRepository, users repository.UserRepository, logger *zap.Logger) *NoteService {
	return &NoteService{notes: notes, users: users, logger: logger}
}

// Create validates the owning user exists and persists the note.
func (s *NoteService) Create(ctx context.Context, input NoteCreateInput) (domain.Note, error) {
	ctx, span := otel.Tracer("github.com/Xiaobonor/Migo-Backend/internal/service").Start(ctx, "NoteService.Create")
	defer span.End()

	userID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		return domain.Note{}, fmt.Errorf("parse user id: %w", repository.ErrNotFound)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		span.RecordError(err)
		return domain.Note{}, err
	}

	note := domain.Note{
		UserID:      userID,
		Content:     input.Content,
		ContentType: input.ContentType,
		Emotions:    input.Emotions,
		Medias:      buildMedias(input.Medias),
		Location:    input.Location,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.notes.Create(ctx, note)
	if err != nil {
		span.RecordError(err)
		return domain.Note{}, err
	}
	s.logger.Info("note created", zap.String("note_id", created.ID.Hex()), zap.String("user_id", input.UserID))
	return created, nil
}

// List returns notes, optionally scoped to a user, newest first.
func (s *NoteService) List(ctx context.Context, userID string, skip, limit int64) ([]domain.Note, error) {
	filter := repository.NoteFilter{Skip: skip, Limit: limit}
	if userID != "" {
		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return nil, fmt.Errorf("parse user id: %w", repository.ErrNotFound)
		}
		filter.UserID = &id
	}
	return s.notes.List(ctx, filter)
}

func buildMedias(inputs []MediaInput) []domain.Media {
	if len(inputs) == 0 {
		return nil
	}
	medias := make([]domain.Media, 0, len(inputs))
	for _, m := range inputs {
		medias = append(medias, domain.Media{
			ID:          primitive.NewObjectID(),
			Type:        m.Type,
			URL:         m.URL,
			Description: m.Description,
		})
	}
	return medias
}
