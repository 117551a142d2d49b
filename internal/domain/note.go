package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a short free-form journal entry with tagged emotions and attached
// media references.
type Note struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Content     string             `bson:"content" json:"content"`
	ContentType string             `bson:"content_type" json:"content_type"`
	Emotions    []string           `bson:"emotions,omitempty" json:"emotions"`
	Medias      []Media            `bson:"medias,omitempty" json:"medias"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
