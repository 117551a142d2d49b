package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiaryEntry is a single entry within a day's diary.
type DiaryEntry struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Content            string             `bson:"content" json:"content"`
	Emotions           []string           `bson:"emotions,omitempty" json:"emotions"`
	Medias             []Media            `bson:"medias,omitempty" json:"medias"`
	Tags               []string           `bson:"tags,omitempty" json:"tags"`
	WritingTimeSeconds int                `bson:"writing_time_seconds" json:"writing_time_seconds"`
	ImportedData       map[string]any     `bson:"imported_data,omitempty" json:"imported_data,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// Diary groups a user's entries for a single day. There is at most one diary
// per user and date.
type Diary struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Date      time.Time          `bson:"date" json:"date"`
	Entries   []DiaryEntry       `bson:"entries" json:"entries"`
	IsPublic  bool               `bson:"is_public" json:"is_public"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
