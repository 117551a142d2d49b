package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Media is an attachment reference embedded in notes and diary entries.
// Storage and transcoding of the referenced content live outside this service.
type Media struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        string             `bson:"type" json:"type"`
	URL         string             `bson:"url" json:"url"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}
