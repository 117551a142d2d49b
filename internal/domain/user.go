package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a Migo account. Users are keyed by email; the email is
// unique across the users collection.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email   string             `bson:"email" json:"email"`
	Name    string             `bson:"name" json:"name"`
	Picture string             `bson:"picture,omitempty" json:"picture,omitempty"`

	// Profile information.
	Nickname string     `bson:"nickname,omitempty" json:"nickname,omitempty"`
	Bio      string     `bson:"bio,omitempty" json:"bio,omitempty"`
	Birthday *time.Time `bson:"birthday,omitempty" json:"birthday,omitempty"`
	Gender   string     `bson:"gender,omitempty" json:"gender,omitempty"`
	Phone    string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Country  string     `bson:"country,omitempty" json:"country,omitempty"`

	// Social counters.
	FollowersCount int `bson:"followers_count" json:"followers_count"`
	FollowingCount int `bson:"following_count" json:"following_count"`

	// Preferences.
	Language            string `bson:"language" json:"language"`
	NotificationEnabled bool   `bson:"notification_enabled" json:"notification_enabled"`
	Theme               string `bson:"theme" json:"theme"`

	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	LastLogin  *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	LastActive *time.Time `bson:"last_active,omitempty" json:"last_active,omitempty"`
}
