package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title"      json:"title"`
	Slug      string             `bson:"slug"       json:"slug"` // unique
	Author    string             `bson:"author"     json:"author"`
	Tags      []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Content   string             `bson:"content"    json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
