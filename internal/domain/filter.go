package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedFilter is a stored search a customer can re-run from their account page.
type SavedFilter struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id"    json:"user_id"`
	Name      string             `bson:"name"       json:"name"`
	Query     FilterQuery        `bson:"query"      json:"query"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type FilterQuery struct {
	TLDs     []string `bson:"tlds,omitempty"      json:"tlds,omitempty"`
	Keyword  string   `bson:"keyword,omitempty"   json:"keyword,omitempty"`
	MaxPrice float64  `bson:"max_price,omitempty" json:"max_price,omitempty"`
}
