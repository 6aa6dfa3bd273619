package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name"          json:"name"`
	Role         string             `bson:"role"          json:"role"`        // "admin" | "customer"
	Provider     string             `bson:"provider"      json:"provider"`    // "local" | "google"
	ExternalID   string             `bson:"external_id,omitempty" json:"external_id,omitempty"` // Google sub
	Push         *PushSubscription  `bson:"push,omitempty" json:"-"`
	LastLogin    time.Time          `bson:"last_login,omitempty" json:"last_login"`
	CreatedAt    time.Time          `bson:"created_at"    json:"created_at"`
}

// PushSubscription is the browser push payload stored verbatim on the user.
type PushSubscription struct {
	Endpoint string            `bson:"endpoint" json:"endpoint"`
	Keys     map[string]string `bson:"keys"     json:"keys"`
}
