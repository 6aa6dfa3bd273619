package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ChatActive  = "active"
	ChatClosed  = "closed"
	ChatWaiting = "waiting"
)

const (
	SenderUser    = "user"
	SenderSupport = "support"
)

type ChatSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id"    json:"user_id"`
	Status    string             `bson:"status"     json:"status"` // "active" | "closed" | "waiting"
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID primitive.ObjectID `bson:"session_id" json:"session_id"`
	Sender    string             `bson:"sender"     json:"sender"` // "user" | "support"
	Body      string             `bson:"body"       json:"body"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

func ValidChatStatus(s string) bool {
	return s == ChatActive || s == ChatClosed || s == ChatWaiting
}
