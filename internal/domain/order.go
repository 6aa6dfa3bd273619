package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id"       json:"user_id"`
	ListingID  primitive.ObjectID `bson:"listing_id"    json:"listing_id"`
	DomainName string             `bson:"domain_name"   json:"domain_name"`
	Amount     float64            `bson:"amount"        json:"amount"`
	Status     string             `bson:"status"        json:"status"`
	PaymentRef string             `bson:"payment_ref"   json:"payment_ref"`
	CreatedAt  time.Time          `bson:"created_at"    json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"    json:"updated_at"`
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPaid, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}
