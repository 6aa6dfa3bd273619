package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ListingAvailable = "available"
	ListingReserved  = "reserved"
	ListingSold      = "sold"
)

// Listing is a domain name offered for sale.
type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name"          json:"name"` // unique, lowercased
	TLD         string             `bson:"tld"           json:"tld"`
	Price       float64            `bson:"price"         json:"price"`
	Category    string             `bson:"category"      json:"category"`
	Status      string             `bson:"status"        json:"status"` // "available" | "reserved" | "sold"
	Featured    bool               `bson:"featured"      json:"featured"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	SearchCount int64              `bson:"search_count"  json:"search_count"`
	CreatedAt   time.Time          `bson:"created_at"    json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"    json:"updated_at"`
}

func ValidListingStatus(s string) bool {
	return s == ListingAvailable || s == ListingReserved || s == ListingSold
}
