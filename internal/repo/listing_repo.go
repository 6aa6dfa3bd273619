package repo

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/domainmart/api/internal/domain"
)

type ListingStore interface {
	CreateListing(ctx context.Context, l *domain.Listing) error
	FindListingByID(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error)
	ListListings(ctx context.Context, p ListingFilter) ([]domain.Listing, error)
	TopListingsBySearch(ctx context.Context, limit int) ([]domain.Listing, error)
	IncListingSearch(ctx context.Context, id primitive.ObjectID) error
	ReplaceListing(ctx context.Context, l *domain.Listing) (bool, error)
	DeleteListing(ctx context.Context, id primitive.ObjectID) (bool, error)
	CountListings(ctx context.Context) (int64, error)
}

type ListingFilter struct {
	TLD      string
	Keyword  string
	MaxPrice float64
	Limit    int
	Skip     int
}

func (s *Mongo) CreateListing(ctx context.Context, l *domain.Listing) error {
	now := time.Now().UTC()
	l.Name = strings.ToLower(strings.TrimSpace(l.Name))
	l.CreatedAt = now
	l.UpdatedAt = now
	res, err := s.colListings.InsertOne(ctx, l)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		l.ID = oid
	}
	return nil
}

func (s *Mongo) FindListingByID(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	var l domain.Listing
	err := s.colListings.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Mongo) ListListings(ctx context.Context, p ListingFilter) ([]domain.Listing, error) {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Skip < 0 {
		p.Skip = 0
	}

	q := bson.M{}
	if p.TLD != "" {
		q["tld"] = strings.ToLower(p.TLD)
	}
	if p.Keyword != "" {
		// literal substring match; the keyword comes straight off the query
		// string and must not be interpreted as a pattern
		q["name"] = bson.M{"$regex": regexp.QuoteMeta(p.Keyword), "$options": "i"}
	}
	if p.MaxPrice > 0 {
		q["price"] = bson.M{"$lte": p.MaxPrice}
	}

	cur, err := s.colListings.Find(ctx, q,
		optionsFind().SetLimit(int64(p.Limit)).SetSkip(int64(p.Skip)).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Listing
	for cur.Next(ctx) {
		var l domain.Listing
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, cur.Err()
}

// TopListingsBySearch backs the popularity ranking: a single sort over the
// pre-aggregated search_count field.
func (s *Mongo) TopListingsBySearch(ctx context.Context, limit int) ([]domain.Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	cur, err := s.colListings.Find(ctx, bson.M{},
		optionsFind().SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "search_count", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Listing
	for cur.Next(ctx) {
		var l domain.Listing
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, cur.Err()
}

func (s *Mongo) IncListingSearch(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.colListings.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"search_count": 1}})
	return err
}

func (s *Mongo) ReplaceListing(ctx context.Context, l *domain.Listing) (bool, error) {
	l.Name = strings.ToLower(strings.TrimSpace(l.Name))
	l.UpdatedAt = time.Now().UTC()
	res, err := s.colListings.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, options.Replace())
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (s *Mongo) DeleteListing(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.colListings.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (s *Mongo) CountListings(ctx context.Context) (int64, error) {
	return s.colListings.CountDocuments(ctx, bson.M{})
}
