package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domainmart/api/internal/domain"
)

type FilterStore interface {
	CreateFilter(ctx context.Context, f *domain.SavedFilter) error
	ListFiltersByUser(ctx context.Context, userID primitive.ObjectID, p ListParams) ([]domain.SavedFilter, error)
	DeleteFilterByOwner(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
}

func (s *Mongo) CreateFilter(ctx context.Context, f *domain.SavedFilter) error {
	f.CreatedAt = time.Now().UTC()
	res, err := s.colFilters.InsertOne(ctx, f)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid
	}
	return nil
}

func (s *Mongo) ListFiltersByUser(ctx context.Context, userID primitive.ObjectID, p ListParams) ([]domain.SavedFilter, error) {
	p.clamp()
	cur, err := s.colFilters.Find(ctx,
		bson.M{"user_id": userID},
		optionsFind().SetLimit(int64(p.Limit)).SetSkip(int64(p.Skip)).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.SavedFilter
	for cur.Next(ctx) {
		var f domain.SavedFilter
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, cur.Err()
}

// DeleteFilterByOwner filters on both id and owner so the ownership check
// doubles as the existence check: deleting someone else's filter and deleting
// a missing one are indistinguishable to the caller.
func (s *Mongo) DeleteFilterByOwner(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	res, err := s.colFilters.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
