package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/domainmart/api/internal/domain"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	FindOrderByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, p ListParams) ([]domain.Order, error)
	ListOrders(ctx context.Context, p ListParams) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) (bool, error)
	CountOrders(ctx context.Context) (int64, error)
}

type ListParams struct {
	Limit int
	Skip  int
}

func (p *ListParams) clamp() {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

func (s *Mongo) CreateOrder(ctx context.Context, o *domain.Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	res, err := s.colOrders.InsertOne(ctx, o)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid
	}
	return nil
}

func (s *Mongo) FindOrderByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var o domain.Order
	err := s.colOrders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Mongo) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, p ListParams) ([]domain.Order, error) {
	return s.findOrders(ctx, bson.M{"user_id": userID}, p)
}

func (s *Mongo) ListOrders(ctx context.Context, p ListParams) ([]domain.Order, error) {
	return s.findOrders(ctx, bson.M{}, p)
}

func (s *Mongo) findOrders(ctx context.Context, q bson.M, p ListParams) ([]domain.Order, error) {
	p.clamp()
	cur, err := s.colOrders.Find(ctx, q,
		optionsFind().SetLimit(int64(p.Limit)).SetSkip(int64(p.Skip)).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Order
	for cur.Next(ctx) {
		var o domain.Order
		if err := cur.Decode(&o); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, cur.Err()
}

// UpdateOrderStatus is last-write-wins: no versioning, the final concurrent
// writer's status sticks.
func (s *Mongo) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) (*domain.Order, error) {
	res := s.colOrders.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var o domain.Order
	if err := res.Decode(&o); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *Mongo) DeleteOrder(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.colOrders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (s *Mongo) CountOrders(ctx context.Context) (int64, error) {
	return s.colOrders.CountDocuments(ctx, bson.M{})
}
