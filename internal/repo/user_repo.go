package repo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/domainmart/api/internal/domain"
)

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	TouchLastLogin(ctx context.Context, id primitive.ObjectID) error
	SetPushSubscription(ctx context.Context, id primitive.ObjectID, sub *domain.PushSubscription) (bool, error)
	CountUsers(ctx context.Context) (int64, error)
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (s *Mongo) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.find_by_email")
	defer sp.Finish()

	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		sp.SetTag("error", err)
		return nil, err
	}
	return &u, nil
}

func (s *Mongo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts the user; the unique email index turns races into a
// duplicate-key error surfaced through IsDup.
func (s *Mongo) CreateUser(ctx context.Context, u *domain.User) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.insert")
	defer sp.Finish()

	u.Email = normalizeEmail(u.Email)
	u.CreatedAt = time.Now().UTC()
	res, err := s.colUsers.InsertOne(ctx, u)
	if err != nil {
		sp.SetTag("error", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (s *Mongo) TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.colUsers.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login": time.Now().UTC()}})
	return err
}

func (s *Mongo) SetPushSubscription(ctx context.Context, id primitive.ObjectID, sub *domain.PushSubscription) (bool, error) {
	res, err := s.colUsers.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"push": sub}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (s *Mongo) CountUsers(ctx context.Context) (int64, error) {
	return s.colUsers.CountDocuments(ctx, bson.M{})
}
