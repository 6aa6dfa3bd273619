package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the persistence surface handlers depend on. Mongo implements it;
// tests substitute an in-memory fake.
type Store interface {
	UserStore
	ListingStore
	OrderStore
	BlogStore
	ChatStore
	FilterStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database

	colUsers    *mongo.Collection
	colListings *mongo.Collection
	colOrders   *mongo.Collection
	colBlogs    *mongo.Collection
	colSessions *mongo.Collection
	colMessages *mongo.Collection
	colFilters  *mongo.Collection
}

var _ Store = (*Mongo)(nil)

func NewMongo(ctx context.Context, uri, dbname string) (*Mongo, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Mongo{
		Client:      cli,
		DB:          db,
		colUsers:    db.Collection("users"),
		colListings: db.Collection("listings"),
		colOrders:   db.Collection("orders"),
		colBlogs:    db.Collection("blogs"),
		colSessions: db.Collection("chat_sessions"),
		colMessages: db.Collection("chat_messages"),
		colFilters:  db.Collection("saved_filters"),
	}, nil
}

func (s *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Mongo) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	if _, err := s.colUsers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	}); err != nil {
		return err
	}
	if _, err := s.colListings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_name"),
		},
		{
			Keys:    bson.D{{Key: "search_count", Value: -1}},
			Options: options.Index().SetName("search_desc"),
		},
		{
			Keys:    bson.D{{Key: "tld", Value: 1}, {Key: "price", Value: 1}},
			Options: options.Index().SetName("tld_price"),
		},
	}); err != nil {
		return err
	}
	if _, err := s.colBlogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_slug"),
	}); err != nil {
		return err
	}
	if _, err := s.colOrders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("owner_created_desc"),
	}); err != nil {
		return err
	}
	if _, err := s.colMessages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("session_created_asc"),
	}); err != nil {
		return err
	}
	_, err := s.colFilters.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("owner_created_desc"),
	})
	return err
}

// IsDup reports whether err is a mongo duplicate-key error (code 11000).
func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce *mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}

// small helper so each query site does not import options
func optionsFind() *options.FindOptions { return options.Find() }
