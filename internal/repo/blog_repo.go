package repo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/domainmart/api/internal/domain"
)

type BlogStore interface {
	CreateBlog(ctx context.Context, b *domain.Blog) error
	FindBlogBySlug(ctx context.Context, slug string) (*domain.Blog, error)
	ListBlogs(ctx context.Context, p ListParams) ([]domain.Blog, error)
	ReplaceBlog(ctx context.Context, b *domain.Blog) (bool, error)
	DeleteBlog(ctx context.Context, slug string) (bool, error)
	CountBlogs(ctx context.Context) (int64, error)
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Mongo) CreateBlog(ctx context.Context, b *domain.Blog) error {
	now := time.Now().UTC()
	b.Slug = normalizeSlug(b.Slug)
	b.CreatedAt = now
	b.UpdatedAt = now
	res, err := s.colBlogs.InsertOne(ctx, b)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid
	}
	return nil
}

func (s *Mongo) FindBlogBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	var b domain.Blog
	err := s.colBlogs.FindOne(ctx, bson.M{"slug": normalizeSlug(slug)}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Mongo) ListBlogs(ctx context.Context, p ListParams) ([]domain.Blog, error) {
	p.clamp()
	cur, err := s.colBlogs.Find(ctx, bson.M{},
		optionsFind().SetLimit(int64(p.Limit)).SetSkip(int64(p.Skip)).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Blog
	for cur.Next(ctx) {
		var b domain.Blog
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, cur.Err()
}

func (s *Mongo) ReplaceBlog(ctx context.Context, b *domain.Blog) (bool, error) {
	b.Slug = normalizeSlug(b.Slug)
	b.UpdatedAt = time.Now().UTC()
	res, err := s.colBlogs.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (s *Mongo) DeleteBlog(ctx context.Context, slug string) (bool, error) {
	res, err := s.colBlogs.DeleteOne(ctx, bson.M{"slug": normalizeSlug(slug)})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (s *Mongo) CountBlogs(ctx context.Context) (int64, error) {
	return s.colBlogs.CountDocuments(ctx, bson.M{})
}
