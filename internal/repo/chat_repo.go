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

type ChatStore interface {
	CreateChatSession(ctx context.Context, cs *domain.ChatSession) error
	FindChatSessionByID(ctx context.Context, id primitive.ObjectID) (*domain.ChatSession, error)
	ListChatSessions(ctx context.Context, p ListParams) ([]domain.ChatSession, error)
	UpdateChatStatus(ctx context.Context, id primitive.ObjectID, status string) (*domain.ChatSession, error)
	AddChatMessage(ctx context.Context, m *domain.ChatMessage) error
	ListChatMessages(ctx context.Context, sessionID primitive.ObjectID, p ListParams) ([]domain.ChatMessage, error)
	CountChatSessions(ctx context.Context) (int64, error)
}

func (s *Mongo) CreateChatSession(ctx context.Context, cs *domain.ChatSession) error {
	now := time.Now().UTC()
	cs.CreatedAt = now
	cs.UpdatedAt = now
	res, err := s.colSessions.InsertOne(ctx, cs)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cs.ID = oid
	}
	return nil
}

func (s *Mongo) FindChatSessionByID(ctx context.Context, id primitive.ObjectID) (*domain.ChatSession, error) {
	var cs domain.ChatSession
	err := s.colSessions.FindOne(ctx, bson.M{"_id": id}).Decode(&cs)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

func (s *Mongo) ListChatSessions(ctx context.Context, p ListParams) ([]domain.ChatSession, error) {
	p.clamp()
	cur, err := s.colSessions.Find(ctx, bson.M{},
		optionsFind().SetLimit(int64(p.Limit)).SetSkip(int64(p.Skip)).
			SetSort(bson.D{{Key: "updated_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.ChatSession
	for cur.Next(ctx) {
		var cs domain.ChatSession
		if err := cur.Decode(&cs); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, cur.Err()
}

func (s *Mongo) UpdateChatStatus(ctx context.Context, id primitive.ObjectID, status string) (*domain.ChatSession, error) {
	res := s.colSessions.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var cs domain.ChatSession
	if err := res.Decode(&cs); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &cs, nil
}

func (s *Mongo) AddChatMessage(ctx context.Context, m *domain.ChatMessage) error {
	m.CreatedAt = time.Now().UTC()
	res, err := s.colMessages.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	// keep the session ordering fresh for the admin list
	_, _ = s.colSessions.UpdateOne(ctx,
		bson.M{"_id": m.SessionID},
		bson.M{"$set": bson.M{"updated_at": m.CreatedAt}})
	return nil
}

func (s *Mongo) ListChatMessages(ctx context.Context, sessionID primitive.ObjectID, p ListParams) ([]domain.ChatMessage, error) {
	p.clamp()
	cur, err := s.colMessages.Find(ctx,
		bson.M{"session_id": sessionID},
		optionsFind().SetLimit(int64(p.Limit)).SetSkip(int64(p.Skip)).
			SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.ChatMessage
	for cur.Next(ctx) {
		var m domain.ChatMessage
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

func (s *Mongo) CountChatSessions(ctx context.Context) (int64, error) {
	return s.colSessions.CountDocuments(ctx, bson.M{})
}
