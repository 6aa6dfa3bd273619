package http_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/domainmart/api/internal/domain"
	api "github.com/domainmart/api/internal/http"
	"github.com/domainmart/api/internal/queue"
	"github.com/domainmart/api/internal/repo"
	"github.com/domainmart/api/internal/security"
)

const testSecret = "test-secret"

// memStore is an in-memory repo.Store used by handler tests.
type memStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*domain.User
	listings map[primitive.ObjectID]*domain.Listing
	orders   map[primitive.ObjectID]*domain.Order
	blogs    map[primitive.ObjectID]*domain.Blog
	sessions map[primitive.ObjectID]*domain.ChatSession
	messages []*domain.ChatMessage
	filters  map[primitive.ObjectID]*domain.SavedFilter
}

var _ repo.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:    map[primitive.ObjectID]*domain.User{},
		listings: map[primitive.ObjectID]*domain.Listing{},
		orders:   map[primitive.ObjectID]*domain.Order{},
		blogs:    map[primitive.ObjectID]*domain.Blog{},
		sessions: map[primitive.ObjectID]*domain.ChatSession{},
		filters:  map[primitive.ObjectID]*domain.SavedFilter{},
	}
}

func dupErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

func (s *memStore) Ping(context.Context) error  { return nil }
func (s *memStore) Close(context.Context) error { return nil }

func (s *memStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, e := range s.users {
		if e.Email == u.Email {
			return dupErr()
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) TouchLastLogin(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.LastLogin = time.Now().UTC()
	}
	return nil
}

func (s *memStore) SetPushSubscription(_ context.Context, id primitive.ObjectID, sub *domain.PushSubscription) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.Push = sub
	return true, nil
}

func (s *memStore) CountUsers(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *memStore) CreateListing(_ context.Context, l *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.Name = strings.ToLower(strings.TrimSpace(l.Name))
	for _, e := range s.listings {
		if e.Name == l.Name {
			return dupErr()
		}
	}
	l.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	cp := *l
	s.listings[l.ID] = &cp
	return nil
}

func (s *memStore) FindListingByID(_ context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.listings[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) ListListings(_ context.Context, p repo.ListingFilter) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, l := range s.listings {
		if p.TLD != "" && l.TLD != strings.ToLower(p.TLD) {
			continue
		}
		if p.Keyword != "" && !strings.Contains(l.Name, strings.ToLower(p.Keyword)) {
			continue
		}
		if p.MaxPrice > 0 && l.Price > p.MaxPrice {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (s *memStore) TopListingsBySearch(_ context.Context, limit int) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, l := range s.listings {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SearchCount > out[j].SearchCount })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) IncListingSearch(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.listings[id]; ok {
		l.SearchCount++
	}
	return nil
}

func (s *memStore) ReplaceListing(_ context.Context, l *domain.Listing) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[l.ID]; !ok {
		return false, nil
	}
	for id, e := range s.listings {
		if id != l.ID && e.Name == l.Name {
			return false, dupErr()
		}
	}
	l.UpdatedAt = time.Now().UTC()
	cp := *l
	s.listings[l.ID] = &cp
	return true, nil
}

func (s *memStore) DeleteListing(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return false, nil
	}
	delete(s.listings, id)
	return true, nil
}

func (s *memStore) CountListings(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.listings)), nil
}

func (s *memStore) CreateOrder(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *memStore) FindOrderByID(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) ListOrdersByUser(_ context.Context, userID primitive.ObjectID, _ repo.ListParams) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *memStore) ListOrders(_ context.Context, _ repo.ListParams) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *memStore) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	cp := *o
	return &cp, nil
}

func (s *memStore) DeleteOrder(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return false, nil
	}
	delete(s.orders, id)
	return true, nil
}

func (s *memStore) CountOrders(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.orders)), nil
}

func (s *memStore) CreateBlog(_ context.Context, b *domain.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.Slug = strings.ToLower(strings.TrimSpace(b.Slug))
	for _, e := range s.blogs {
		if e.Slug == b.Slug {
			return dupErr()
		}
	}
	b.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	cp := *b
	s.blogs[b.ID] = &cp
	return nil
}

func (s *memStore) FindBlogBySlug(_ context.Context, slug string) (*domain.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, b := range s.blogs {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListBlogs(_ context.Context, _ repo.ListParams) ([]domain.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Blog
	for _, b := range s.blogs {
		out = append(out, *b)
	}
	return out, nil
}

func (s *memStore) ReplaceBlog(_ context.Context, b *domain.Blog) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blogs[b.ID]; !ok {
		return false, nil
	}
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	s.blogs[b.ID] = &cp
	return true, nil
}

func (s *memStore) DeleteBlog(_ context.Context, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slug = strings.ToLower(strings.TrimSpace(slug))
	for id, b := range s.blogs {
		if b.Slug == slug {
			delete(s.blogs, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CountBlogs(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.blogs)), nil
}

func (s *memStore) CreateChatSession(_ context.Context, cs *domain.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	cs.CreatedAt = now
	cs.UpdatedAt = now
	cp := *cs
	s.sessions[cs.ID] = &cp
	return nil
}

func (s *memStore) FindChatSessionByID(_ context.Context, id primitive.ObjectID) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cs, ok := s.sessions[id]; ok {
		cp := *cs
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) ListChatSessions(_ context.Context, _ repo.ListParams) ([]domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ChatSession
	for _, cs := range s.sessions {
		out = append(out, *cs)
	}
	return out, nil
}

func (s *memStore) UpdateChatStatus(_ context.Context, id primitive.ObjectID, status string) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	cs.Status = status
	cs.UpdatedAt = time.Now().UTC()
	cp := *cs
	return &cp, nil
}

func (s *memStore) AddChatMessage(_ context.Context, m *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	cp := *m
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *memStore) ListChatMessages(_ context.Context, sessionID primitive.ObjectID, _ repo.ListParams) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ChatMessage
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memStore) CountChatSessions(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.sessions)), nil
}

func (s *memStore) CreateFilter(_ context.Context, f *domain.SavedFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = primitive.NewObjectID()
	f.CreatedAt = time.Now().UTC()
	cp := *f
	s.filters[f.ID] = &cp
	return nil
}

func (s *memStore) ListFiltersByUser(_ context.Context, userID primitive.ObjectID, _ repo.ListParams) ([]domain.SavedFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.SavedFilter
	for _, f := range s.filters {
		if f.UserID == userID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *memStore) DeleteFilterByOwner(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.filters[id]
	if !ok || f.UserID != userID {
		return false, nil
	}
	delete(s.filters, id)
	return true, nil
}

type testEnv struct {
	T      *testing.T
	Store  *memStore
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	// redis nil (rate limit fails open), noop publisher, no oauth
	h := api.NewHandler(store, testSecret, 7, nil, 0, queue.NewNoop(), "market.events", nil)
	return &testEnv{T: t, Store: store, Router: api.NewRouter(h)}
}

func (e *testEnv) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

// seedUser inserts a user directly and returns it with a valid bearer token.
func (e *testEnv) seedUser(email, password, role string) (*domain.User, string) {
	e.T.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		e.T.Fatal(err)
	}
	u := &domain.User{Email: email, PasswordHash: hash, Name: "Test", Role: role, Provider: domain.ProviderLocal}
	if err := e.Store.CreateUser(context.Background(), u); err != nil {
		e.T.Fatal(err)
	}
	tok, err := security.MakeAccess(testSecret, u.ID.Hex(), u.Email, u.Role, time.Hour)
	if err != nil {
		e.T.Fatal(err)
	}
	return u, tok
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}
