package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domainmart/api/internal/domain"
)

func (e *testEnv) openSession(tok string) *domain.ChatSession {
	e.T.Helper()
	w := e.do("POST", "/api/chat/sessions", "{}", bearer(tok))
	if w.Code != http.StatusCreated {
		e.T.Fatalf("open session: %d %s", w.Code, w.Body.String())
	}
	var cs domain.ChatSession
	if err := json.Unmarshal(w.Body.Bytes(), &cs); err != nil {
		e.T.Fatal(err)
	}
	return &cs
}

func TestChatSessionStartsWaiting(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.seedUser("u@example.com", "StrongP@ss1", domain.RoleCustomer)

	cs := env.openSession(tok)
	if cs.Status != domain.ChatWaiting {
		t.Fatalf("new session status = %q, want waiting", cs.Status)
	}
}

func TestChatStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	_, custTok := env.seedUser("u@example.com", "StrongP@ss1", domain.RoleCustomer)
	_, adminTok := env.seedUser("adm@example.com", "StrongP@ss1", domain.RoleAdmin)

	cs := env.openSession(custTok)

	// unknown status is rejected and the stored record is untouched
	w := env.do("PATCH", "/api/chat/sessions/"+cs.ID.Hex(), `{"status":"archived"}`, bearer(adminTok))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status expected 400, got %d %s", w.Code, w.Body.String())
	}
	if got := env.Store.sessions[cs.ID].Status; got != domain.ChatWaiting {
		t.Fatalf("record changed after rejected update: %q", got)
	}

	w = env.do("PATCH", "/api/chat/sessions/"+cs.ID.Hex(), `{"status":"active"}`, bearer(adminTok))
	if w.Code != http.StatusOK {
		t.Fatalf("valid transition: %d %s", w.Code, w.Body.String())
	}
	if got := env.Store.sessions[cs.ID].Status; got != domain.ChatActive {
		t.Fatalf("status = %q, want active", got)
	}

	// only admins manage session status
	if w := env.do("PATCH", "/api/chat/sessions/"+cs.ID.Hex(), `{"status":"closed"}`, bearer(custTok)); w.Code != http.StatusForbidden {
		t.Fatalf("customer patch expected 403, got %d", w.Code)
	}
}

func TestChatMessageFlow(t *testing.T) {
	env := newTestEnv(t)
	_, custTok := env.seedUser("u@example.com", "StrongP@ss1", domain.RoleCustomer)
	_, adminTok := env.seedUser("adm@example.com", "StrongP@ss1", domain.RoleAdmin)

	cs := env.openSession(custTok)

	w := env.do("POST", "/api/chat/sessions/"+cs.ID.Hex()+"/messages", `{"body":"is this domain still for sale?"}`, bearer(custTok))
	if w.Code != http.StatusCreated {
		t.Fatalf("customer message: %d %s", w.Code, w.Body.String())
	}
	var m domain.ChatMessage
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m.Sender != domain.SenderUser {
		t.Fatalf("customer message sender = %q, want user", m.Sender)
	}

	// an admin posting into the same session speaks as support
	w = env.do("POST", "/api/chat/sessions/"+cs.ID.Hex()+"/messages", `{"body":"yes, it is"}`, bearer(adminTok))
	if w.Code != http.StatusCreated {
		t.Fatalf("admin message: %d %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m.Sender != domain.SenderSupport {
		t.Fatalf("admin message sender = %q, want support", m.Sender)
	}

	w = env.do("GET", "/api/chat/sessions/"+cs.ID.Hex()+"/messages", "", bearer(custTok))
	if w.Code != http.StatusOK {
		t.Fatalf("list messages: %d %s", w.Code, w.Body.String())
	}
	var out struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(out.Messages))
	}
}

func TestChatClosedSessionRejectsMessages(t *testing.T) {
	env := newTestEnv(t)
	_, custTok := env.seedUser("u@example.com", "StrongP@ss1", domain.RoleCustomer)
	_, adminTok := env.seedUser("adm@example.com", "StrongP@ss1", domain.RoleAdmin)

	cs := env.openSession(custTok)
	if w := env.do("PATCH", "/api/chat/sessions/"+cs.ID.Hex(), `{"status":"closed"}`, bearer(adminTok)); w.Code != http.StatusOK {
		t.Fatalf("close session: %d %s", w.Code, w.Body.String())
	}

	w := env.do("POST", "/api/chat/sessions/"+cs.ID.Hex()+"/messages", `{"body":"hello?"}`, bearer(custTok))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("message into closed session expected 400, got %d %s", w.Code, w.Body.String())
	}
}

func TestChatSessionOwnershipHidden(t *testing.T) {
	env := newTestEnv(t)
	_, ownerTok := env.seedUser("owner@example.com", "StrongP@ss1", domain.RoleCustomer)
	_, otherTok := env.seedUser("other@example.com", "StrongP@ss1", domain.RoleCustomer)
	_, adminTok := env.seedUser("adm@example.com", "StrongP@ss1", domain.RoleAdmin)

	cs := env.openSession(ownerTok)

	// another customer sees 404, not 403
	if w := env.do("GET", "/api/chat/sessions/"+cs.ID.Hex()+"/messages", "", bearer(otherTok)); w.Code != http.StatusNotFound {
		t.Fatalf("foreign session expected 404, got %d", w.Code)
	}
	// a missing id answers the same way
	if w := env.do("GET", "/api/chat/sessions/"+primitive.NewObjectID().Hex()+"/messages", "", bearer(otherTok)); w.Code != http.StatusNotFound {
		t.Fatalf("missing session expected 404, got %d", w.Code)
	}
	// admins can read any session
	if w := env.do("GET", "/api/chat/sessions/"+cs.ID.Hex()+"/messages", "", bearer(adminTok)); w.Code != http.StatusOK {
		t.Fatalf("admin read expected 200, got %d", w.Code)
	}
}
