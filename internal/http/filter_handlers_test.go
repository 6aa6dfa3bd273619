package http_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/domainmart/api/internal/domain"
)

func TestFilterLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.seedUser("u@example.com", "StrongP@ss1", domain.RoleCustomer)

	w := env.do("POST", "/api/filters",
		`{"name":"cheap coms","query":{"tlds":["com"],"max_price":500}}`, bearer(tok))
	if w.Code != http.StatusCreated {
		t.Fatalf("create filter: %d %s", w.Code, w.Body.String())
	}
	var f domain.SavedFilter
	if err := json.Unmarshal(w.Body.Bytes(), &f); err != nil {
		t.Fatal(err)
	}

	w = env.do("GET", "/api/filters", "", bearer(tok))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "cheap coms") {
		t.Fatalf("list filters: %d %s", w.Code, w.Body.String())
	}

	if w := env.do("DELETE", "/api/filters/"+f.ID.Hex(), "", bearer(tok)); w.Code != http.StatusOK {
		t.Fatalf("delete filter: %d %s", w.Code, w.Body.String())
	}
	// deleting again answers 404: the record is gone. Two racing deletes
	// settle to the same outcome, the delete is keyed on {id, owner} and only
	// one call can observe a removed document.
	if w := env.do("DELETE", "/api/filters/"+f.ID.Hex(), "", bearer(tok)); w.Code != http.StatusNotFound {
		t.Fatalf("second delete expected 404, got %d", w.Code)
	}
}

func TestFilterNameRequired(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.seedUser("u@example.com", "StrongP@ss1", domain.RoleCustomer)

	if w := env.do("POST", "/api/filters", `{"name":"  "}`, bearer(tok)); w.Code != http.StatusBadRequest {
		t.Fatalf("blank name expected 400, got %d", w.Code)
	}
}

func TestFilterForeignOwnerInvisible(t *testing.T) {
	env := newTestEnv(t)
	_, ownerTok := env.seedUser("owner@example.com", "StrongP@ss1", domain.RoleCustomer)
	_, otherTok := env.seedUser("other@example.com", "StrongP@ss1", domain.RoleCustomer)

	w := env.do("POST", "/api/filters", `{"name":"mine","query":{"keyword":"crypto"}}`, bearer(ownerTok))
	var f domain.SavedFilter
	if err := json.Unmarshal(w.Body.Bytes(), &f); err != nil {
		t.Fatal(err)
	}

	if w := env.do("GET", "/api/filters", "", bearer(otherTok)); strings.Contains(w.Body.String(), f.ID.Hex()) {
		t.Fatalf("foreign filter leaked into listing: %s", w.Body.String())
	}
	// foreign delete answers 404 and leaves the record alone
	if w := env.do("DELETE", "/api/filters/"+f.ID.Hex(), "", bearer(otherTok)); w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete expected 404, got %d", w.Code)
	}
	if _, ok := env.Store.filters[f.ID]; !ok {
		t.Fatal("foreign delete removed the record")
	}
}
