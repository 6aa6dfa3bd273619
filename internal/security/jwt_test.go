package security_test

import (
	"strings"
	"testing"
	"time"

	"github.com/domainmart/api/internal/security"
)

const secret = "test-secret"

func TestAccessRoundTrip(t *testing.T) {
	for _, role := range []string{"admin", "customer"} {
		tok, err := security.MakeAccess(secret, "u1", "u@example.com", role, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		c, err := security.ParseAccess(secret, tok)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if c.UID != "u1" || c.Email != "u@example.com" || c.Role != role {
			t.Fatalf("claims mismatch: %#v", c)
		}
	}
}

func TestExpiredTokenFails(t *testing.T) {
	tok, err := security.MakeAccess(secret, "u1", "u@example.com", "customer", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.ParseAccess(secret, tok); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestWrongSecretFails(t *testing.T) {
	tok, err := security.MakeAccess(secret, "u1", "u@example.com", "admin", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.ParseAccess("other-secret", tok); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestMalformedTokenFails(t *testing.T) {
	if _, err := security.ParseAccess(secret, "not.a.jwt"); err == nil {
		t.Fatal("expected malformed token to fail")
	}
	if _, err := security.DecodeUnverified("garbage"); err == nil {
		t.Fatal("expected structurally invalid token to fail unverified decode")
	}
}

func TestDecodeUnverifiedIgnoresSignature(t *testing.T) {
	tok, err := security.MakeAccess(secret, "u1", "u@example.com", "admin", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	// break the signature segment; structure stays valid
	i := strings.LastIndex(tok, ".")
	tampered := tok[:i+1] + "AAAA"

	if _, err := security.ParseAccess(secret, tampered); err == nil {
		t.Fatal("tampered token must not pass full verification")
	}
	c, err := security.DecodeUnverified(tampered)
	if err != nil {
		t.Fatalf("unverified decode should tolerate a bad signature: %v", err)
	}
	if c.Role != "admin" {
		t.Fatalf("decoded role mismatch: %q", c.Role)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := security.HashPassword("S3cret!pass")
	if err != nil {
		t.Fatal(err)
	}
	if !security.CheckPassword(hash, "S3cret!pass") {
		t.Fatal("expected password to verify")
	}
	if security.CheckPassword(hash, "wrong") {
		t.Fatal("wrong password must not verify")
	}
}

func TestSyntheticPasswordNeverVerifies(t *testing.T) {
	hash, err := security.SyntheticPassword()
	if err != nil {
		t.Fatal(err)
	}
	for _, guess := range []string{"", "password", hash} {
		if security.CheckPassword(hash, guess) {
			t.Fatalf("synthetic hash verified against %q", guess)
		}
	}
}
