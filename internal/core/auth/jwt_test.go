package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	j := &JWTer{Secret: []byte("test-secret"), Issuer: "media-review", TTL: time.Hour}

	tok, err := j.Issue("uid-1", "alice", "moderator")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.UID != "uid-1" || claims.Username != "alice" || claims.Role != "moderator" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseExpired(t *testing.T) {
	t.Parallel()

	// TTL 为负，再加上 60s leeway 仍然过期
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "media-review", TTL: -2 * time.Minute}
	tok, err := j.Issue("uid-1", "alice", "user")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := j.Parse(tok); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseWrongSecret(t *testing.T) {
	t.Parallel()

	j := &JWTer{Secret: []byte("right"), Issuer: "media-review", TTL: time.Hour}
	tok, err := j.Issue("uid-1", "alice", "user")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other := &JWTer{Secret: []byte("wrong"), Issuer: "media-review", TTL: time.Hour}
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseWrongIssuer(t *testing.T) {
	t.Parallel()

	j := &JWTer{Secret: []byte("s"), Issuer: "issuer-a", TTL: time.Hour}
	tok, _ := j.Issue("uid-1", "alice", "user")

	other := &JWTer{Secret: []byte("s"), Issuer: "issuer-b", TTL: time.Hour}
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}
