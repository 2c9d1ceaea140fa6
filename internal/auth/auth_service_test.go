package auth

import (
	"testing"
	"time"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc, err := NewService("test-secret", ttl)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Minute)

	hash, err := svc.HashPassword("admin")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "admin" {
		t.Fatal("password stored in plain text")
	}
	if !svc.CheckPasswordHash("admin", hash) {
		t.Fatal("correct password rejected")
	}
	if svc.CheckPasswordHash("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Minute)

	token, err := svc.GenerateSessionToken(42)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42 got %d", claims.UserID)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatal("token should carry a future expiry")
	}
}

func TestSessionTokenExpires(t *testing.T) {
	svc := newTestService(t, time.Millisecond)

	token, err := svc.GenerateSessionToken(1)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := svc.ValidateSessionToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	svc := newTestService(t, time.Minute)
	other, err := NewService("other-secret", time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	token, err := svc.GenerateSessionToken(1)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := other.ValidateSessionToken(token); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}

func TestValidateSessionTokenEmpty(t *testing.T) {
	svc := newTestService(t, time.Minute)
	if _, err := svc.ValidateSessionToken(""); err == nil {
		t.Fatal("empty token accepted")
	}
}

func TestNewServiceRejectsBadInput(t *testing.T) {
	if _, err := NewService("", time.Minute); err == nil {
		t.Fatal("empty secret accepted")
	}
	if _, err := NewService("secret", 0); err == nil {
		t.Fatal("zero ttl accepted")
	}
}
