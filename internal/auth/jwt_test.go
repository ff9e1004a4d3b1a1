package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	testSecret = "test-secret-at-least-32-chars-long-for-security"
	testIssuer = "watchlist-test"
)

func TestTokenValidator_IssueAndValidate_Success(t *testing.T) {
	t.Parallel()
	v := NewTokenValidator(testSecret, testIssuer, 0)
	ownerID := uuid.New()

	token, err := v.IssueToken(ownerID, 15*time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a three-part JWT, got %q", token)
	}

	got, err := v.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if got != ownerID {
		t.Errorf("expected owner %v, got %v", ownerID, got)
	}
}

func TestTokenValidator_Expired(t *testing.T) {
	t.Parallel()
	v := NewTokenValidator(testSecret, testIssuer, 0)

	token, err := v.IssueToken(uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := v.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestTokenValidator_ClockSkewTolerated(t *testing.T) {
	t.Parallel()
	v := NewTokenValidator(testSecret, testIssuer, time.Minute)

	token, err := v.IssueToken(uuid.New(), -10*time.Second)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := v.ValidateToken(context.Background(), token); err != nil {
		t.Fatalf("expected token within leeway to pass, got %v", err)
	}
}

func TestTokenValidator_InvalidSignature(t *testing.T) {
	t.Parallel()
	issuer := NewTokenValidator("another-secret-that-is-32-chars-long!!", testIssuer, 0)
	v := NewTokenValidator(testSecret, testIssuer, 0)

	token, err := issuer.IssueToken(uuid.New(), time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := v.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for foreign signature")
	}
}

func TestTokenValidator_WrongIssuer(t *testing.T) {
	t.Parallel()
	other := NewTokenValidator(testSecret, "someone-else", 0)
	v := NewTokenValidator(testSecret, testIssuer, 0)

	token, err := other.IssueToken(uuid.New(), time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := v.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestTokenValidator_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	v := NewTokenValidator(testSecret, testIssuer, 0)

	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for HS512 token")
	}
}

func TestTokenValidator_MissingExpiry(t *testing.T) {
	t.Parallel()
	v := NewTokenValidator(testSecret, testIssuer, 0)

	claims := jwt.RegisteredClaims{Subject: uuid.NewString(), Issuer: testIssuer}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for token without exp")
	}
}

func TestTokenValidator_SubjectNotUUID(t *testing.T) {
	t.Parallel()
	v := NewTokenValidator(testSecret, testIssuer, 0)

	claims := jwt.RegisteredClaims{
		Subject:   "user-42",
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = v.ValidateToken(context.Background(), token)
	if err == nil || !strings.Contains(err.Error(), "subject") {
		t.Fatalf("expected subject error, got %v", err)
	}
}

func TestTokenValidator_MalformedAndEmpty(t *testing.T) {
	t.Parallel()
	v := NewTokenValidator(testSecret, testIssuer, 0)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := v.ValidateToken(context.Background(), token); err == nil {
			t.Errorf("expected error for %q", token)
		}
	}
}
