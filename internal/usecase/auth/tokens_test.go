package auth

import (
	"errors"
	"testing"
	"time"

	"loanpap/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokens(now time.Time) *TokenService {
	s := NewTokenService("test-secret-test-secret-test-secret", 15*time.Minute, 24*time.Hour)
	s.now = func() time.Time { return now }
	return s
}

func TestTokens_AccessRoundTrip(t *testing.T) {
	now := time.Now()
	s := newTestTokens(now)
	u := &user.User{UserID: "u1", Email: "jane@example.com", Name: "Jane", Role: user.RoleLoanOfficer}

	raw, err := s.GenerateAccess(u)
	if err != nil {
		t.Fatalf("GenerateAccess: %v", err)
	}
	caller, err := s.ParseAccess(raw)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	want := user.Caller{UserID: "u1", Email: "jane@example.com", Name: "Jane", Role: user.RoleLoanOfficer}
	if caller != want {
		t.Fatalf("caller = %+v, want %+v", caller, want)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	roles, _ := claims["roles"].([]any)
	if len(roles) != 1 || roles[0] != "ROLE_LOAN_OFFICER" {
		t.Fatalf("roles claim = %v", claims["roles"])
	}
}

func TestTokens_RejectsEmptyUserID(t *testing.T) {
	if _, err := newTestTokens(time.Now()).GenerateAccess(&user.User{Email: "x@example.com"}); err == nil {
		t.Fatal("want error for empty userId")
	}
}

func TestTokens_Expiry(t *testing.T) {
	issued := time.Now()
	s := newTestTokens(issued)
	raw, _ := s.GenerateAccess(&user.User{UserID: "u1", Email: "a@example.com", Role: user.RoleUser})

	s.now = func() time.Time { return issued.Add(16 * time.Minute) }
	if _, err := s.ParseAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokens_KindsAreNotInterchangeable(t *testing.T) {
	s := newTestTokens(time.Now())
	refresh, _ := s.GenerateRefresh("a@example.com")
	access, _ := s.GenerateAccess(&user.User{UserID: "u1", Email: "a@example.com", Role: user.RoleUser})

	if _, err := s.ParseAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh as access: want ErrInvalidToken, got %v", err)
	}
	if _, err := s.ParseRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access as refresh: want ErrInvalidToken, got %v", err)
	}
	if sub, err := s.ParseRefresh(refresh); err != nil || sub != "a@example.com" {
		t.Fatalf("ParseRefresh = %q, %v", sub, err)
	}
}

func TestTokens_WrongSecretOrAlgorithm(t *testing.T) {
	s := newTestTokens(time.Now())
	other := NewTokenService("another-secret-another-secret-xx", time.Minute, time.Minute)
	raw, _ := other.GenerateAccess(&user.User{UserID: "u1", Email: "a@example.com"})
	if _, err := s.ParseAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret: want ErrInvalidToken, got %v", err)
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "a@example.com", "userId": "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := s.ParseAccess(none); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg none: want ErrInvalidToken, got %v", err)
	}
}
