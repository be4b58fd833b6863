package auth

import (
	"errors"
	"time"

	"loanpap/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenService signs and verifies HS256 access and refresh tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL is the access token lifetime reported to clients as expiresIn.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

func (s *TokenService) GenerateAccess(u *user.User) (string, error) {
	if u.UserID == "" {
		return "", errors.New("empty userId passed to GenerateAccess")
	}
	claims := jwt.MapClaims{
		"sub":    u.Email,
		"userId": u.UserID,
		"role":   string(u.Role),
		"roles":  []string{u.Role.Authority()},
		"name":   u.Name,
		"iat":    s.now().Unix(),
		"exp":    s.now().Add(s.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// GenerateRefresh carries only the subject and expiry.
func (s *TokenService) GenerateRefresh(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": s.now().Add(s.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccess verifies an access token and returns the caller it names.
// Refresh tokens are rejected because they carry no userId.
func (s *TokenService) ParseAccess(raw string) (user.Caller, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return user.Caller{}, err
	}
	uid, _ := claims["userId"].(string)
	email, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	if uid == "" || email == "" {
		return user.Caller{}, ErrInvalidToken
	}
	return user.Caller{UserID: uid, Email: email, Name: name, Role: user.Role(role)}, nil
}

// ParseRefresh returns the subject email of a valid refresh token. Access tokens are rejected.
func (s *TokenService) ParseRefresh(raw string) (string, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return "", err
	}
	if _, access := claims["userId"]; access {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
