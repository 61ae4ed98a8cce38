package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	tokenrepo "mini-shop/internal/repository/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrNoToken indicates the request carried no bearer token.
	ErrNoToken = errors.New("no token provided")
	// ErrTokenExpired indicates the token's exp claim has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidToken indicates the token could not be parsed or verified.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked indicates the token was revoked by logout.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrUnknownUser indicates a valid token names a user that no longer exists.
	ErrUnknownUser = errors.New("user not found")
)

// Claims is the bearer token payload.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type revocationStore interface {
	Revoke(ctx context.Context, token tokenrepo.Revoked) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Purge(ctx context.Context, now time.Time) (int64, error)
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
	store  revocationStore
	now    func() time.Time
}

func newTokenManager(secret string, ttl time.Duration, store revocationStore) *tokenManager {
	return &tokenManager{secret: []byte(secret), ttl: ttl, store: store, now: time.Now}
}

// Issue signs an HS256 token for userID with a fresh token id.
func (m *tokenManager) Issue(userID string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Validate parses raw and rejects expired, malformed and revoked tokens.
func (m *tokenManager) Validate(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrNoToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if claims.ID != "" && m.store != nil {
		revoked, err := m.store.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Revoke blocks the token until it would have expired anyway.
func (m *tokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" || m.store == nil {
		return nil
	}
	expiresAt := m.now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := m.store.Revoke(ctx, tokenrepo.Revoked{TokenID: claims.ID, UserID: claims.UserID, ExpiresAt: expiresAt}); err != nil {
		return err
	}
	_, err := m.store.Purge(ctx, m.now())
	return err
}
