package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// TokenPurpose scopes a one-time token.
type TokenPurpose string

const (
	TokenEmailVerification TokenPurpose = "verify-email"
	TokenPasswordReset     TokenPurpose = "reset-password"
)

// TokenRepository issues single-use tokens bound to a user.
type TokenRepository struct {
	store KVStore
}

// NewTokenRepository constructs a token repository.
func NewTokenRepository(store KVStore) *TokenRepository {
	return &TokenRepository{store: store}
}

// Issue creates a token for userID that expires after ttl.
func (r *TokenRepository) Issue(ctx context.Context, purpose TokenPurpose, userID string, ttl time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)
	if err := r.store.Set(ctx, tokenKey(purpose, token), []byte(userID), ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Consume returns the user bound to token and invalidates it.
func (r *TokenRepository) Consume(ctx context.Context, purpose TokenPurpose, token string) (string, error) {
	raw, err := r.store.Take(ctx, tokenKey(purpose, token))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func tokenKey(purpose TokenPurpose, token string) string {
	return "cirqle:token:" + string(purpose) + ":" + token
}
