package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cirqle/cirqle-api/internal/booking"
)

const sessionKeyPrefix = "cirqle:booking-session:"

// SessionRepository persists booking flow state between requests.
type SessionRepository struct {
	store KVStore
	ttl   time.Duration
}

// NewSessionRepository constructs a session repository. Every save refreshes the TTL.
func NewSessionRepository(store KVStore, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRepository{store: store, ttl: ttl}
}

// Save stores the flow state.
func (r *SessionRepository) Save(ctx context.Context, state *booking.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal booking session: %w", err)
	}
	return r.store.Set(ctx, sessionKeyPrefix+state.ID, payload, r.ttl)
}

// Find loads a flow state or returns ErrKeyNotFound.
func (r *SessionRepository) Find(ctx context.Context, id string) (*booking.State, error) {
	raw, err := r.store.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		return nil, err
	}
	var state booking.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal booking session %s: %w", id, err)
	}
	return &state, nil
}
