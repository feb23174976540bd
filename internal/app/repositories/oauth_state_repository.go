package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

const oauthStateKeyPrefix = "oauth:state:"

// OAuthState is what the sign-in redirect remembers until the provider calls back
type OAuthState struct {
	Provider    string    `json:"provider"`
	CallbackURL string    `json:"callbackUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IOAuthStateRepository defines the interface for OAuth state storage
type IOAuthStateRepository interface {
	Save(ctx context.Context, state string, data OAuthState, ttl time.Duration) error
	Consume(ctx context.Context, state string) (*OAuthState, error)
}

// OAuthStateRepository keeps OAuth state nonces in Redis
type OAuthStateRepository struct {
	client redis.Cmdable
}

// NewOAuthStateRepository creates a new OAuthStateRepository
func NewOAuthStateRepository(client redis.Cmdable) *OAuthStateRepository {
	return &OAuthStateRepository{client: client}
}

// Save stores the state for ttl
func (r *OAuthStateRepository) Save(ctx context.Context, state string, data OAuthState, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode oauth state: %w", err)
	}
	if err := r.client.Set(ctx, oauthStateKeyPrefix+state, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	return nil
}

// Consume atomically reads and deletes the state, so a state is accepted only once
func (r *OAuthStateRepository) Consume(ctx context.Context, state string) (*OAuthState, error) {
	if state == "" {
		return nil, apperrors.ErrInvalidOAuthState
	}

	payload, err := r.client.GetDel(ctx, oauthStateKeyPrefix+state).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrInvalidOAuthState
		}
		return nil, fmt.Errorf("failed to consume oauth state: %w", err)
	}

	var data OAuthState
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to decode oauth state: %w", err)
	}
	return &data, nil
}
