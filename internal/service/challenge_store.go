package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storehub/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChallengeState is the pending two-factor challenge: everything the flow
// needs between a successful password check and a completed code
// verification lives in this one server-held object. The client only ever
// holds a signed token referencing its id.
type ChallengeState struct {
	PrincipalID uuid.UUID    `json:"principal_id"`
	UserID      uuid.UUID    `json:"user_id"`
	Guard       entity.Guard `json:"guard"`
	Remember    bool         `json:"remember"`

	OTPCode      string    `json:"otp_code,omitempty"`
	OTPExpiresAt time.Time `json:"otp_expires_at"`

	ExpiresAt time.Time `json:"expires_at"`
}

func (s *ChallengeState) OTPValid(now time.Time) bool {
	return s.OTPCode != "" && now.Before(s.OTPExpiresAt)
}

// ChallengeStore holds pending challenges keyed by an opaque id. Get and
// Consume return (nil, nil) when no live challenge exists; Consume removes
// the state atomically so a challenge can only ever finalize once.
type ChallengeStore interface {
	Put(ctx context.Context, id string, state *ChallengeState) error
	Get(ctx context.Context, id string) (*ChallengeState, error)
	Consume(ctx context.Context, id string) (*ChallengeState, error)
}

const challengeKeyPrefix = "challenge:"

type RedisChallengeStore struct {
	client *redis.Client
}

func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

func (s *RedisChallengeStore) Put(ctx context.Context, id string, state *ChallengeState) error {
	ttl := time.Until(state.ExpiresAt)
	if ttl <= 0 {
		return ErrChallengeExpired
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, challengeKeyPrefix+id, payload, ttl).Err()
}

func (s *RedisChallengeStore) Get(ctx context.Context, id string) (*ChallengeState, error) {
	payload, err := s.client.Get(ctx, challengeKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeChallenge(payload)
}

func (s *RedisChallengeStore) Consume(ctx context.Context, id string) (*ChallengeState, error) {
	payload, err := s.client.GetDel(ctx, challengeKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeChallenge(payload)
}

func decodeChallenge(payload []byte) (*ChallengeState, error) {
	var state ChallengeState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
