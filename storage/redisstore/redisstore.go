// Package redisstore backs the challenge and session repositories with
// Redis, for deployments where login state must survive a process restart
// or be shared across replicas.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scholarhub/portal/auth"
	"github.com/scholarhub/portal/sessions"
)

const (
	challengeKeyPrefix = "otp"
	sessionKeyPrefix   = "sess"

	// challengeTTL keeps abandoned challenges from accumulating. It is a
	// storage bound, not the validity window; the engine still checks the
	// 10-minute expiry against the issuance timestamp.
	challengeTTL = 30 * time.Minute
)

var backendErr = errors.New("redis backend unavailable")

// ChallengeRepo is a Redis implementation of auth.ChallengeRepo.
type ChallengeRepo struct {
	redis *redis.Client
}

var _ auth.ChallengeRepo = (*ChallengeRepo)(nil)

func NewChallengeRepo(client *redis.Client) *ChallengeRepo {
	return &ChallengeRepo{redis: client}
}

func challengeKey(token string) string {
	return challengeKeyPrefix + ":" + token
}

func (r *ChallengeRepo) Upsert(ctx context.Context, token string, challenge *auth.Challenge) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	encoded, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}
	if err := r.redis.Set(ctx, challengeKey(token), encoded, challengeTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", backendErr, err)
	}
	return nil
}

func (r *ChallengeRepo) Get(ctx context.Context, token string) (*auth.Challenge, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}
	data, err := r.redis.Get(ctx, challengeKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ChallengeNotFoundErr
		}
		return nil, fmt.Errorf("%w: %v", backendErr, err)
	}

	var challenge auth.Challenge
	if err := json.Unmarshal(data, &challenge); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return &challenge, nil
}

func (r *ChallengeRepo) Delete(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := r.redis.Del(ctx, challengeKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", backendErr, err)
	}
	return nil
}

// DeleteIfCode deletes the challenge only when the stored code matches,
// using WATCH so a concurrent re-issue wins over a stale verify.
func (r *ChallengeRepo) DeleteIfCode(ctx context.Context, token, code string) (bool, error) {
	if token == "" {
		return false, errors.New("token cannot be empty")
	}

	const maxRetries = 4
	key := challengeKey(token)

	for i := 0; i < maxRetries; i++ {
		var deleted bool
		err := r.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return nil
				}
				return err
			}

			var challenge auth.Challenge
			if err := json.Unmarshal(data, &challenge); err != nil {
				return err
			}
			if challenge.Code != code {
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err == nil {
				deleted = true
			}
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue // key changed under us, retry
		}
		if err != nil {
			return false, fmt.Errorf("%w: %v", backendErr, err)
		}
		return deleted, nil
	}
	return false, fmt.Errorf("%w: compare-and-delete contention", backendErr)
}

// SessionRepo is a Redis implementation of sessions.Repo. Keys expire with
// the session so logged-out state needs no sweeper.
type SessionRepo struct {
	redis *redis.Client
}

var _ sessions.Repo = (*SessionRepo)(nil)

func NewSessionRepo(client *redis.Client) *SessionRepo {
	return &SessionRepo{redis: client}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + ":" + token
}

func (r *SessionRepo) Upsert(ctx context.Context, token string, session sessions.Session) error {
	if token == "" {
		return errors.New("token is required")
	}
	encoded, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := r.redis.Set(ctx, sessionKey(token), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", backendErr, err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, token string) (sessions.Session, error) {
	if token == "" {
		return sessions.Session{}, errors.New("token is required")
	}
	data, err := r.redis.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sessions.Session{}, sessions.SessionNotFoundErr
		}
		return sessions.Session{}, fmt.Errorf("%w: %v", backendErr, err)
	}

	var session sessions.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return sessions.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token is required")
	}
	if err := r.redis.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", backendErr, err)
	}
	return nil
}
