package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// resetCodeTTL bounds how long a recovery code stays valid.  Entries
// expire on their own instead of accumulating forever.
const resetCodeTTL = 15 * time.Minute

// ResetCodeStore keeps password-recovery codes keyed by email.  Codes are
// single-use: Delete is called after a successful reset.
type ResetCodeStore interface {
	Set(ctx context.Context, email, code string) error
	Check(ctx context.Context, email, code string) (bool, error)
	Delete(ctx context.Context, email string) error
}

// NewResetCodeStore returns a Redis-backed store when a client is
// available, so codes survive restarts and expire server-side.  With no
// Redis the store degrades to an expiring in-process map; codes are then
// lost on restart, which only forces the user to request a new one.
func NewResetCodeStore(client *redis.Client) ResetCodeStore {
	if client != nil {
		return &redisResetCodes{client: client}
	}
	log.Printf("reset-codes: redis unavailable, using in-memory store")
	return &memoryResetCodes{codes: make(map[string]memoryCode), now: time.Now}
}

type redisResetCodes struct{ client *redis.Client }

func resetKey(email string) string { return "pwreset:" + email }

func (s *redisResetCodes) Set(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, resetKey(email), code, resetCodeTTL).Err()
}

func (s *redisResetCodes) Check(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.client.Get(ctx, resetKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == code, nil
}

func (s *redisResetCodes) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, resetKey(email)).Err()
}

type memoryCode struct {
	code    string
	expires time.Time
}

type memoryResetCodes struct {
	mu    sync.Mutex
	codes map[string]memoryCode
	now   func() time.Time
}

func (s *memoryResetCodes) Set(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = memoryCode{code: code, expires: s.now().Add(resetCodeTTL)}
	return nil
}

func (s *memoryResetCodes) Check(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[email]
	if !ok {
		return false, nil
	}
	if s.now().After(entry.expires) {
		delete(s.codes, email)
		return false, nil
	}
	return entry.code == code, nil
}

func (s *memoryResetCodes) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}
