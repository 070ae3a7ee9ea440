// Package session owns the backend bearer token for each browser session.
// It is the single source of truth: components subscribe to invalidation
// instead of re-reading a shared global, which removes the stale-token race
// between a 401-triggered logout and other in-flight requests.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNoSession = errors.New("session: not found")

// Claims are the gateway-relevant fields of a backend-issued token. Parsing
// them locally only routes requests; the backend stays the authority on
// whether the token is actually acceptable.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func ParseClaims(token string, secret []byte) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("session: unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration

	mu   sync.Mutex
	subs map[string][]chan struct{}
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl, subs: make(map[string][]chan struct{})}
}

func key(id string) string { return "session:" + id }

// Create stores the backend token under a fresh opaque session id.
func (s *Store) Create(ctx context.Context, token string) (string, error) {
	id := uuid.NewString()
	if err := s.rdb.Set(ctx, key(id), token, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Token returns the backend token for a session, ErrNoSession when the
// session is absent or already invalidated.
func (s *Store) Token(ctx context.Context, id string) (string, error) {
	tok, err := s.rdb.Get(ctx, key(id)).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return tok, nil
}

// Invalidate revokes a session and notifies subscribers. Safe to call more
// than once; subscribers are notified exactly once.
func (s *Store) Invalidate(ctx context.Context, id string) error {
	err := s.rdb.Del(ctx, key(id)).Err()

	s.mu.Lock()
	chans := s.subs[id]
	delete(s.subs, id)
	s.mu.Unlock()
	for _, ch := range chans {
		close(ch)
	}
	return err
}

// Subscribe returns a channel closed when the session is invalidated, plus
// an unsubscribe func the caller must run when it stops caring. Sessions can
// also die by Redis TTL with no Invalidate call, so subscriptions that are
// never released would pile up in the subs map.
func (s *Store) Subscribe(id string) (<-chan struct{}, func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.subs[id] = append(s.subs[id], ch)
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		chans := s.subs[id]
		for i, c := range chans {
			if c == ch {
				s.subs[id] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
		if len(s.subs[id]) == 0 {
			delete(s.subs, id)
		}
	}
	return ch, unsubscribe
}

type idKey struct{}

// WithID attaches the session id to the request context so the 401 handler
// can revoke the right session.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

func IDFrom(ctx context.Context) string {
	id, _ := ctx.Value(idKey{}).(string)
	return id
}
