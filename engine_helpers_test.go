package authcore

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

// memStore is an in-memory PrincipalStore used by the engine tests. It
// counts FindByEmail calls so cache behavior is observable.
type memStore struct {
	mu               sync.Mutex
	byID             map[string]Principal
	byEmail          map[string]string
	findByEmailCalls int
}

func newMemStore() *memStore {
	return &memStore{
		byID:    map[string]Principal{},
		byEmail: map[string]string{},
	}
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findByEmailCalls++
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrPrincipalNotFound
	}
	p := s.byID[id]
	return &p, nil
}

func (s *memStore) FindByID(_ context.Context, id string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, ErrPrincipalNotFound
	}
	return &p, nil
}

func (s *memStore) Insert(_ context.Context, p *Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[p.Email]; exists {
		return ErrAccountExists
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.byID[p.ID] = *p
	s.byEmail[p.Email] = p.ID
	return nil
}

func (s *memStore) Update(_ context.Context, p *Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[p.ID]
	if !ok {
		return ErrPrincipalNotFound
	}
	if old.Email != p.Email {
		delete(s.byEmail, old.Email)
		s.byEmail[p.Email] = p.ID
	}
	s.byID[p.ID] = *p
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return ErrPrincipalNotFound
	}
	delete(s.byEmail, p.Email)
	delete(s.byID, id)
	return nil
}

// mutatePassword overwrites the stored hash directly, bypassing the
// engine, to exercise cache staleness.
func (s *memStore) mutatePassword(email, newHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.byEmail[email]
	p := s.byID[id]
	p.PasswordHash = newHash
	s.byID[id] = p
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.Secret = testSecret
	// Cheap argon2 parameters keep the suite fast; floors in the password
	// package still apply.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

func newTestEngine(t *testing.T, rdb *redis.Client, store PrincipalStore) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return engine
}

func registerTestPrincipal(t *testing.T, engine *Engine, email, pass string) *RegisterResult {
	t.Helper()

	res, err := engine.Register(context.Background(), RegisterInput{Email: email, Password: pass})
	if err != nil {
		t.Fatalf("Register(%q) failed: %v", email, err)
	}
	return res
}
