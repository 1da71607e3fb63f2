package authcore

import (
	"errors"

	"github.com/contactbook/authcore/cache"
	"github.com/contactbook/authcore/password"
	"github.com/contactbook/authcore/token"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an Engine. Dependencies are injected explicitly;
// there is no process-global cache client or signing secret, so tests
// can substitute miniredis and a fixed secret without touching globals.
type Builder struct {
	config Config
	redis  *redis.Client
	store  PrincipalStore
	audit  AuditSink
	built  bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing the identity cache.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithStore sets the durable credential store.
func (b *Builder) WithStore(store PrincipalStore) *Builder {
	b.store = store
	return b
}

// WithAuditSink sets the audit sink. Defaults to NoOpSink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.audit = sink
	return b
}

// Build validates the configuration and wires the engine. Configuration
// problems fail here, at process initialization, never at request time.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.store == nil {
		return nil, errors.New("principal store required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		Secret: b.config.Token.Secret,
		Issuer: b.config.Token.Issuer,
		Leeway: b.config.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	decoy, err := hasher.Hash("authcore-decoy-password")
	if err != nil {
		return nil, err
	}

	sink := b.audit
	if sink == nil {
		sink = NoOpSink{}
	}

	b.built = true
	return &Engine{
		config:    b.config,
		store:     b.store,
		cache:     cache.NewIdentity(b.redis, b.config.Cache.Prefix, b.config.Cache.TTL),
		tokens:    tokens,
		hasher:    hasher,
		audit:     sink,
		decoyHash: decoy,
	}, nil
}
