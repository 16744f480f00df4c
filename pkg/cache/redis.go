package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin string key/value client over redis.
type Cache struct {
	client redis.Cmdable
	closer func() error
	prefix string
	ttl    time.Duration
}

type Options struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

type Option func(*Options)

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

func WithPassword(pass string) Option {
	return func(o *Options) {
		o.Password = pass
	}
}

func WithDB(db int) Option {
	return func(o *Options) {
		o.DB = db
	}
}

// WithKeyPrefix namespaces every key written by the cache.
func WithKeyPrefix(prefix string) Option {
	return func(o *Options) {
		o.KeyPrefix = prefix
	}
}

// WithTTL expires values after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = ttl
	}
}

func New(ctx context.Context, opts ...Option) (*Cache, error) {
	options := &Options{
		Address:   "localhost:6379",
		Password:  "",
		DB:        0,
		KeyPrefix: "histograms:",
	}

	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Cache{
		client: client,
		closer: client.Close,
		prefix: options.KeyPrefix,
		ttl:    options.TTL,
	}, nil
}

// NewWithClient wraps an existing redis client, e.g. a cluster or a test double.
func NewWithClient(client redis.Cmdable, opts ...Option) *Cache {
	options := &Options{KeyPrefix: "histograms:"}
	for _, opt := range opts {
		opt(options)
	}
	return &Cache{
		client: client,
		closer: func() error { return nil },
		prefix: options.KeyPrefix,
		ttl:    options.TTL,
	}
}

// GetValue returns the value stored at key. A missing key is not an error.
func (c *Cache) GetValue(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetValue stores value at key, overwriting any previous value.
func (c *Cache) SetValue(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

func (c *Cache) Close() error {
	return c.closer()
}
