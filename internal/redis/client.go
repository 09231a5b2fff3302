// Package redis wraps the go-redis client behind an interface the
// repositories can be tested against.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// Options tunes the client connection pool
type Options struct {
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
}

// NewClient creates a client for a single Redis instance at endpoint
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis endpoint is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	return redis.NewClient(&redis.Options{
		Addr:            endpoint,
		Password:        opts.Password,
		DB:              opts.DB,
		PoolSize:        opts.PoolSize,
		MinIdleConns:    opts.MinIdleConns,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
	}), nil
}

// NewFromURL creates a client from a redis:// or rediss:// URL. Pool
// settings in opts override the URL's.
func NewFromURL(rawURL string, opts *Options) (Client, error) {
	if rawURL == "" {
		return nil, errors.InvalidArgument("redis URL is required")
	}

	parsed, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid redis URL")
	}
	if opts != nil {
		if opts.PoolSize > 0 {
			parsed.PoolSize = opts.PoolSize
		}
		if opts.MinIdleConns > 0 {
			parsed.MinIdleConns = opts.MinIdleConns
		}
		if opts.ConnMaxIdleTime > 0 {
			parsed.ConnMaxIdleTime = opts.ConnMaxIdleTime
		}
		if opts.MaxRetries > 0 {
			parsed.MaxRetries = opts.MaxRetries
		}
	}

	return redis.NewClient(parsed), nil
}

// Ping checks that the server answers within the context deadline
func Ping(ctx context.Context, c Client) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "redis is unreachable")
	}
	return nil
}
