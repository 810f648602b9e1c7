package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	// Packages
	redis "github.com/redis/go-redis/v9"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// rediscache keeps values in redis, and recently read values in memory for
// a minute
type rediscache struct {
	client *redis.Client
	local  *memory
	prefix string
	expiry time.Duration
}

var _ Cache = (*rediscache)(nil)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	localExpiry = time.Minute
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewRedis returns a cache backed by the redis server at addr. The server is
// pinged, so an unreachable server is an error.
func NewRedis(ctx context.Context, addr string, opts ...Opt) (*rediscache, error) {
	o, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	local, err := NewMemory(WithExpiry(min(localExpiry, o.expiry)))
	if err != nil {
		return nil, err
	}
	c := &rediscache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: o.password,
			DB:       o.db,
		}),
		local:  local,
		prefix: o.prefix,
		expiry: o.expiry,
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(err, c.client.Close())
	}

	// Return success
	return c, nil
}

func (c *rediscache) Close() error {
	return errors.Join(c.local.Close(), c.client.Close())
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (c *rediscache) Get(ctx context.Context, key string, out any) (bool, error) {
	key = c.prefix + key
	if data, ok := c.local.get(key); ok {
		return true, json.Unmarshal(data, out)
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	c.local.set(key, data, c.local.expiry)
	return true, nil
}

func (c *rediscache) Set(ctx context.Context, key string, value any) error {
	key = c.prefix + key
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, c.expiry).Err(); err != nil {
		return err
	}
	c.local.set(key, data, c.local.expiry)
	return nil
}
