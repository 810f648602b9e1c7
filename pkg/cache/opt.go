package cache

import (
	"time"

	// Packages
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	password string
	db       int
	prefix   string
	expiry   time.Duration
}

// Opt represents a function that modifies the options
type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(opts ...Opt) (*opt, error) {
	o := opt{
		expiry: DefaultExpiry,
	}
	for _, fn := range opts {
		if err := fn(&o); err != nil {
			return nil, err
		}
	}

	// Return success
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithPassword sets the redis password
func WithPassword(password string) Opt {
	return func(o *opt) error {
		o.password = password
		return nil
	}
}

// WithDB selects the redis database
func WithDB(db int) Opt {
	return func(o *opt) error {
		if db < 0 {
			return httpresponse.ErrBadRequest.Withf("invalid database %d", db)
		}
		o.db = db
		return nil
	}
}

// WithPrefix prefixes every key
func WithPrefix(prefix string) Opt {
	return func(o *opt) error {
		o.prefix = prefix
		return nil
	}
}

// WithExpiry sets the lifetime of cached values
func WithExpiry(expiry time.Duration) Opt {
	return func(o *opt) error {
		if expiry <= 0 {
			return httpresponse.ErrBadRequest.Withf("invalid expiry %v", expiry)
		}
		o.expiry = expiry
		return nil
	}
}
