package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations. Values are marshaled to JSON on the way
// in and unmarshaled into dest on the way out.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// SessionKey builds the cache key for one captured trading session.
func SessionKey(symbol, date string) string {
	return fmt.Sprintf("session:%s:%s", symbol, date)
}
