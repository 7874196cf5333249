package usecase

import (
	"context"
	"time"
)

// Cache is the JSON cache the usecases read through. Implementations may
// silently miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
