package store

import (
	"context"
	"time"

	"github.com/electricsidecar/sidecar/pkg/cache"
)

// fetch is the cache-read, miss-fetch, cache-write cycle shared by every resource kind. Unless
// ignoreCache is set, a fresh on-disk entry short-circuits the network call; otherwise the remote
// result is written back to disk before it is returned. Cache encode/decode failures propagate to
// the caller, where the refresh coordinator surfaces them on the resource's stream.
func fetch[T any](ctx context.Context, path string, ttl time.Duration, ignoreCache bool, call func(context.Context) (*T, error)) (*T, error) {
	if !ignoreCache {
		cached, err := cache.Read[T](path, ttl)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return cached, nil
		}
	}

	value, err := call(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(path, *value); err != nil {
		return nil, err
	}
	return value, nil
}
