package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/electricsidecar/sidecar/pkg/cache"
)

type payload struct {
	Charge int `json:"charge"`
}

func countingCall(value int, calls *int) func(context.Context) (*payload, error) {
	return func(context.Context) (*payload, error) {
		*calls++
		return &payload{Charge: value}, nil
	}
}

func TestFetchMissThenHit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emobility")
	calls := 0
	ctx := context.Background()

	got, err := fetch(ctx, path, time.Hour, false, countingCall(72, &calls))
	if err != nil {
		t.Fatalf("fetch failed: %s", err)
	}
	if got.Charge != 72 || calls != 1 {
		t.Errorf("got = %+v, calls = %d", got, calls)
	}

	// Second fetch within the ttl is served from disk.
	got, err = fetch(ctx, path, time.Hour, false, countingCall(80, &calls))
	if err != nil {
		t.Fatalf("fetch failed: %s", err)
	}
	if got.Charge != 72 {
		t.Errorf("got = %+v, want cached value", got)
	}
	if calls != 1 {
		t.Errorf("remote called %d times, want 1", calls)
	}
}

func TestFetchExpiredEntryRefetches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emobility")
	calls := 0
	ctx := context.Background()

	if _, err := fetch(ctx, path, 900*time.Second, false, countingCall(72, &calls)); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-1000 * time.Second)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	got, err := fetch(ctx, path, 900*time.Second, false, countingCall(54, &calls))
	if err != nil {
		t.Fatal(err)
	}
	if got.Charge != 54 || calls != 2 {
		t.Errorf("got = %+v, calls = %d", got, calls)
	}
}

func TestFetchIgnoreCacheBypassesFreshEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stored")
	calls := 0
	ctx := context.Background()

	if _, err := fetch(ctx, path, time.Hour, false, countingCall(72, &calls)); err != nil {
		t.Fatal(err)
	}
	got, err := fetch(ctx, path, time.Hour, true, countingCall(80, &calls))
	if err != nil {
		t.Fatal(err)
	}
	if got.Charge != 80 || calls != 2 {
		t.Errorf("got = %+v, calls = %d", got, calls)
	}

	// The bypassing fetch must overwrite the disk entry.
	cached, err := cache.Read[payload](path, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil || cached.Charge != 80 {
		t.Errorf("disk entry = %+v, want overwritten value", cached)
	}
}

func TestFetchRemoteFailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "position")
	remoteErr := errors.New("endpoint down")
	_, err := fetch(context.Background(), path, time.Hour, false, func(context.Context) (*payload, error) {
		return nil, remoteErr
	})
	if !errors.Is(err, remoteErr) {
		t.Errorf("err = %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("failed fetch left a cache entry behind")
	}
}

func TestFetchCorruptCacheEntryPropagates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stored")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	calls := 0
	if _, err := fetch(context.Background(), path, time.Hour, false, countingCall(1, &calls)); err == nil {
		t.Error("corrupt cache entry should surface as an error")
	}
	if calls != 0 {
		t.Error("decode failure should not silently fall through to the network")
	}
}
