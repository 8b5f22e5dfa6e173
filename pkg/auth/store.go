package auth

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/electricsidecar/sidecar/pkg/cache"
)

// Store holds authentication tokens in memory and mirrors them to dir. All methods are safe for
// concurrent use; several resource fetches may refresh tokens at once.
type Store struct {
	dir string

	mu     sync.Mutex
	tokens map[string]*Token
}

// NewStore returns a Store that persists tokens under dir, typically
// <cacheRoot>/auth_tokens. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		tokens: make(map[string]*Token),
	}
}

// Authentication returns the token stored under key, preferring the in-memory copy and falling
// back to disk. A disk hit populates the in-memory cache. Returns nil when no token exists in
// either place; tokens on disk are never considered too old.
func (s *Store) Authentication(key string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, ok := s.tokens[key]; ok {
		return token, nil
	}
	token, err := cache.Read[Token](s.tokenPath(key), 0)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}
	s.tokens[key] = token
	return token, nil
}

// StoreAuthentication records token under key in memory and persists it to disk. The in-memory
// copy is updated even when the disk write fails, so the process keeps working with the token it
// was issued; the write error is still returned for logging.
func (s *Store) StoreAuthentication(key string, token *Token) error {
	s.mu.Lock()
	s.tokens[key] = token
	s.mu.Unlock()

	return cache.Write(s.tokenPath(key), token)
}

func (s *Store) tokenPath(key string) string {
	// Keys may embed provider/environment separators; flatten them so each key maps to a single
	// file inside dir.
	name := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(key)
	return filepath.Join(s.dir, name)
}
