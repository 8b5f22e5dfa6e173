package auth

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestStoreAndRetrieve(t *testing.T) {
	store := NewStore(t.TempDir())
	token := &Token{AccessToken: "abc123", TokenType: "Bearer"}
	if err := store.StoreAuthentication("porsche", token); err != nil {
		t.Fatalf("StoreAuthentication failed: %s", err)
	}

	got, err := store.Authentication("porsche")
	if err != nil {
		t.Fatalf("Authentication failed: %s", err)
	}
	if got == nil || got.AccessToken != "abc123" {
		t.Errorf("token = %+v", got)
	}
}

func TestAbsentToken(t *testing.T) {
	store := NewStore(t.TempDir())
	token, err := store.Authentication("porsche")
	if err != nil {
		t.Fatalf("absent token should not be an error: %s", err)
	}
	if token != nil {
		t.Errorf("token = %+v, want nil", token)
	}
}

func TestLoadsFromDiskAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first := NewStore(dir)
	if err := first.StoreAuthentication("porsche", &Token{AccessToken: "persisted"}); err != nil {
		t.Fatal(err)
	}

	// A second store simulates another process (watch app, widget extension) sharing the
	// same cache root.
	second := NewStore(dir)
	token, err := second.Authentication("porsche")
	if err != nil {
		t.Fatalf("Authentication failed: %s", err)
	}
	if token == nil || token.AccessToken != "persisted" {
		t.Errorf("token = %+v", token)
	}
}

func TestMemoryPreferredOverDisk(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := store.StoreAuthentication("porsche", &Token{AccessToken: "in-memory"}); err != nil {
		t.Fatal(err)
	}

	// Clobber the disk copy; the in-memory token must still win.
	stale, err := json.Marshal(&Token{AccessToken: "stale-disk"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "porsche"), stale, 0o600); err != nil {
		t.Fatal(err)
	}

	token, err := store.Authentication("porsche")
	if err != nil {
		t.Fatal(err)
	}
	if token.AccessToken != "in-memory" {
		t.Errorf("token.AccessToken = %q, want in-memory copy", token.AccessToken)
	}
}

func TestMemorySurvivesFailedDiskWrite(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	// Make the directory unwritable so persistence fails.
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o700)

	token := &Token{AccessToken: "memory-only"}
	if err := store.StoreAuthentication("porsche", token); err == nil {
		t.Skip("running as a user unaffected by directory permissions")
	}

	got, err := store.Authentication("porsche")
	if err != nil {
		t.Fatalf("Authentication failed: %s", err)
	}
	if got == nil || got.AccessToken != "memory-only" {
		t.Errorf("token = %+v, want in-memory token despite failed persist", got)
	}
}

func TestConcurrentStores(t *testing.T) {
	store := NewStore(t.TempDir())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.StoreAuthentication("porsche", &Token{AccessToken: "refreshed"})
			store.Authentication("porsche")
		}()
	}
	wg.Wait()

	token, err := store.Authentication("porsche")
	if err != nil {
		t.Fatal(err)
	}
	if token == nil || token.AccessToken != "refreshed" {
		t.Errorf("token = %+v", token)
	}
}

func b64(payload string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func TestTokenSubject(t *testing.T) {
	token := &Token{IDToken: b64(`{"alg":"none"}`) + "." + b64(`{"sub":"driver@example.com"}`) + "."}
	subject, err := token.Subject()
	if err != nil {
		t.Fatalf("Subject failed: %s", err)
	}
	if subject != "driver@example.com" {
		t.Errorf("subject = %q", subject)
	}

	if _, err := (&Token{}).Subject(); err == nil {
		t.Error("Subject should fail without an ID token")
	}
	if _, err := (&Token{IDToken: "garbage"}).Subject(); err == nil {
		t.Error("Subject should fail on a malformed ID token")
	}
}

func TestAuthorizationHeader(t *testing.T) {
	if h := (&Token{AccessToken: "abc"}).AuthorizationHeader(); h != "Bearer abc" {
		t.Errorf("header = %q", h)
	}
	if h := (&Token{AccessToken: "abc", TokenType: "MAC"}).AuthorizationHeader(); h != "MAC abc" {
		t.Errorf("header = %q", h)
	}
}
