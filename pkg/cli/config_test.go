package cli_test

import (
	"testing"

	"github.com/electricsidecar/sidecar/pkg/cli"
)

func TestBackendTypeCLI(t *testing.T) {
	config, err := cli.NewConfig(cli.FlagAll)
	if err != nil {
		t.Fatal(err)
	}
	if config.BackendType.Set("DoesNotExist") == nil {
		t.Error("Expected error when parsing invalid keyring type")
	}
	// The file backend is available on every platform.
	if err := config.BackendType.Set("file"); err != nil {
		t.Errorf("Unexpected error when selecting file backend: %s", err)
	}
	if s := config.BackendType.String(); s != "file" {
		t.Errorf("Unexpected string conversion result: %s", s)
	}
}

func TestReadFromEnvironment(t *testing.T) {
	t.Setenv(cli.EnvEmail, "driver@example.com")
	t.Setenv(cli.EnvVIN, "WP0ZZZ00000000001")
	t.Setenv(cli.EnvLocale, "de/de_DE")
	t.Setenv(cli.EnvCacheDir, "/tmp/sidecar-test")

	config, err := cli.NewConfig(cli.FlagAll)
	if err != nil {
		t.Fatal(err)
	}
	config.Email = "explicit@example.com"
	config.ReadFromEnvironment()

	if config.Email != "explicit@example.com" {
		t.Error("environment should not override explicitly set fields")
	}
	if config.VIN != "WP0ZZZ00000000001" {
		t.Errorf("VIN = %q", config.VIN)
	}
	if config.Locale != "de/de_DE" {
		t.Errorf("Locale = %q", config.Locale)
	}
	if config.CacheDir != "/tmp/sidecar-test" {
		t.Errorf("CacheDir = %q", config.CacheDir)
	}
}

func TestAccountPasswordFromEnvironment(t *testing.T) {
	t.Setenv(cli.EnvEmail, "driver@example.com")
	t.Setenv(cli.EnvPassword, "hunter2")

	config, err := cli.NewConfig(cli.FlagAccount)
	if err != nil {
		t.Fatal(err)
	}
	config.ReadFromEnvironment()

	password, err := config.AccountPassword()
	if err != nil {
		t.Fatalf("AccountPassword failed: %s", err)
	}
	if password != "hunter2" {
		t.Errorf("password = %q", password)
	}
}

func TestConnectRequiresEmail(t *testing.T) {
	config, err := cli.NewConfig(cli.FlagAll)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := config.Connect(); err != cli.ErrNoCredentials {
		t.Errorf("err = %v, want ErrNoCredentials", err)
	}
}
