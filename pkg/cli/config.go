/*
Package cli facilitates building command-line applications on top of the vehicle store. It defines
a [Config] type that can be used to register common command-line flags (using the Golang flag
package) and environment variable equivalents.

The package uses [keyring]'s platform-agnostic interface for storing the account password in an
OS-dependent credential store, so scripts do not need to keep plaintext passwords in their
environment.

# Examples

	import flag

	config, err := cli.NewConfig(cli.FlagAll)
	if err != nil {
		panic(err)
	}
	config.RegisterCommandLineFlags() // Adds command-line flags for the account, VIN, cache, etc.
	flag.Parse()
	config.ReadFromEnvironment()      // Fills in missing fields using environment variables

	// Builds the credential store, API client, and vehicle store from the populated fields. The
	// account password comes from $SIDECAR_PASSWORD or, failing that, the system keyring.
	vehicles, err := config.Connect()
	if err != nil {
		panic(err)
	}
*/
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/99designs/keyring"

	"github.com/electricsidecar/sidecar/internal/log"
	"github.com/electricsidecar/sidecar/pkg/auth"
	"github.com/electricsidecar/sidecar/pkg/connect"
	"github.com/electricsidecar/sidecar/pkg/store"
)

// Environment variable names used by [Config.ReadFromEnvironment] to set common parameters.
const (
	EnvEmail        = "SIDECAR_EMAIL"
	EnvPassword     = "SIDECAR_PASSWORD"
	EnvVIN          = "SIDECAR_VIN"
	EnvLocale       = "SIDECAR_LOCALE"
	EnvCacheDir     = "SIDECAR_CACHE_DIR"
	EnvKeyringType  = "SIDECAR_KEYRING_TYPE"
	EnvKeyringPass  = "SIDECAR_KEYRING_PASSWORD"
	EnvKeyringPath  = "SIDECAR_KEYRING_PATH"
	EnvKeyringDebug = "SIDECAR_KEYRING_DEBUG"
)

// Flag controls what options should be scanned from the command line and/or environment variables.
type Flag int

func (f Flag) isSet(other Flag) bool {
	return (f & other) == other
}

const (
	FlagVIN     Flag = 1 // Enable VIN option.
	FlagAccount Flag = 2 // Enable account (email/password/locale) options.
	FlagAll     Flag = FlagVIN | FlagAccount
)

var (
	ErrNoCredentials = errors.New("account email and password not provided")
	ErrKeyNotFound   = keyring.ErrKeyNotFound
)

// Config fields determine how a client authenticates to the vehicle-cloud backend and where cached
// vehicle state lives on disk.
type Config struct {
	Flags       Flag   // Controls which set of environment variables/CLI flags to use.
	Email       string // Account email address
	VIN         string
	Locale      string // Market locale, e.g. "de/de_DE"
	CacheDir    string // Container directory for tokens and cached vehicle state
	Backend     keyring.Config
	BackendType backendType
	Debug       bool // Enable keyring debug messages

	password        *string // keyring file password
	accountPassword string
}

func NewConfig(flags Flag) (*Config, error) {
	c := Config{
		Flags: flags,
		Backend: keyring.Config{
			ServiceName:              keyringServiceName,
			KeychainTrustApplication: true,
			KeyCtlScope:              "user",
		},
	}
	c.BackendType = backendType{&c}
	c.Backend.KeychainPasswordFunc = c.getPassword
	c.Backend.FilePasswordFunc = c.getPassword

	return &c, nil
}

func (c *Config) RegisterCommandLineFlags() {
	if c.Flags.isSet(FlagVIN) {
		flag.StringVar(&c.VIN, "vin", "", "Vehicle Identification Number. Defaults to $SIDECAR_VIN.")
	}
	if c.Flags.isSet(FlagAccount) {
		flag.StringVar(&c.Email, "email", "", "Account email address. Defaults to $SIDECAR_EMAIL.")
		flag.StringVar(&c.Locale, "locale", "", "Market locale, e.g. de/de_DE. Defaults to $SIDECAR_LOCALE.")
		flag.StringVar(&c.CacheDir, "cache-dir", "", "`Directory` for tokens and cached vehicle state. Defaults to $SIDECAR_CACHE_DIR.")

		var names []string
		for _, name := range keyring.AvailableBackends() {
			names = append(names, string(name))
		}
		sort.Strings(names)
		flag.Var(&c.BackendType, "keyring-type", "Keyring `type` ("+strings.Join(names, "|")+"). Defaults to $SIDECAR_KEYRING_TYPE.")
		flag.StringVar(&c.Backend.FileDir, "keyring-file-dir", keyringDirectory, "keyring `directory` for file-backed keyring types")
		flag.BoolVar(&c.Debug, "keyring-debug", false, "Enable keyring debug logging")
	}
}

// ReadFromEnvironment populates c using environment variables. Values that are already populated
// are not overwritten.
//
// Calling ReadFromEnvironment after flag.Parse() (or other initialization method) will prevent the
// environment from overriding explicit command-line parameters and avoid potentially misleading
// debug log messages.
func (c *Config) ReadFromEnvironment() {
	if c.Flags.isSet(FlagVIN) {
		if c.VIN == "" {
			c.VIN = os.Getenv(EnvVIN)
			log.Debug("Set VIN to '%s'", c.VIN)
		}
	}
	if c.Flags.isSet(FlagAccount) {
		if c.Email == "" {
			c.Email = os.Getenv(EnvEmail)
			log.Debug("Set email to '%s'", c.Email)
		}
		if c.Locale == "" {
			c.Locale = os.Getenv(EnvLocale)
			log.Debug("Set locale to '%s'", c.Locale)
		}
		if c.CacheDir == "" {
			c.CacheDir = os.Getenv(EnvCacheDir)
			log.Debug("Set cache directory to '%s'", c.CacheDir)
		}
		if c.accountPassword == "" {
			c.accountPassword = os.Getenv(EnvPassword)
			if c.accountPassword != "" {
				log.Debug("Set account password from environment")
			}
		}
		if c.BackendType.String() == string(keyring.InvalidBackend) {
			if err := c.BackendType.Set(os.Getenv(EnvKeyringType)); err == nil {
				log.Debug("Set keyring type to '%s'", c.BackendType)
			}
		}
		if c.password == nil {
			password := os.Getenv(EnvKeyringPass)
			c.password = &password
			if len(password) > 0 {
				log.Debug("Set keyring File Password to %s", strings.Repeat("*", len("hunter2")))
			}
		}
		if c.Backend.FileDir == "" {
			c.Backend.FileDir = os.Getenv(EnvKeyringPath)
			log.Debug("Set keyring File Path to '%s'", c.Backend.FileDir)
		}
		if !c.Debug {
			_, c.Debug = os.LookupEnv(EnvKeyringDebug)
			log.Debug("Set keyring Debug Logging to '%v'", c.Debug)
		}
	}
}

// AccountPassword returns the account password from the environment or, failing that, the system
// keyring. The password is cached after it is first loaded.
func (c *Config) AccountPassword() (string, error) {
	if c.accountPassword != "" {
		return c.accountPassword, nil
	}
	if c.Email == "" {
		return "", ErrNoCredentials
	}
	password, err := c.LoadPasswordFromKeyring()
	if err != nil {
		return "", err
	}
	c.accountPassword = password
	return password, nil
}

// ContainerDir returns the directory under which tokens and cached vehicle state are stored,
// defaulting to the user cache directory.
func (c *Config) ContainerDir() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("no cache directory available: %w", err)
	}
	return filepath.Join(base, "sidecar"), nil
}

// Client builds the API client for the configured account. The credential store may already hold a
// token from a previous run, in which case no login round trip happens until the remote rejects it.
func (c *Config) Client() (*connect.Client, error) {
	if c.Email == "" {
		return nil, ErrNoCredentials
	}
	password, err := c.AccountPassword()
	if err != nil {
		return nil, err
	}
	dir, err := c.ContainerDir()
	if err != nil {
		return nil, err
	}
	env := connect.DefaultEnvironment(c.Locale)
	creds := auth.NewStore(c.credentialDir(dir))
	return connect.NewClient(c.Email, password, env, creds), nil
}

// credentialDir places tokens inside the account-hashed cache root, so two accounts on one device
// never resolve the same credential key to the same file.
func (c *Config) credentialDir(containerDir string) string {
	return filepath.Join(store.CacheRoot(containerDir, c.Email), "auth_tokens")
}

// Connect builds the credential store, API client, and vehicle store from the populated fields.
func (c *Config) Connect() (*store.Store, error) {
	client, err := c.Client()
	if err != nil {
		return nil, err
	}
	dir, err := c.ContainerDir()
	if err != nil {
		return nil, err
	}
	return store.New(store.Config{
		API:       client,
		CacheRoot: store.CacheRoot(dir, c.Email),
	}), nil
}
