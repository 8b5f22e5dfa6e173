package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/99designs/keyring"
	"golang.org/x/term"
)

const (
	keyringServiceName     = "com.electricsidecar.auth"
	keyringPasswordService = "accountPassword"
	keyringDirectory       = "~/.sidecar_keys"
)

type backendType struct {
	config *Config
}

func (b backendType) String() string {
	if b.config == nil || len(b.config.Backend.AllowedBackends) == 0 {
		return string(keyring.InvalidBackend)
	}
	return string(b.config.Backend.AllowedBackends[0])
}

func (b backendType) Set(v string) error {
	value := keyring.BackendType(v)
	if b.config == nil {
		return fmt.Errorf("invalid backendType")
	}
	if v == "" {
		return nil
	}
	for _, name := range keyring.AvailableBackends() {
		if name == value {
			b.config.Backend.AllowedBackends = []keyring.BackendType{name}
			return nil
		}
	}
	return fmt.Errorf("unsupported credential storage")
}

func (c *Config) getPassword(prompt string) (string, error) {
	if c.password != nil && *c.password != "" {
		return *c.password, nil
	}

	var w io.Writer
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fd = int(os.Stderr.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("no terminal output available for password prompt")
		} else {
			w = os.Stderr
		}
	} else {
		w = os.Stdout
	}

	fmt.Fprintf(w, "%s: ", prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(w)
	password := string(b)
	c.password = &password
	return password, nil
}

// PromptForAccountPassword reads the account password from the terminal and caches it for the rest
// of the process.
func (c *Config) PromptForAccountPassword() (string, error) {
	password, err := c.getPassword("Account password")
	if err != nil {
		return "", err
	}
	c.accountPassword = password
	return password, nil
}

func (c *Config) openKeyring() (keyring.Keyring, error) {
	return keyring.Open(c.Backend)
}

func (c *Config) passwordKey() string {
	return keyringPasswordService + "." + c.Email
}

// LoadPasswordFromKeyring loads the account password from the system keyring.
//
// The configured email must match the value in use when SavePasswordToKeyring was called.
func (c *Config) LoadPasswordFromKeyring() (string, error) {
	kr, err := c.openKeyring()
	if err != nil {
		return "", err
	}

	item, err := kr.Get(c.passwordKey())
	if err != nil {
		return "", fmt.Errorf("could not load account password: %w", err)
	}
	return string(item.Data), nil
}

// SavePasswordToKeyring writes the account password to the system keyring.
func (c *Config) SavePasswordToKeyring(password string) error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}

	if err := kr.Set(keyring.Item{
		Key:  c.passwordKey(),
		Data: []byte(password),
	}); err != nil {
		return fmt.Errorf("failed to enroll account password in keyring: %s", err)
	}
	c.accountPassword = password
	return nil
}

// DeletePasswordFromKeyring removes the account password from the system keyring.
func (c *Config) DeletePasswordFromKeyring() error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}
	return kr.Remove(c.passwordKey())
}
