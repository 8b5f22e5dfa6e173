// Package connect implements the HTTP client for the third-party vehicle-cloud API.
//
// The client authenticates with the account's username and password, stores the issued token
// through a [CredentialStore] shared with the other processes on the device, and re-authenticates
// once when the remote rejects a stored token mid-session.
package connect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/electricsidecar/sidecar/internal/log"
	"github.com/electricsidecar/sidecar/pkg/auth"
)

// MaxResponseLength limits how much of a response body the client is willing to buffer.
const MaxResponseLength = 1 << 20

// Environment selects the API and authentication hosts for an account's market.
type Environment struct {
	Locale   string // e.g. "de/de_DE"
	APIHost  string
	AuthHost string
	ClientID string
}

// DefaultEnvironment returns the production environment for locale, falling back to the German
// market when locale is empty.
func DefaultEnvironment(locale string) Environment {
	if locale == "" {
		locale = "de/de_DE"
	}
	return Environment{
		Locale:   locale,
		APIHost:  "api.porsche.com",
		AuthHost: "login.porsche.com",
		ClientID: "sidecar",
	}
}

// CredentialKey returns the logical key under which this environment's tokens are stored.
func (e Environment) CredentialKey() string {
	return "connect/" + strings.ReplaceAll(e.Locale, "/", "_")
}

// CredentialStore persists tokens across process launches. Satisfied by [auth.Store].
type CredentialStore interface {
	Authentication(key string) (*auth.Token, error)
	StoreAuthentication(key string, token *auth.Token) error
}

// Client talks to the vehicle-cloud API on behalf of one account.
type Client struct {
	UserAgent string

	env      Environment
	username string
	password string
	creds    CredentialStore
	client   http.Client
}

// NewClient returns a Client for the given account. The credential store may already hold a token
// from a previous launch; if not, the first request triggers a login.
func NewClient(username, password string, env Environment, creds CredentialStore) *Client {
	return &Client{
		UserAgent: "sidecar-go",
		env:       env,
		username:  username,
		password:  password,
		creds:     creds,
	}
}

// Login exchanges the account credentials for a fresh token and stores it for reuse. Most callers
// never need to call this directly; resource methods log in on demand.
func (c *Client) Login(ctx context.Context) (*auth.Token, error) {
	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {c.env.ClientID},
		"username":   {c.username},
		"password":   {c.password},
	}
	endpoint := fmt.Sprintf("https://%s/as/token.oauth2", c.env.AuthHost)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error constructing login request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("User-Agent", c.UserAgent)

	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("error logging in: %w", err)
	}
	defer response.Body.Close()
	body, err := readBody(response)
	if err != nil {
		return nil, err
	}
	switch {
	case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("login failed: %w", ErrAuthentication)
	case response.StatusCode >= 300:
		return nil, &ProtocolError{StatusCode: response.StatusCode, Body: string(body)}
	}

	var token auth.Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("malformed login response: %w", err)
	}
	if err := c.creds.StoreAuthentication(c.env.CredentialKey(), &token); err != nil {
		// The in-memory token remains usable; persistence failures only cost the next launch a
		// fresh login.
		log.Error("Failed to persist token: %s", err)
	}
	return &token, nil
}

func (c *Client) token(ctx context.Context) (*auth.Token, error) {
	token, err := c.creds.Authentication(c.env.CredentialKey())
	if err != nil {
		log.Warning("Failed to load stored token, logging in again: %s", err)
	}
	if token != nil {
		return token, nil
	}
	return c.Login(ctx)
}

func readBody(response *http.Response) ([]byte, error) {
	reader := io.LimitedReader{R: response.Body, N: MaxResponseLength}
	body, err := io.ReadAll(&reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	return body, nil
}

// call sends an authenticated request and decodes the JSON response into out (when non-nil). A
// rejected token triggers exactly one re-login and retry; a second rejection surfaces as
// ErrAuthentication so the caller can escalate to a logged-out state.
func (c *Client) call(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	relogin := false
	for {
		var body io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			body = bytes.NewReader(data)
		}
		target := fmt.Sprintf("https://%s/%s", c.env.APIHost, endpoint)
		request, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return fmt.Errorf("error constructing request to %s: %w", endpoint, err)
		}
		request.Header.Set("Content-Type", "application/json")
		request.Header.Set("User-Agent", c.UserAgent)
		request.Header.Set("Authorization", token.AuthorizationHeader())

		log.Debug("Requesting %s...", target)
		response, err := c.client.Do(request)
		if err != nil {
			return fmt.Errorf("error fetching %s: %w", endpoint, err)
		}
		respBody, err := readBody(response)
		response.Body.Close()
		if err != nil {
			return err
		}
		log.Debug("Server returned %d: %s", response.StatusCode, respBody)

		switch {
		case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
			if relogin {
				return fmt.Errorf("token rejected after re-login: %w", ErrAuthentication)
			}
			relogin = true
			if token, err = c.Login(ctx); err != nil {
				return err
			}
			continue
		case response.StatusCode >= 300:
			return &ProtocolError{StatusCode: response.StatusCode, Body: string(respBody)}
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("malformed response from %s: %w", endpoint, err)
		}
		return nil
	}
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	return c.call(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	return c.call(ctx, http.MethodPost, endpoint, payload, out)
}

// Vehicles lists the cars attached to the account.
func (c *Client) Vehicles(ctx context.Context) ([]Vehicle, error) {
	var vehicles []Vehicle
	endpoint := fmt.Sprintf("core/api/v3/%s/vehicles", c.env.Locale)
	if err := c.get(ctx, endpoint, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Capabilities fetches the vehicle's feature set. The emobility endpoint requires the car model
// reported here, so capability data is a prerequisite for [Client.Emobility].
func (c *Client) Capabilities(ctx context.Context, vin string) (*Capabilities, error) {
	var capabilities Capabilities
	endpoint := fmt.Sprintf("service-vehicle/vcs/capabilities/%s", vin)
	if err := c.get(ctx, endpoint, &capabilities); err != nil {
		return nil, err
	}
	return &capabilities, nil
}

// Status fetches the server-side snapshot of the vehicle's state.
func (c *Client) Status(ctx context.Context, vin string) (*Status, error) {
	var status Status
	endpoint := fmt.Sprintf("service-vehicle/%s/vehicle-data/%s/stored", c.env.Locale, vin)
	if err := c.get(ctx, endpoint, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Emobility fetches battery and charging state. capabilities must come from a prior
// [Client.Capabilities] call (or its cached result) for the same vehicle.
func (c *Client) Emobility(ctx context.Context, vin string, capabilities *Capabilities) (*Emobility, error) {
	var emobility Emobility
	endpoint := fmt.Sprintf("e-mobility/%s/%s/%s", c.env.Locale, capabilities.CarModel, vin)
	if err := c.get(ctx, endpoint, &emobility); err != nil {
		return nil, err
	}
	return &emobility, nil
}

// Position fetches the vehicle's last reported GPS location.
func (c *Client) Position(ctx context.Context, vin string) (*Position, error) {
	var position Position
	endpoint := fmt.Sprintf("service-vehicle/car-finder/%s/position", vin)
	if err := c.get(ctx, endpoint, &position); err != nil {
		return nil, err
	}
	return &position, nil
}

// Summary fetches the vehicle nickname and description.
func (c *Client) Summary(ctx context.Context, vin string) (*Summary, error) {
	var summary Summary
	endpoint := fmt.Sprintf("service-vehicle/vehicle-summary/%s", vin)
	if err := c.get(ctx, endpoint, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Lock asks the vehicle to lock its doors. Completion is asynchronous; poll with
// [Client.CommandStatus].
func (c *Client) Lock(ctx context.Context, vin string) (*RemoteCommandAccepted, error) {
	var accepted RemoteCommandAccepted
	endpoint := fmt.Sprintf("service-vehicle/remote-lock-unlock/%s/quick-lock", vin)
	if err := c.post(ctx, endpoint, nil, &accepted); err != nil {
		return nil, err
	}
	return &accepted, nil
}

// Unlock asks the vehicle to unlock. The account's security PIN authorizes the command.
func (c *Client) Unlock(ctx context.Context, vin, pin string) (*RemoteCommandAccepted, error) {
	var accepted RemoteCommandAccepted
	endpoint := fmt.Sprintf("service-vehicle/remote-lock-unlock/%s/security-pin/unlock", vin)
	payload := map[string]string{"pin": pin}
	if err := c.post(ctx, endpoint, payload, &accepted); err != nil {
		return nil, err
	}
	return &accepted, nil
}

// LockUnlockLastActions fetches the door state left behind by the most recent remote lock or
// unlock command.
func (c *Client) LockUnlockLastActions(ctx context.Context, vin string) (*LockUnlockLastActions, error) {
	var actions LockUnlockLastActions
	endpoint := fmt.Sprintf("service-vehicle/remote-lock-unlock/%s/last-actions", vin)
	if err := c.get(ctx, endpoint, &actions); err != nil {
		return nil, err
	}
	return &actions, nil
}

// CommandStatus polls the progress of a previously accepted remote command.
func (c *Client) CommandStatus(ctx context.Context, vin string, accepted *RemoteCommandAccepted) (*RemoteCommandStatus, error) {
	var status RemoteCommandStatus
	endpoint := fmt.Sprintf("service-vehicle/remote-lock-unlock/%s/%s/status", vin, accepted.RequestID)
	if err := c.get(ctx, endpoint, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Flash asks the vehicle to flash its indicators to help the driver find it.
func (c *Client) Flash(ctx context.Context, vin string) error {
	endpoint := fmt.Sprintf("service-vehicle/honk-and-flash/%s/flash", vin)
	return c.post(ctx, endpoint, nil, nil)
}
