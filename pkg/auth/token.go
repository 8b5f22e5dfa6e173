// Package auth persists opaque vehicle-cloud credentials across process launches.
//
// Tokens are cached in memory for the lifetime of the process and mirrored to a shared on-disk
// directory so that the watch app and widget extensions can reuse a login performed by the phone
// app. Tokens are never expired client-side; the remote decides when a token stops working.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token is an opaque credential issued by the vehicle-cloud authentication server, keyed by a
// logical provider/environment identifier.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	ApiKey       string `json:"apikey,omitempty"`
}

// AuthorizationHeader formats the token for use in an HTTP Authorization header.
func (t *Token) AuthorizationHeader() string {
	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + t.AccessToken
}

// Subject returns the account identifier embedded in the token's ID token.
//
// The claim is read without signature verification; the client has no key material to verify with,
// and the value is only used for diagnostics and cache partitioning, never authorization.
func (t *Token) Subject() (string, error) {
	claims, err := t.claims()
	if err != nil {
		return "", err
	}
	return claims.GetSubject()
}

func (t *Token) claims() (jwt.MapClaims, error) {
	if t.IDToken == "" {
		return nil, fmt.Errorf("token has no ID token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.IDToken, claims); err != nil {
		return nil, fmt.Errorf("malformed ID token: %w", err)
	}
	return claims, nil
}
