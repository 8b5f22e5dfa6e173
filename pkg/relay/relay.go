// Package relay answers credential requests from a paired device.
//
// The watch app cannot present a login form, so it asks the phone app for the account credentials
// over an opaque request/reply channel. The channel is a WebSocket: the phone side serves
// [Handler], the watch side calls [Request]. When the phone is logged out the reply carries empty
// values and the watch shows its own logged-out state.
package relay

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/electricsidecar/sidecar/internal/log"
)

// Credentials is a (username, password) pair. Both fields are empty when the primary device has no
// logged-in account.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialSource supplies the current account credentials, or the zero value when logged out.
type CredentialSource func() Credentials

const (
	messageTypeRequest = "credentials_request"
	messageTypeReply   = "credentials"
)

type message struct {
	Type string `json:"type"`
	Credentials
}

// Handler serves credential requests on the primary device.
type Handler struct {
	source   CredentialSource
	upgrader websocket.Upgrader
}

func NewHandler(source CredentialSource) *Handler {
	return &Handler{source: source}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade relay connection: %s", err)
		return
	}
	defer conn.Close()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("Relay connection closed: %s", err)
			}
			return
		}
		if msg.Type != messageTypeRequest {
			log.Warning("Ignoring unknown relay message type %q", msg.Type)
			continue
		}
		reply := message{Type: messageTypeReply, Credentials: h.source()}
		if err := conn.WriteJSON(reply); err != nil {
			log.Error("Failed to send relay reply: %s", err)
			return
		}
	}
}

// Request asks the device at url for the current account credentials. The reply may carry empty
// values when the remote side is logged out; that is not an error.
func Request(ctx context.Context, url string) (Credentials, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("relay: dial %s: %w", url, err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(message{Type: messageTypeRequest}); err != nil {
		return Credentials{}, fmt.Errorf("relay: request: %w", err)
	}
	var reply message
	if err := conn.ReadJSON(&reply); err != nil {
		return Credentials{}, fmt.Errorf("relay: reply: %w", err)
	}
	if reply.Type != messageTypeReply {
		return Credentials{}, fmt.Errorf("relay: unexpected reply type %q", reply.Type)
	}
	return reply.Credentials, nil
}
