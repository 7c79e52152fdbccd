package api

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ashureev/carbon-ledger/internal/identity"
)

type socketError struct {
	Error string `json:"error"`
}

// ChatSocket serves the chatbot over a websocket. Each text frame
// {"message": "..."} is answered with one {"role", "content"} or {"error"} frame.
func (h *Handler) ChatSocket(w http.ResponseWriter, r *http.Request) {
	key, err := sessionKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !h.checkOrigin(r) {
		Error(w, http.StatusForbidden, "origin not allowed")
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "session_key", key)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "session_key", key)
		}
	}()

	slog.Info("Chat socket opened", "session_key", key)
	h.chatLoop(r.Context(), ws, key, rateKey(r))
	slog.Info("Chat socket closed", "session_key", key)
}

func (h *Handler) chatLoop(ctx context.Context, ws *websocket.Conn, key, limitKey string) {
	for {
		var req chatRequest
		if err := wsjson.Read(ctx, ws, &req); err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "session_key", key)
			} else {
				slog.Warn("WebSocket read error", "error", err, "session_key", key)
			}
			return
		}

		var out any
		if h.limiter != nil && !h.limiter.Allow(limitKey) {
			out = socketError{Error: "rate limit exceeded"}
		} else if reply, err := h.dash.Chat(ctx, key, req.Message); err != nil {
			_, msg := statusFor(err)
			slog.Warn("Chat message failed", "error", err, "session_key", key)
			out = socketError{Error: msg}
		} else {
			out = reply
		}

		if err := wsjson.Write(ctx, ws, out); err != nil {
			slog.Warn("WebSocket write error", "error", err, "session_key", key)
			return
		}
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.allowedOrigins, "*") || slices.Contains(h.allowedOrigins, origin) {
		return true
	}
	// Same-origin requests from the embedded SPA.
	if origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigins, "user_id", identity.UserIDFromContext(r.Context()))
	return false
}
