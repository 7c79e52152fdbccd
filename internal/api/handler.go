// Package api provides HTTP handlers for the carbon dashboard.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/carbon-ledger/internal/advisor"
	"github.com/ashureev/carbon-ledger/internal/domain"
	"github.com/ashureev/carbon-ledger/internal/identity"
	"github.com/ashureev/carbon-ledger/internal/ledger"
	"github.com/ashureev/carbon-ledger/internal/page"
)

const maxBodyBytes = 1 << 20

var errMissingIdentity = errors.New("identity not established")

// Dashboard is the page controller surface used by the handlers.
// *page.Controller implements it.
type Dashboard interface {
	Render(ctx context.Context, key string, view page.View) (*page.ViewModel, error)
	Buy(ctx context.Context, key string, amount float64) (*domain.SessionState, error)
	Sell(ctx context.Context, key string, amount float64) (*domain.SessionState, error)
	PlantTree(ctx context.Context, key string) (*domain.SessionState, error)
	RegisterTrade(ctx context.Context, key string, amount, price float64) (domain.TradeListing, error)
	AddChallenge(ctx context.Context, key, title string) (*domain.SessionState, error)
	Recommend(ctx context.Context, userData map[string]string) (string, error)
	AnalyzeTrend(ctx context.Context, series []float64) (string, error)
	Chat(ctx context.Context, key, message string) (domain.ChatMessage, error)
	Tip() string
}

// Handler serves the dashboard API.
type Handler struct {
	dash           Dashboard
	limiter        *RateLimiter
	allowedOrigins []string
	isDev          bool
}

// NewHandler creates a Handler. limiter throttles advisory calls per browser.
func NewHandler(dash Dashboard, limiter *RateLimiter, allowedOrigins []string, isDev bool) *Handler {
	return &Handler{
		dash:           dash,
		limiter:        limiter,
		allowedOrigins: allowedOrigins,
		isDev:          isDev,
	}
}

// RegisterRoutes registers the dashboard routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/pages", h.ListPages)
		r.Get("/pages/{view}", h.GetPage)
		r.Get("/tips", h.GetTip)

		r.Post("/credits/buy", h.BuyCredits)
		r.Post("/credits/sell", h.SellCredits)
		r.Post("/trees", h.PlantTree)
		r.Post("/marketplace/listings", h.RegisterListing)
		r.Post("/profile/challenges", h.AddChallenge)

		r.Post("/advice/recommendation", h.Recommend)
		r.Post("/advice/trend", h.AnalyzeTrend)
		r.Post("/chat", h.Chat)
	})
	r.Get("/ws/chat", h.ChatSocket)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusBadRequest, ledger.ErrInvalidAmount.Error()
	case errors.Is(err, ledger.ErrEmptyChallenge):
		return http.StatusBadRequest, ledger.ErrEmptyChallenge.Error()
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusConflict, ledger.ErrInsufficientBalance.Error()
	case errors.Is(err, page.ErrUnknownView):
		return http.StatusNotFound, page.ErrUnknownView.Error()
	}

	if kind, ok := advisor.KindOf(err); ok {
		switch kind {
		case advisor.KindInvalidInput:
			return http.StatusUnprocessableEntity, "advice request is incomplete"
		case advisor.KindEmptyResponse:
			return http.StatusBadGateway, "advisory service returned no advice"
		default:
			return http.StatusBadGateway, "advisory service unavailable"
		}
	}
	return http.StatusInternalServerError, "internal error"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		slog.Debug("Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	Error(w, status, msg)
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func sessionKey(r *http.Request) (string, error) {
	key := identity.SessionKeyFromContext(r.Context())
	if key == "" {
		return "", errMissingIdentity
	}
	return key, nil
}

// rateKey throttles per browser rather than per tab so rotating session IDs
// does not bypass the limit.
func rateKey(r *http.Request) string {
	if id := identity.UserIDFromContext(r.Context()); id != "" {
		return id
	}
	return identity.IPFromRequest(r)
}
