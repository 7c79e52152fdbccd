package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/carbon-ledger/internal/domain"
	"github.com/ashureev/carbon-ledger/internal/page"
)

type amountRequest struct {
	Amount *float64 `json:"amount"`
}

type listingRequest struct {
	Amount *float64 `json:"amount"`
	Price  *float64 `json:"price"`
}

type challengeRequest struct {
	Title string `json:"title"`
}

// ListPages returns the page selector entries.
func (h *Handler) ListPages(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"views": page.Views()})
}

// GetPage renders one dashboard view for the caller's session.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	view, err := page.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	key, err := sessionKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	vm, err := h.dash.Render(r.Context(), key, view)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, vm)
}

// GetTip returns a random reduction tip.
func (h *Handler) GetTip(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"tip": h.dash.Tip()})
}

// BuyCredits adds credits to the session.
func (h *Handler) BuyCredits(w http.ResponseWriter, r *http.Request) {
	h.creditOp(w, r, h.dash.Buy)
}

// SellCredits removes credits from the session.
func (h *Handler) SellCredits(w http.ResponseWriter, r *http.Request) {
	h.creditOp(w, r, h.dash.Sell)
}

func (h *Handler) creditOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, key string, amount float64) (*domain.SessionState, error)) {
	var req amountRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == nil {
		Error(w, http.StatusBadRequest, "amount is required")
		return
	}
	key, err := sessionKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, err := op(r.Context(), key, *req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, state)
}

// PlantTree converts credits into a virtual tree.
func (h *Handler) PlantTree(w http.ResponseWriter, r *http.Request) {
	key, err := sessionKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	state, err := h.dash.PlantTree(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, state)
}

// RegisterListing records a marketplace listing.
func (h *Handler) RegisterListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == nil || req.Price == nil {
		Error(w, http.StatusBadRequest, "amount and price are required")
		return
	}
	key, err := sessionKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := h.dash.RegisterTrade(r.Context(), key, *req.Amount, *req.Price)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, listing)
}

// AddChallenge records a personal challenge.
func (h *Handler) AddChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	key, err := sessionKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, err := h.dash.AddChallenge(r.Context(), key, req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, state)
}
