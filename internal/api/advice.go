package api

import (
	"net/http"
	"strings"
)

type recommendationRequest struct {
	Transport   string `json:"transport"`
	EnergyUsage string `json:"energy_usage"`
	Diet        string `json:"diet"`
}

func (req recommendationRequest) userData() map[string]string {
	data := make(map[string]string, 3)
	for k, v := range map[string]string{
		"transport":    req.Transport,
		"energy_usage": req.EnergyUsage,
		"diet":         req.Diet,
	} {
		if v = strings.TrimSpace(v); v != "" {
			data[k] = v
		}
	}
	return data
}

type trendRequest struct {
	Series []float64 `json:"series"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type adviceResponse struct {
	Text string `json:"text"`
}

// Recommend returns personalized reduction advice. The body is optional.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.allow(w, r) {
		return
	}

	text, err := h.dash.Recommend(r.Context(), req.userData())
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, adviceResponse{Text: text})
}

// AnalyzeTrend returns commentary on a footprint series. The body is optional.
func (h *Handler) AnalyzeTrend(w http.ResponseWriter, r *http.Request) {
	var req trendRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.allow(w, r) {
		return
	}

	text, err := h.dash.AnalyzeTrend(r.Context(), req.Series)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, adviceResponse{Text: text})
}

// Chat sends one chatbot message and returns the assistant reply.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	key, err := sessionKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !h.allow(w, r) {
		return
	}

	reply, err := h.dash.Chat(r.Context(), key, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, reply)
}

func (h *Handler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil || h.limiter.Allow(rateKey(r)) {
		return true
	}
	Error(w, http.StatusTooManyRequests, "rate limit exceeded")
	return false
}
