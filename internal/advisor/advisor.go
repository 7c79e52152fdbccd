// Package advisor wraps a text-generation service to produce carbon reduction
// advice, trend commentary and chatbot replies.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ashureev/carbon-ledger/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxAttempts    = 2
)

var (
	errEmptyUserData = errors.New("user data is empty")
	errEmptySeries   = errors.New("footprint series is empty")
	errEmptyHistory  = errors.New("chat history is empty")
	errNotUserTurn   = errors.New("last chat message must come from the user")
)

// Completer sends a conversation to a language model and returns its reply text.
type Completer interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// Client turns structured dashboard data into prompts for a Completer.
// Each call is one blocking round-trip with a per-attempt timeout and a single
// retry when the service is unavailable.
type Client struct {
	completer Completer
	timeout   time.Duration
}

// New creates an advisory client. A non-positive timeout selects the default.
func New(completer Completer, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{completer: completer, timeout: timeout}
}

// RequestRecommendation asks for personalized reduction advice for userData,
// e.g. {"transport": "car", "energy_usage": "high", "diet": "meat-heavy"}.
func (c *Client) RequestRecommendation(ctx context.Context, userData map[string]string) (string, error) {
	const op = "recommendation"
	if len(userData) == 0 {
		return "", &Failure{Kind: KindInvalidInput, Op: op, Err: errEmptyUserData}
	}

	// encoding/json sorts map keys, so the prompt is stable for equal input.
	data, err := json.Marshal(userData)
	if err != nil {
		return "", &Failure{Kind: KindInvalidInput, Op: op, Err: err}
	}

	prompt := fmt.Sprintf("Here is a user's carbon footprint data: %s. "+
		"Give this user personalized advice for reducing their carbon footprint. "+
		"Describe concrete actions and the effect of each.", data)
	return c.complete(ctx, op, []domain.ChatMessage{{Role: domain.RoleUser, Content: prompt}})
}

// RequestTrendAnalysis asks for commentary on recent footprint values, oldest first.
func (c *Client) RequestTrendAnalysis(ctx context.Context, series []float64) (string, error) {
	const op = "trend_analysis"
	if len(series) == 0 {
		return "", &Failure{Kind: KindInvalidInput, Op: op, Err: errEmptySeries}
	}

	prompt := fmt.Sprintf("Here is a user's recent carbon footprint data: %s. "+
		"Analyze the trend in this data and summarize the key insights.", formatSeries(series))
	return c.complete(ctx, op, []domain.ChatMessage{{Role: domain.RoleUser, Content: prompt}})
}

// Chat sends the whole conversation and returns the assistant's next reply.
func (c *Client) Chat(ctx context.Context, history []domain.ChatMessage) (string, error) {
	const op = "chat"
	if len(history) == 0 {
		return "", &Failure{Kind: KindInvalidInput, Op: op, Err: errEmptyHistory}
	}
	if last := history[len(history)-1]; last.Role != domain.RoleUser || strings.TrimSpace(last.Content) == "" {
		return "", &Failure{Kind: KindInvalidInput, Op: op, Err: errNotUserTurn}
	}
	return c.complete(ctx, op, history)
}

func (c *Client) complete(ctx context.Context, op string, messages []domain.ChatMessage) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := time.Now()
		text, err := c.attempt(ctx, messages)
		if err == nil {
			text = strings.TrimSpace(text)
			if text == "" {
				slog.Warn("Advisory service returned no text", "op", op)
				return "", &Failure{Kind: KindEmptyResponse, Op: op}
			}
			slog.Info("Advisory response received", "op", op, "attempt", attempt, "duration", time.Since(start))
			return text, nil
		}

		lastErr = err
		slog.Warn("Advisory request failed", "op", op, "attempt", attempt, "error", err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", &Failure{Kind: KindUnavailable, Op: op, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, messages []domain.ChatMessage) (text string, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completer panic: %v", r)
		}
	}()
	return c.completer.Complete(ctx, messages)
}

func formatSeries(series []float64) string {
	parts := make([]string, len(series))
	for i, v := range series {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
