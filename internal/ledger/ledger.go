// Package ledger implements the carbon credit operations applied to a session.
//
// Every operation validates its preconditions before touching the state, so a
// rejected operation never leaves a partial mutation behind.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ashureev/carbon-ledger/internal/domain"
	"github.com/google/uuid"
)

const (
	// TreeCost is the credit cost of planting one virtual tree, in tons.
	TreeCost = 0.1

	// BuyLimitHint is the per-purchase cap suggested to the UI. It is not enforced.
	BuyLimitHint = 10.0

	// AmountStep is the input granularity suggested to the UI.
	AmountStep = 0.1

	// tolerance absorbs float noise when comparing against the balance.
	tolerance = 1e-9

	maxRounded = 1e15
)

var (
	// ErrInsufficientBalance is returned when an operation would drive credits negative.
	ErrInsufficientBalance = errors.New("insufficient carbon credit balance")

	// ErrInvalidAmount is returned for negative, zero (where disallowed) or non-finite amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrEmptyChallenge is returned when a challenge title is blank.
	ErrEmptyChallenge = errors.New("challenge title is empty")
)

// Buy adds amount tons to the balance. There is no upper bound other than the
// balance staying finite.
func Buy(s *domain.SessionState, amount float64) error {
	if !finite(amount) || amount <= 0 {
		return fmt.Errorf("buy %v: %w", amount, ErrInvalidAmount)
	}
	next := roundTons(s.CarbonCredits + amount)
	if !finite(next) {
		return fmt.Errorf("buy %v with balance %v overflows: %w", amount, s.CarbonCredits, ErrInvalidAmount)
	}
	s.CarbonCredits = next
	touch(s)
	slog.Debug("Ledger buy", "kind", domain.TxBuy, "amount", amount, "balance", s.CarbonCredits)
	return nil
}

// Sell removes amount tons from the balance. It requires 0 <= amount <= balance.
func Sell(s *domain.SessionState, amount float64) error {
	if !finite(amount) || amount < 0 {
		return fmt.Errorf("sell %v: %w", amount, ErrInvalidAmount)
	}
	if amount > s.CarbonCredits+tolerance {
		return fmt.Errorf("sell %v with balance %v: %w", amount, s.CarbonCredits, ErrInsufficientBalance)
	}
	s.CarbonCredits = clampZero(roundTons(s.CarbonCredits - amount))
	touch(s)
	slog.Debug("Ledger sell", "kind", domain.TxSell, "amount", amount, "balance", s.CarbonCredits)
	return nil
}

// PlantTree spends TreeCost to grow the virtual forest by one tree.
func PlantTree(s *domain.SessionState) error {
	if s.CarbonCredits+tolerance < TreeCost {
		return fmt.Errorf("plant tree with balance %v: %w", s.CarbonCredits, ErrInsufficientBalance)
	}
	s.CarbonCredits = clampZero(roundTons(s.CarbonCredits - TreeCost))
	s.VirtualTrees++
	touch(s)
	slog.Debug("Ledger plant tree", "kind", domain.TxPlantTree, "trees", s.VirtualTrees, "balance", s.CarbonCredits)
	return nil
}

// RegisterTrade records a marketplace listing. The balance is left untouched:
// listings are announcements, settlement is not part of this service.
func RegisterTrade(s *domain.SessionState, amount, price float64) (domain.TradeListing, error) {
	if !finite(amount) || amount <= 0 {
		return domain.TradeListing{}, fmt.Errorf("register trade amount %v: %w", amount, ErrInvalidAmount)
	}
	if !finite(price) || price <= 0 {
		return domain.TradeListing{}, fmt.Errorf("register trade price %v: %w", price, ErrInvalidAmount)
	}

	listing := domain.TradeListing{
		ID:        uuid.New().String(),
		Amount:    roundTons(amount),
		Price:     price,
		CreatedAt: time.Now(),
	}
	s.Listings = append(s.Listings, listing)
	touch(s)
	slog.Info("Trade listing registered",
		"kind", domain.TxRegisterTrade,
		"listing_id", listing.ID,
		"amount", listing.Amount,
		"price", listing.Price,
	)
	return listing, nil
}

// AddChallenge appends a personal reduction challenge.
func AddChallenge(s *domain.SessionState, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyChallenge
	}
	s.Challenges = append(s.Challenges, title)
	touch(s)
	return nil
}

func touch(s *domain.SessionState) {
	s.UpdatedAt = time.Now()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// roundTons snaps a balance to 1e-9 t so repeated 0.1 t steps stay on decimal
// values. Beyond maxRounded the scaling would overflow and float spacing is
// already coarser than 1e-9, so the value is returned as is.
func roundTons(v float64) float64 {
	if math.Abs(v) > maxRounded {
		return v
	}
	return math.Round(v*1e9) / 1e9
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
