package page

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/carbon-ledger/internal/chart"
	"github.com/ashureev/carbon-ledger/internal/domain"
	"github.com/ashureev/carbon-ledger/internal/identity"
	"github.com/ashureev/carbon-ledger/internal/ledger"
	"github.com/ashureev/carbon-ledger/internal/store"
	"github.com/ashureev/carbon-ledger/internal/synth"
)

// Marketplace listing widget bounds.
var (
	ListingAmount = Bounds{Min: 0.1, Max: 2.0, Step: 0.1}
	ListingPrice  = Bounds{Min: 5000, Max: 15000, Step: 100}
)

// DefaultProfile is sent for recommendations when the caller has no data.
var DefaultProfile = map[string]string{
	"transport":    "car",
	"energy_usage": "high",
	"diet":         "meat-heavy",
}

// DefaultTrendSample is the five-day series analyzed when the caller has none.
var DefaultTrendSample = []float64{2.5, 2.3, 2.7, 2.4, 2.2}

// Advisor produces advisory text. *advisor.Client implements it.
type Advisor interface {
	RequestRecommendation(ctx context.Context, userData map[string]string) (string, error)
	RequestTrendAnalysis(ctx context.Context, series []float64) (string, error)
	Chat(ctx context.Context, history []domain.ChatMessage) (string, error)
}

// Controller serves dashboard pages and applies user actions to a session.
type Controller struct {
	repo           store.Repository
	advisor        Advisor
	charts         *chart.Renderer
	data           *synth.Generator
	initialCredits float64
	now            func() time.Time

	realTimeOnce sync.Once
	realTime     *chart.Spec
}

// NewController wires a page controller.
func NewController(repo store.Repository, adv Advisor, charts *chart.Renderer, data *synth.Generator, initialCredits float64) *Controller {
	return &Controller{
		repo:           repo,
		advisor:        adv,
		charts:         charts,
		data:           data,
		initialCredits: initialCredits,
		now:            time.Now,
	}
}

// Render builds the view model of view for the session key.
func (c *Controller) Render(ctx context.Context, key string, view View) (*ViewModel, error) {
	if _, ok := titles[view]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}

	state, err := c.repo.GetOrInit(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	vm := &ViewModel{
		View:    view,
		Title:   view.Title(),
		Sidebar: c.sidebar(),
	}

	switch view {
	case ViewHome:
		vm.Home = c.home(state)
	case ViewCredits:
		vm.Credits = &CreditsView{
			Credits: state.CarbonCredits,
			Buy:     Bounds{Min: 0, Max: ledger.BuyLimitHint, Step: ledger.AmountStep},
			Sell:    Bounds{Min: 0, Max: state.CarbonCredits, Step: ledger.AmountStep},
		}
	case ViewMarketplace:
		vm.Marketplace = &MarketplaceView{
			Offers:   c.data.MarketOffers(),
			Listings: state.Listings,
			Amount:   ListingAmount,
			Price:    ListingPrice,
		}
	case ViewProfile:
		vm.Profile = &ProfileView{
			Name:            displayName(ctx),
			AnnualAllotment: c.initialCredits,
			Credits:         state.CarbonCredits,
			Statistics:      c.charts.Pie(c.data.ProfileStats()),
			Challenges:      state.Challenges,
		}
	case ViewChatbot:
		vm.Chatbot = &ChatbotView{History: state.ChatHistory}
	}

	return vm, nil
}

func (c *Controller) home(state *domain.SessionState) *HomeView {
	return &HomeView{
		Credits:      state.CarbonCredits,
		Delta:        c.initialCredits - state.CarbonCredits,
		VirtualTrees: state.VirtualTrees,
		TreeCost:     ledger.TreeCost,
		Gauge:        c.charts.Gauge(state.CarbonCredits),
		Trend:        c.charts.Trend(c.data.MonthlyTrend(c.now().Year())),
		Breakdown:    c.charts.Breakdown(synth.CategoryBreakdown()),
		Waterfall:    c.charts.Waterfall(),
	}
}

func (c *Controller) sidebar() Sidebar {
	return Sidebar{
		Navigation: Views(),
		Tip:        c.data.Tip(),
		RealTime:   c.realTimeChart(),
	}
}

// realTimeChart is simulated once per process and then reused.
func (c *Controller) realTimeChart() *chart.Spec {
	c.realTimeOnce.Do(func() {
		c.realTime = c.charts.Line(c.data.RealTime(c.now()))
	})
	return c.realTime
}

// Buy credits for the session.
func (c *Controller) Buy(ctx context.Context, key string, amount float64) (*domain.SessionState, error) {
	return c.apply(ctx, key, "buy", func(s *domain.SessionState) error {
		return ledger.Buy(s, amount)
	})
}

// Sell credits from the session.
func (c *Controller) Sell(ctx context.Context, key string, amount float64) (*domain.SessionState, error) {
	return c.apply(ctx, key, "sell", func(s *domain.SessionState) error {
		return ledger.Sell(s, amount)
	})
}

// PlantTree converts credits into one virtual tree.
func (c *Controller) PlantTree(ctx context.Context, key string) (*domain.SessionState, error) {
	return c.apply(ctx, key, "plant_tree", ledger.PlantTree)
}

// AddChallenge records a personal challenge on the profile page.
func (c *Controller) AddChallenge(ctx context.Context, key, title string) (*domain.SessionState, error) {
	return c.apply(ctx, key, "add_challenge", func(s *domain.SessionState) error {
		return ledger.AddChallenge(s, title)
	})
}

// RegisterTrade records a marketplace listing without moving credits.
func (c *Controller) RegisterTrade(ctx context.Context, key string, amount, price float64) (domain.TradeListing, error) {
	var listing domain.TradeListing
	_, err := c.apply(ctx, key, "register_trade", func(s *domain.SessionState) error {
		var err error
		listing, err = ledger.RegisterTrade(s, amount, price)
		return err
	})
	if err != nil {
		return domain.TradeListing{}, err
	}
	return listing, nil
}

func (c *Controller) apply(ctx context.Context, key, op string, fn store.UpdateFunc) (*domain.SessionState, error) {
	state, err := c.repo.Update(ctx, key, fn)
	if err != nil {
		slog.Debug("Ledger operation rejected", "op", op, "session_key", key, "error", err)
		return nil, err
	}
	return state, nil
}

// Recommend asks for reduction advice. Empty userData falls back to DefaultProfile.
func (c *Controller) Recommend(ctx context.Context, userData map[string]string) (string, error) {
	if len(userData) == 0 {
		userData = maps.Clone(DefaultProfile)
	}
	return c.advisor.RequestRecommendation(ctx, userData)
}

// AnalyzeTrend asks for trend commentary. An empty series falls back to DefaultTrendSample.
func (c *Controller) AnalyzeTrend(ctx context.Context, series []float64) (string, error) {
	if len(series) == 0 {
		series = append([]float64(nil), DefaultTrendSample...)
	}
	return c.advisor.RequestTrendAnalysis(ctx, series)
}

// Chat sends message with the session's history and records both turns. On
// failure the history is left as it was.
func (c *Controller) Chat(ctx context.Context, key, message string) (domain.ChatMessage, error) {
	state, err := c.repo.GetOrInit(ctx, key)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("load session: %w", err)
	}

	userMsg := domain.ChatMessage{Role: domain.RoleUser, Content: strings.TrimSpace(message)}
	history := append(state.ChatHistory, userMsg)

	text, err := c.advisor.Chat(ctx, history)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	reply := domain.ChatMessage{Role: domain.RoleAssistant, Content: text}
	_, err = c.repo.Update(ctx, key, func(s *domain.SessionState) error {
		s.ChatHistory = append(s.ChatHistory, userMsg, reply)
		s.UpdatedAt = c.now()
		return nil
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("save chat: %w", err)
	}
	return reply, nil
}

// Tip returns a random reduction tip.
func (c *Controller) Tip() string {
	return c.data.Tip()
}

func displayName(ctx context.Context) string {
	if name := identity.UsernameFromContext(ctx); name != "" {
		return name
	}
	return "anon-user"
}
