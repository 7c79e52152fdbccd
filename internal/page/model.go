package page

import (
	"github.com/ashureev/carbon-ledger/internal/chart"
	"github.com/ashureev/carbon-ledger/internal/domain"
)

// Bounds describes a numeric input widget.
type Bounds struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// ViewModel is everything the browser needs to draw one page. Exactly one of
// the per-view sections is set.
type ViewModel struct {
	View    View    `json:"view"`
	Title   string  `json:"title"`
	Sidebar Sidebar `json:"sidebar"`

	Home        *HomeView        `json:"home,omitempty"`
	Credits     *CreditsView     `json:"credits,omitempty"`
	Marketplace *MarketplaceView `json:"marketplace,omitempty"`
	Profile     *ProfileView     `json:"profile,omitempty"`
	Chatbot     *ChatbotView     `json:"chatbot,omitempty"`
}

type Sidebar struct {
	Navigation []NavItem   `json:"navigation"`
	Tip        string      `json:"tip"`
	RealTime   *chart.Spec `json:"real_time"`
}

type HomeView struct {
	Credits      float64     `json:"credits"`
	Delta        float64     `json:"delta"`
	VirtualTrees int         `json:"virtual_trees"`
	TreeCost     float64     `json:"tree_cost"`
	Gauge        *chart.Spec `json:"gauge"`
	Trend        *chart.Spec `json:"trend"`
	Breakdown    *chart.Spec `json:"breakdown"`
	Waterfall    *chart.Spec `json:"waterfall"`
}

type CreditsView struct {
	Credits float64 `json:"credits"`
	Buy     Bounds  `json:"buy"`
	Sell    Bounds  `json:"sell"`
}

type MarketplaceView struct {
	Offers   []domain.MarketOffer  `json:"offers"`
	Listings []domain.TradeListing `json:"listings"`
	Amount   Bounds                `json:"amount"`
	Price    Bounds                `json:"price"`
}

type ProfileView struct {
	Name            string      `json:"name"`
	AnnualAllotment float64     `json:"annual_allotment"`
	Credits         float64     `json:"credits"`
	Statistics      *chart.Spec `json:"statistics"`
	Challenges      []string    `json:"challenges"`
}

type ChatbotView struct {
	History []domain.ChatMessage `json:"history"`
}
