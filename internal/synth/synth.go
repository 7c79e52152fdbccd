// Package synth generates the placeholder data shown on the dashboard: monthly
// trends, the sidebar real-time feed, marketplace offers and profile statistics.
package synth

import (
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/ashureev/carbon-ledger/internal/chart"
	"github.com/ashureev/carbon-ledger/internal/domain"
)

const (
	marketSellers  = 5
	minOfferAmount = 0.1
	maxOfferAmount = 2.0
	minOfferPrice  = 5000.0
	maxOfferPrice  = 15000.0

	realTimeMinutes = 60
)

var tips = []string{
	"Use public transport.",
	"Unplug electronics you are not using to save electricity.",
	"Cut down on disposables and choose reusable products.",
	"Eat less meat and try a plant-based diet.",
	"Choose energy-efficient appliances.",
}

var breakdown = []chart.BreakdownRow{
	{Category: "Transport", Subcategory: "Car", Value: 2.5},
	{Category: "Transport", Subcategory: "Public transit", Value: 0.8},
	{Category: "Energy", Subcategory: "Electricity", Value: 1.5},
	{Category: "Energy", Subcategory: "Gas", Value: 1.0},
	{Category: "Diet", Subcategory: "Meat", Value: 1.2},
	{Category: "Diet", Subcategory: "Vegetables", Value: 0.3},
}

var profileCategories = []string{"Transport", "Energy", "Food", "Other"}

// Generator draws synthetic values from a single random stream. It is safe
// for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a generator with a fixed seed, for reproducible output.
func New(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewRandom creates a generator seeded from the runtime source.
func NewRandom() *Generator {
	return New(rand.Uint64(), rand.Uint64())
}

// MonthlyTrend returns twelve month-end samples for year whose values are the
// running sum of N(0.1, 0.02) increments.
func (g *Generator) MonthlyTrend(year int) []chart.Point {
	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]chart.Point, 0, 12)
	var total float64
	for m := time.January; m <= time.December; m++ {
		total += g.normal(0.1, 0.02)
		monthEnd := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC)
		points = append(points, chart.Point{X: monthEnd.Format(time.DateOnly), Y: total})
	}
	return points
}

// RealTime returns one sample per minute for the hour before now, oldest
// first, as the running sum of N(0.001, 0.0005) increments.
func (g *Generator) RealTime(now time.Time) []chart.Point {
	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]chart.Point, 0, realTimeMinutes)
	var total float64
	for i := realTimeMinutes; i > 0; i-- {
		total += g.normal(0.001, 0.0005)
		at := now.Add(-time.Duration(i) * time.Minute)
		points = append(points, chart.Point{X: at.Format(time.TimeOnly), Y: total})
	}
	return points
}

// MarketOffers returns the listings shown on the marketplace board.
func (g *Generator) MarketOffers() []domain.MarketOffer {
	g.mu.Lock()
	defer g.mu.Unlock()

	offers := make([]domain.MarketOffer, 0, marketSellers)
	for i := 1; i <= marketSellers; i++ {
		amount := g.uniform(minOfferAmount, maxOfferAmount)
		price := g.uniform(minOfferPrice, maxOfferPrice)
		offers = append(offers, domain.MarketOffer{
			Seller: "User" + strconv.Itoa(i),
			Amount: math.Round(amount*100) / 100,
			Price:  math.Round(price/100) * 100,
		})
	}
	return offers
}

// ProfileStats returns a U(0.5, 1.5) share for each profile category.
func (g *Generator) ProfileStats() []chart.Slice {
	g.mu.Lock()
	defer g.mu.Unlock()

	slices := make([]chart.Slice, 0, len(profileCategories))
	for _, c := range profileCategories {
		slices = append(slices, chart.Slice{Label: c, Value: g.uniform(0.5, 1.5)})
	}
	return slices
}

// Tip picks one reduction tip.
func (g *Generator) Tip() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return tips[g.rng.IntN(len(tips))]
}

// Tips returns every reduction tip.
func Tips() []string {
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}

// CategoryBreakdown returns the fixed footprint breakdown.
func CategoryBreakdown() []chart.BreakdownRow {
	out := make([]chart.BreakdownRow, len(breakdown))
	copy(out, breakdown)
	return out
}

func (g *Generator) normal(mean, stddev float64) float64 {
	return mean + stddev*g.rng.NormFloat64()
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}
