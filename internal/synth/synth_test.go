package synth

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMonthlyTrend(t *testing.T) {
	t.Parallel()

	points := New(1, 2).MonthlyTrend(2024)
	if len(points) != 12 {
		t.Fatalf("len = %d, want 12", len(points))
	}
	if points[0].X != "2024-01-31" || points[1].X != "2024-02-29" || points[11].X != "2024-12-31" {
		t.Fatalf("dates = %s, %s, %s", points[0].X, points[1].X, points[11].X)
	}
	// Increments of N(0.1, 0.02) stay far from zero.
	for i := 1; i < len(points); i++ {
		if points[i].Y <= points[i-1].Y {
			t.Fatalf("trend not increasing at %d: %v <= %v", i, points[i].Y, points[i-1].Y)
		}
	}
	if last := points[11].Y; last < 0.8 || last > 1.6 {
		t.Fatalf("final value = %v, want near 1.2", last)
	}
}

func TestRealTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	points := New(3, 4).RealTime(now)
	if len(points) != 60 {
		t.Fatalf("len = %d, want 60", len(points))
	}
	if points[0].X != "11:00:00" || points[59].X != "11:59:00" {
		t.Fatalf("times = %s .. %s", points[0].X, points[59].X)
	}
	if last := points[59].Y; last < 0.03 || last > 0.09 {
		t.Fatalf("final value = %v, want near 0.06", last)
	}
}

func TestMarketOffers(t *testing.T) {
	t.Parallel()

	g := New(5, 6)
	for range 50 {
		offers := g.MarketOffers()
		if len(offers) != 5 {
			t.Fatalf("len = %d, want 5", len(offers))
		}
		for i, o := range offers {
			if want := "User" + string(rune('1'+i)); o.Seller != want {
				t.Fatalf("seller = %q, want %q", o.Seller, want)
			}
			if o.Amount < 0.1 || o.Amount > 2.0 {
				t.Fatalf("amount %v out of range", o.Amount)
			}
			if cents := o.Amount * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
				t.Fatalf("amount %v not rounded to 0.01", o.Amount)
			}
			if o.Price < 5000 || o.Price > 15000 {
				t.Fatalf("price %v out of range", o.Price)
			}
			if int(o.Price)%100 != 0 {
				t.Fatalf("price %v not rounded to 100", o.Price)
			}
		}
	}
}

func TestProfileStats(t *testing.T) {
	t.Parallel()

	stats := New(7, 8).ProfileStats()
	var labels []string
	for _, s := range stats {
		labels = append(labels, s.Label)
		if s.Value < 0.5 || s.Value > 1.5 {
			t.Fatalf("%s = %v out of range", s.Label, s.Value)
		}
	}
	if diff := cmp.Diff([]string{"Transport", "Energy", "Food", "Other"}, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestTip(t *testing.T) {
	t.Parallel()

	g := New(9, 10)
	all := Tips()
	seen := make(map[string]bool)
	for range 200 {
		tip := g.Tip()
		if !slices.Contains(all, tip) {
			t.Fatalf("Tip() = %q, not a known tip", tip)
		}
		seen[tip] = true
	}
	if len(seen) != len(all) {
		t.Fatalf("saw %d distinct tips in 200 draws, want %d", len(seen), len(all))
	}
}

func TestSeededGeneratorsAreReproducible(t *testing.T) {
	t.Parallel()

	a := New(11, 12).MarketOffers()
	b := New(11, 12).MarketOffers()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed differs (-a +b):\n%s", diff)
	}
}

func TestCategoryBreakdownIsACopy(t *testing.T) {
	t.Parallel()

	rows := CategoryBreakdown()
	rows[0].Value = 99
	if CategoryBreakdown()[0].Value != 2.5 {
		t.Fatal("CategoryBreakdown() exposes shared state")
	}
}
