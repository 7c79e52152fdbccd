package chart

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGauge(t *testing.T) {
	t.Parallel()

	spec := NewRenderer(nil).Gauge(6.7)
	if spec.Kind != KindGauge || len(spec.Data) != 1 {
		t.Fatalf("Gauge() kind=%q traces=%d", spec.Kind, len(spec.Data))
	}

	ind, ok := spec.Data[0].(IndicatorTrace)
	if !ok {
		t.Fatalf("trace type = %T, want IndicatorTrace", spec.Data[0])
	}
	if ind.Value != 6.7 || ind.Mode != "gauge+number" {
		t.Fatalf("indicator value=%v mode=%q", ind.Value, ind.Mode)
	}

	wantBands := []Band{
		{Range: [2]float64{0, 2}, Color: "cyan"},
		{Range: [2]float64{2, 5}, Color: "royalblue"},
		{Range: [2]float64{5, 8}, Color: "lightcoral"},
		{Range: [2]float64{8, 10}, Color: "red"},
	}
	if diff := cmp.Diff(wantBands, ind.Gauge.Steps); diff != "" {
		t.Errorf("bands mismatch (-want +got):\n%s", diff)
	}

	wantThreshold := Threshold{Line: Line{Color: "red", Width: 4}, Thickness: 0.75, Value: 9}
	if diff := cmp.Diff(wantThreshold, ind.Gauge.Threshold); diff != "" {
		t.Errorf("threshold mismatch (-want +got):\n%s", diff)
	}
	if ind.Gauge.Bar.Color != "darkblue" || ind.Gauge.Axis.Range != [2]float64{0, 10} {
		t.Errorf("bar=%q axis=%v", ind.Gauge.Bar.Color, ind.Gauge.Axis.Range)
	}
}

func TestGaugeNonFiniteValueStillEncodes(t *testing.T) {
	t.Parallel()

	spec := NewRenderer(nil).Gauge(math.NaN())
	if _, err := json.Marshal(spec); err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
}

func TestTrend(t *testing.T) {
	t.Parallel()

	spec := NewRenderer([]string{"#000000"}).Trend([]Point{
		{X: "2024-01-31", Y: 0.1},
		{X: "2024-02-29", Y: 0.21},
	})

	want := ScatterTrace{
		Type: "scatter",
		Mode: "lines+markers",
		Name: "footprint",
		X:    []string{"2024-01-31", "2024-02-29"},
		Y:    []float64{0.1, 0.21},
		Line: Line{Color: "#000000"},
	}
	if diff := cmp.Diff([]Trace{want}, spec.Data); diff != "" {
		t.Errorf("Trend() mismatch (-want +got):\n%s", diff)
	}
	if spec.Layout.XAxis == nil || spec.Layout.XAxis.Title.Text != "date" {
		t.Errorf("x axis = %+v", spec.Layout.XAxis)
	}
}

func TestBreakdown(t *testing.T) {
	t.Parallel()

	spec := NewRenderer([]string{"a", "b"}).Breakdown([]BreakdownRow{
		{Category: "Transport", Subcategory: "Car", Value: 2.5},
		{Category: "Transport", Subcategory: "Public transit", Value: 0.8},
		{Category: "Energy", Subcategory: "Electricity", Value: 1.5},
		{Category: "Diet", Subcategory: "Meat", Value: 1.2},
	})

	want := SunburstTrace{
		Type:         "sunburst",
		IDs:          []string{"Transport", "Energy", "Diet", "Transport/Car", "Transport/Public transit", "Energy/Electricity", "Diet/Meat"},
		Labels:       []string{"Transport", "Energy", "Diet", "Car", "Public transit", "Electricity", "Meat"},
		Parents:      []string{"", "", "", "Transport", "Transport", "Energy", "Diet"},
		Values:       []float64{3.3, 1.5, 1.2, 2.5, 0.8, 1.5, 1.2},
		BranchValues: "total",
		Marker:       Marker{Colors: []string{"a", "b", "a", "a", "a", "b", "a"}},
	}
	if diff := cmp.Diff([]Trace{want}, spec.Data); diff != "" {
		t.Errorf("Breakdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestWaterfall(t *testing.T) {
	t.Parallel()

	spec := NewRenderer(nil).Waterfall()
	wf, ok := spec.Data[0].(WaterfallTrace)
	if !ok {
		t.Fatalf("trace type = %T", spec.Data[0])
	}

	if diff := cmp.Diff([]float64{2.5, 3.2, 1.8, 0}, wf.Y); diff != "" {
		t.Errorf("y mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"+2.5", "+3.2", "+1.8", "7.5"}, wf.Text); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"relative", "relative", "relative", "total"}, wf.Measure); diff != "" {
		t.Errorf("measure mismatch (-want +got):\n%s", diff)
	}
	if wf.Connector.Line.Color != "rgb(63, 63, 63)" {
		t.Errorf("connector color = %q", wf.Connector.Line.Color)
	}
	if spec.Layout.ShowLegend == nil || *spec.Layout.ShowLegend {
		t.Errorf("showlegend = %v, want false", spec.Layout.ShowLegend)
	}
}

func TestPieCyclesPalette(t *testing.T) {
	t.Parallel()

	spec := NewRenderer([]string{"x", "y"}).Pie([]Slice{
		{Label: "Transport", Value: 1},
		{Label: "Energy", Value: 0.5},
		{Label: "Food", Value: 0.75},
	})

	want := PieTrace{
		Type:   "pie",
		Labels: []string{"Transport", "Energy", "Food"},
		Values: []float64{1, 0.5, 0.75},
		Marker: Marker{Colors: []string{"x", "y", "x"}},
	}
	if diff := cmp.Diff([]Trace{want}, spec.Data); diff != "" {
		t.Errorf("Pie() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyInputsRenderEmptyCharts(t *testing.T) {
	t.Parallel()

	r := NewRenderer(nil)
	tests := []struct {
		name string
		spec *Spec
	}{
		{"trend", r.Trend(nil)},
		{"line", r.Line([]Point{})},
		{"breakdown", r.Breakdown(nil)},
		{"pie", r.Pie(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if len(tt.spec.Data) != 1 {
				t.Fatalf("traces = %d, want 1", len(tt.spec.Data))
			}
			data, err := json.Marshal(tt.spec)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if strings.Contains(string(data), "null") {
				t.Fatalf("empty chart encodes null arrays: %s", data)
			}
		})
	}
}

func TestNewRendererCopiesPalette(t *testing.T) {
	t.Parallel()

	palette := []string{"red"}
	r := NewRenderer(palette)
	palette[0] = "blue"

	if got := r.color(0); got != "red" {
		t.Fatalf("color(0) = %q, want red", got)
	}
}
