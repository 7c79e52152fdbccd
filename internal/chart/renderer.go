package chart

import "math"

// DefaultPalette is used when a Renderer is created without colors.
var DefaultPalette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

const (
	gaugeMax       = 10.0
	gaugeThreshold = 9.0
)

// Renderer produces figure specs. It holds no state besides the palette and
// is safe for concurrent use.
type Renderer struct {
	Palette []string
}

// NewRenderer creates a renderer cycling through palette.
func NewRenderer(palette []string) *Renderer {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	p := make([]string, len(palette))
	copy(p, palette)
	return &Renderer{Palette: p}
}

// Gauge shows an annual footprint in t CO2e on a 0 to 10 dial.
func (r *Renderer) Gauge(value float64) *Spec {
	const title = "Carbon footprint (t CO2e/year)"
	return &Spec{
		Kind:  KindGauge,
		Title: title,
		Data: []Trace{IndicatorTrace{
			Type:   "indicator",
			Mode:   "gauge+number",
			Value:  finite(value),
			Domain: Domain{X: []float64{0, 1}, Y: []float64{0, 1}},
			Title:  Text{Text: title},
			Gauge: Gauge{
				Axis: GaugeAxis{Range: [2]float64{0, gaugeMax}, TickWidth: 1, TickColor: "darkblue"},
				Bar:  Line{Color: "darkblue"},
				Steps: []Band{
					{Range: [2]float64{0, 2}, Color: "cyan"},
					{Range: [2]float64{2, 5}, Color: "royalblue"},
					{Range: [2]float64{5, 8}, Color: "lightcoral"},
					{Range: [2]float64{8, gaugeMax}, Color: "red"},
				},
				Threshold: Threshold{
					Line:      Line{Color: "red", Width: 4},
					Thickness: 0.75,
					Value:     gaugeThreshold,
				},
			},
		}},
		Layout: Layout{Title: Text{Text: title}},
	}
}

// Trend plots footprint over time with lines and markers.
func (r *Renderer) Trend(points []Point) *Spec {
	const title = "Carbon footprint trend"
	return r.series(KindTrend, title, "lines+markers", "date", points)
}

// Line plots the short-term real-time footprint.
func (r *Renderer) Line(points []Point) *Spec {
	const title = "Footprint over the last hour"
	return r.series(KindLine, title, "lines", "time", points)
}

func (r *Renderer) series(kind Kind, title, mode, xLabel string, points []Point) *Spec {
	x := make([]string, 0, len(points))
	y := make([]float64, 0, len(points))
	for _, p := range points {
		x = append(x, p.X)
		y = append(y, finite(p.Y))
	}

	return &Spec{
		Kind:  kind,
		Title: title,
		Data: []Trace{ScatterTrace{
			Type: "scatter",
			Mode: mode,
			Name: "footprint",
			X:    x,
			Y:    y,
			Line: Line{Color: r.color(0)},
		}},
		Layout: Layout{
			Title: Text{Text: title},
			XAxis: &AxisTitle{Title: Text{Text: xLabel}},
			YAxis: &AxisTitle{Title: Text{Text: "footprint"}},
		},
	}
}

// Breakdown draws a category to subcategory sunburst. Categories keep the
// order of their first row.
func (r *Renderer) Breakdown(rows []BreakdownRow) *Spec {
	const title = "Carbon footprint by category"

	var categories []string
	totals := make(map[string]float64)
	for _, row := range rows {
		if _, ok := totals[row.Category]; !ok {
			categories = append(categories, row.Category)
		}
		totals[row.Category] += finite(row.Value)
	}

	n := len(categories) + len(rows)
	trace := SunburstTrace{
		Type:         "sunburst",
		IDs:          make([]string, 0, n),
		Labels:       make([]string, 0, n),
		Parents:      make([]string, 0, n),
		Values:       make([]float64, 0, n),
		BranchValues: "total",
		Marker:       Marker{Colors: make([]string, 0, n)},
	}

	colorOf := make(map[string]string, len(categories))
	for i, c := range categories {
		colorOf[c] = r.color(i)
		trace.IDs = append(trace.IDs, c)
		trace.Labels = append(trace.Labels, c)
		trace.Parents = append(trace.Parents, "")
		trace.Values = append(trace.Values, round2(totals[c]))
		trace.Marker.Colors = append(trace.Marker.Colors, colorOf[c])
	}
	for _, row := range rows {
		trace.IDs = append(trace.IDs, row.Category+"/"+row.Subcategory)
		trace.Labels = append(trace.Labels, row.Subcategory)
		trace.Parents = append(trace.Parents, row.Category)
		trace.Values = append(trace.Values, finite(row.Value))
		trace.Marker.Colors = append(trace.Marker.Colors, colorOf[row.Category])
	}

	return &Spec{
		Kind:   KindBreakdown,
		Title:  title,
		Data:   []Trace{trace},
		Layout: Layout{Title: Text{Text: title}},
	}
}

// Waterfall shows the fixed reduction potential per area and its total.
func (r *Renderer) Waterfall() *Spec {
	const title = "Carbon reduction potential"
	showLegend := false
	return &Spec{
		Kind:  KindWaterfall,
		Title: title,
		Data: []Trace{WaterfallTrace{
			Type:         "waterfall",
			Name:         "20",
			Orientation:  "v",
			Measure:      []string{"relative", "relative", "relative", "total"},
			X:            []string{"Transport", "Energy", "Diet", "Total reduction potential"},
			Y:            []float64{2.5, 3.2, 1.8, 0},
			Text:         []string{"+2.5", "+3.2", "+1.8", "7.5"},
			TextPosition: "outside",
			Connector:    Connector{Line: Line{Color: "rgb(63, 63, 63)"}},
		}},
		Layout: Layout{Title: Text{Text: title}, ShowLegend: &showLegend},
	}
}

// Pie shows the share of each category.
func (r *Renderer) Pie(slices []Slice) *Spec {
	const title = "Carbon footprint by category"
	trace := PieTrace{
		Type:   "pie",
		Labels: make([]string, 0, len(slices)),
		Values: make([]float64, 0, len(slices)),
		Marker: Marker{Colors: make([]string, 0, len(slices))},
	}
	for i, s := range slices {
		trace.Labels = append(trace.Labels, s.Label)
		trace.Values = append(trace.Values, finite(s.Value))
		trace.Marker.Colors = append(trace.Marker.Colors, r.color(i))
	}

	return &Spec{
		Kind:   KindPie,
		Title:  title,
		Data:   []Trace{trace},
		Layout: Layout{Title: Text{Text: title}},
	}
}

func (r *Renderer) color(i int) string {
	palette := r.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return palette[i%len(palette)]
}

// finite maps NaN and infinities to zero; encoding/json rejects them.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
