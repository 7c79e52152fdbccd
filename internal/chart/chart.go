// Package chart builds declarative, Plotly-compatible figure specs for the
// dashboard. Rendering happens in the browser; this package only decides what
// to draw.
package chart

// Kind identifies the figure type.
type Kind string

const (
	KindGauge     Kind = "gauge"
	KindTrend     Kind = "trend"
	KindBreakdown Kind = "breakdown"
	KindWaterfall Kind = "waterfall"
	KindPie       Kind = "pie"
	KindLine      Kind = "line"
)

// Spec is a complete figure: traces plus layout.
type Spec struct {
	Kind   Kind    `json:"kind"`
	Title  string  `json:"title"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly trace. Implementations marshal to the trace JSON.
type Trace interface {
	TraceType() string
}

// Point is one sample of a time series. X is already formatted for display.
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Slice is one pie segment.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BreakdownRow is one leaf of the category breakdown.
type BreakdownRow struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Value       float64 `json:"value"`
}

type Text struct {
	Text string `json:"text"`
}

type Layout struct {
	Title      Text       `json:"title"`
	ShowLegend *bool      `json:"showlegend,omitempty"`
	XAxis      *AxisTitle `json:"xaxis,omitempty"`
	YAxis      *AxisTitle `json:"yaxis,omitempty"`
}

type AxisTitle struct {
	Title Text `json:"title"`
}

type Line struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width,omitempty"`
}

type Domain struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// IndicatorTrace is a gauge with a numeric readout.
type IndicatorTrace struct {
	Type   string  `json:"type"`
	Mode   string  `json:"mode"`
	Value  float64 `json:"value"`
	Domain Domain  `json:"domain"`
	Title  Text    `json:"title"`
	Gauge  Gauge   `json:"gauge"`
}

func (IndicatorTrace) TraceType() string { return "indicator" }

type Gauge struct {
	Axis      GaugeAxis `json:"axis"`
	Bar       Line      `json:"bar"`
	Steps     []Band    `json:"steps"`
	Threshold Threshold `json:"threshold"`
}

type GaugeAxis struct {
	Range     [2]float64 `json:"range"`
	TickWidth int        `json:"tickwidth"`
	TickColor string     `json:"tickcolor"`
}

// Band colors a value range of the gauge.
type Band struct {
	Range [2]float64 `json:"range"`
	Color string     `json:"color"`
}

type Threshold struct {
	Line      Line    `json:"line"`
	Thickness float64 `json:"thickness"`
	Value     float64 `json:"value"`
}

// ScatterTrace draws lines and/or markers.
type ScatterTrace struct {
	Type string    `json:"type"`
	Mode string    `json:"mode"`
	Name string    `json:"name,omitempty"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
	Line Line      `json:"line"`
}

func (ScatterTrace) TraceType() string { return "scatter" }

// SunburstTrace is a two-level hierarchy. Parent values are the sum of their children.
type SunburstTrace struct {
	Type         string    `json:"type"`
	IDs          []string  `json:"ids"`
	Labels       []string  `json:"labels"`
	Parents      []string  `json:"parents"`
	Values       []float64 `json:"values"`
	BranchValues string    `json:"branchvalues"`
	Marker       Marker    `json:"marker"`
}

func (SunburstTrace) TraceType() string { return "sunburst" }

type WaterfallTrace struct {
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Orientation  string    `json:"orientation"`
	Measure      []string  `json:"measure"`
	X            []string  `json:"x"`
	Y            []float64 `json:"y"`
	Text         []string  `json:"text"`
	TextPosition string    `json:"textposition"`
	Connector    Connector `json:"connector"`
}

func (WaterfallTrace) TraceType() string { return "waterfall" }

type Connector struct {
	Line Line `json:"line"`
}

type PieTrace struct {
	Type   string    `json:"type"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Marker Marker    `json:"marker"`
}

func (PieTrace) TraceType() string { return "pie" }

type Marker struct {
	Colors []string `json:"colors"`
}
