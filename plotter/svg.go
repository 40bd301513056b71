// Package plotter renders simulation signal traces as SVG. Digital signals
// draw as 0/1 step traces, analog signals as line traces, so a recorded run
// reads like a logic-analyzer capture.
package plotter

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ladderlab-xyz/go-ladder/trace"
)

// Series is a single signal trace.
type Series struct {
	X     []float64
	Y     []float64
	Label string
	Color string
	Step  bool
}

// SVGPlotter accumulates series and renders them into one SVG document.
type SVGPlotter struct {
	Width      float64
	Height     float64
	Margin     map[string]float64
	PlotWidth  float64
	PlotHeight float64
	Title      string
	XLabel     string
	YLabel     string
	Series     []Series
}

// NewSVGPlotter creates a plotter with the given pixel dimensions.
func NewSVGPlotter(width, height float64) *SVGPlotter {
	margin := map[string]float64{"top": 40, "right": 30, "bottom": 50, "left": 60}
	return &SVGPlotter{
		Width:      width,
		Height:     height,
		Margin:     margin,
		PlotWidth:  width - margin["left"] - margin["right"],
		PlotHeight: height - margin["top"] - margin["bottom"],
		XLabel:     "Cycle",
		YLabel:     "Value",
	}
}

// SetTitle sets the plot title.
func (p *SVGPlotter) SetTitle(t string) *SVGPlotter {
	p.Title = t
	return p
}

// SetXLabel sets the X-axis label.
func (p *SVGPlotter) SetXLabel(s string) *SVGPlotter {
	p.XLabel = s
	return p
}

// SetYLabel sets the Y-axis label.
func (p *SVGPlotter) SetYLabel(s string) *SVGPlotter {
	p.YLabel = s
	return p
}

// AddSeries adds an analog line trace. An empty color picks the next palette
// entry.
func (p *SVGPlotter) AddSeries(x, y []float64, label, color string) *SVGPlotter {
	p.Series = append(p.Series, Series{X: x, Y: y, Label: label, Color: p.pick(color)})
	return p
}

// AddStepSeries adds a digital step trace: the value holds until the next
// sample instead of interpolating.
func (p *SVGPlotter) AddStepSeries(x, y []float64, label, color string) *SVGPlotter {
	p.Series = append(p.Series, Series{X: x, Y: y, Label: label, Color: p.pick(color), Step: true})
	return p
}

func (p *SVGPlotter) pick(color string) string {
	if color != "" {
		return color
	}
	palette := []string{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#a65628", "#f781bf", "#999999"}
	return palette[len(p.Series)%len(palette)]
}

// Render generates the SVG document.
func (p *SVGPlotter) Render() string {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range p.Series {
		for i := range s.X {
			xmin = math.Min(xmin, s.X[i])
			xmax = math.Max(xmax, s.X[i])
			ymin = math.Min(ymin, s.Y[i])
			ymax = math.Max(ymax, s.Y[i])
		}
	}
	if math.IsInf(xmin, 1) {
		xmin, xmax = 0, 1
	}
	if math.IsInf(ymin, 1) {
		ymin, ymax = 0, 1
	}
	xrange := xmax - xmin
	if xrange == 0 {
		xrange = 1
	}
	yrange := ymax - ymin
	if yrange == 0 {
		yrange = 1
	}
	xmin -= xrange * 0.02
	xmax += xrange * 0.02
	ymin -= yrange * 0.1
	ymax += yrange * 0.1

	sx := func(x float64) float64 {
		return p.Margin["left"] + ((x-xmin)/(xmax-xmin))*p.PlotWidth
	}
	sy := func(y float64) float64 {
		return p.Margin["top"] + p.PlotHeight - ((y-ymin)/(ymax-ymin))*p.PlotHeight
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`,
		int(p.Width), int(p.Height)))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="#f8f9fa" rx="8"/>`,
		int(p.Width), int(p.Height)))

	if p.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="25" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" font-weight="bold">%s</text>`,
			p.Width/2, escape(p.Title)))
	}

	// Axes
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		p.Margin["left"], p.Margin["top"], p.Margin["left"], p.Margin["top"]+p.PlotHeight))
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		p.Margin["left"], p.Margin["top"]+p.PlotHeight, p.Margin["left"]+p.PlotWidth, p.Margin["top"]+p.PlotHeight))
	sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12">%s</text>`,
		p.Margin["left"]+p.PlotWidth/2, p.Height-10, escape(p.XLabel)))
	sb.WriteString(fmt.Sprintf(`<text x="15" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" transform="rotate(-90, 15, %f)">%s</text>`,
		p.Margin["top"]+p.PlotHeight/2, p.Margin["top"]+p.PlotHeight/2, escape(p.YLabel)))

	// Grid and ticks
	const ticks = 5
	for i := 0; i <= ticks; i++ {
		x := xmin + (xmax-xmin)*float64(i)/ticks
		px := sx(x)
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1"/>`,
			px, p.Margin["top"]+p.PlotHeight, px, p.Margin["top"]+p.PlotHeight+5))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="10">%.1f</text>`,
			px, p.Margin["top"]+p.PlotHeight+20, x))
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			px, p.Margin["top"], px, p.Margin["top"]+p.PlotHeight))

		y := ymin + (ymax-ymin)*float64(i)/ticks
		py := sy(y)
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1"/>`,
			p.Margin["left"]-5, py, p.Margin["left"], py))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="end" font-family="Arial, sans-serif" font-size="10">%.1f</text>`,
			p.Margin["left"]-10, py+4, y))
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			p.Margin["left"], py, p.Margin["left"]+p.PlotWidth, py))
	}

	for _, s := range p.Series {
		if len(s.X) == 0 {
			continue
		}
		path := strings.Builder{}
		for i := range s.X {
			px := sx(s.X[i])
			py := sy(s.Y[i])
			switch {
			case i == 0:
				path.WriteString(fmt.Sprintf("M%f,%f", px, py))
			case s.Step:
				// Hold the previous level until this sample, then jump.
				path.WriteString(fmt.Sprintf(" L%f,%f L%f,%f", px, sy(s.Y[i-1]), px, py))
			default:
				path.WriteString(fmt.Sprintf(" L%f,%f", px, py))
			}
		}
		sb.WriteString(fmt.Sprintf(`<path d="%s" stroke="%s" stroke-width="2" fill="none"/>`,
			path.String(), s.Color))
	}

	// Legend
	legendY := p.Margin["top"] + 10
	for _, s := range p.Series {
		if s.Label == "" {
			continue
		}
		x1 := p.Width - p.Margin["right"] - 50
		x2 := p.Width - p.Margin["right"] - 30
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="%s" stroke-width="2"/>`,
			x1, legendY, x2, legendY, s.Color))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" font-family="Arial, sans-serif" font-size="10">%s</text>`,
			x2+5, legendY+4, escape(s.Label)))
		legendY += 20
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// PlotTrace renders selected signals from a recorded run. If signals is nil,
// every signal present in the records is plotted. Digital signals render as
// step traces, numeric signals as lines.
func PlotTrace(records []trace.Record, signals []string, width, height float64, title string) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("plotter: no records to plot")
	}

	if signals == nil {
		seen := map[string]bool{}
		for _, r := range records {
			for a := range r.Outputs {
				seen[a] = true
			}
			for a := range r.Memory {
				seen[a] = true
			}
			for a := range r.AnalogOutputs {
				seen[a] = true
			}
			for a := range r.MemoryWords {
				seen[a] = true
			}
		}
		for a := range seen {
			signals = append(signals, a)
		}
		sort.Strings(signals)
	}

	x := make([]float64, len(records))
	for i, r := range records {
		x[i] = float64(r.Cycle)
	}

	p := NewSVGPlotter(width, height)
	if title != "" {
		p.SetTitle(title)
	}
	for _, sig := range signals {
		y := make([]float64, len(records))
		digital := false
		for i, r := range records {
			switch {
			case hasKey(r.Outputs, sig):
				digital = true
				y[i] = boolVal(r.Outputs[sig])
			case hasKey(r.Memory, sig):
				digital = true
				y[i] = boolVal(r.Memory[sig])
			case hasKey(r.AnalogOutputs, sig):
				y[i] = r.AnalogOutputs[sig]
			case hasKey(r.MemoryWords, sig):
				y[i] = r.MemoryWords[sig]
			}
		}
		if digital {
			p.AddStepSeries(x, y, sig, "")
		} else {
			p.AddSeries(x, y, sig, "")
		}
	}
	return p.Render(), nil
}

func hasKey[V any](m map[string]V, k string) bool {
	_, ok := m[k]
	return ok
}

func boolVal(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
