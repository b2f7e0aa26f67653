// Package plotting renders the forest plot: one facet per meat type, point
// estimates on the x axis, studies on the y axis, and 95% confidence bars
// where a standard error was reported.
package plotting

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"elastiplot/internal/elasticity"
	"elastiplot/internal/errors"
	"elastiplot/internal/infrastructure"
)

// Options carries all styling so the transform stays render-agnostic. Colors
// maps display meat-type labels to "#RRGGBB" hex strings.
type Options struct {
	Title        string
	WidthInches  float64
	HeightInches float64
	DPI          int
	Colors       map[string]string
}

// DefaultOptions returns the canvas and palette used by the published figure.
func DefaultOptions() Options {
	return Options{
		Title:        "Cross-Price Elasticities of Meat Demand",
		WidthInches:  12,
		HeightInches: 8,
		DPI:          300,
		Colors: map[string]string{
			"Beef":    "#D62728",
			"Pork":    "#FF7F0E",
			"Chicken": "#2CA02C",
			"Fish":    "#1F77B4",
		},
	}
}

// Renderer draws forest plots to PNG files.
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a renderer with the given styling.
func NewRenderer(opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Renderer{opts: opts, logger: logger}
}

// RenderForestPlot draws one facet per mapping entry, in mapping order, on a
// 2x2 grid with independent x scales, and writes the result to path as PNG.
func (r *Renderer) RenderForestPlot(observations []elasticity.ObservationRecord, mapping elasticity.MeatMapping, path string) error {
	if len(observations) == 0 {
		return errors.NewEmptyResultError("no observations to plot")
	}

	groups := make(map[string][]elasticity.ObservationRecord, len(mapping))
	for _, obs := range observations {
		groups[obs.MeatType] = append(groups[obs.MeatType], obs)
	}

	labels := mapping.Labels()
	facets := make([][]*plot.Plot, 2)
	for row := 0; row < 2; row++ {
		facets[row] = make([]*plot.Plot, 2)
		for col := 0; col < 2; col++ {
			i := row*2 + col
			if i >= len(labels) {
				continue
			}
			facet, err := r.buildFacet(labels[i], groups[labels[i]])
			if err != nil {
				return fmt.Errorf("build facet %s: %w", labels[i], err)
			}
			facets[row][col] = facet
		}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(r.opts.WidthInches)*vg.Inch, vg.Length(r.opts.HeightInches)*vg.Inch),
		vgimg.UseDPI(r.opts.DPI),
		vgimg.UseBackgroundColor(color.White),
	)
	dc := draw.New(img)

	// Reserve a strip at the top for the figure title; the facet grid fills
	// the rest.
	titleHeight := vg.Points(24)
	titleStyle := text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, vg.Points(14)),
		Handler: plot.DefaultTextHandler,
		XAlign:  text.XCenter,
		YAlign:  text.YTop,
	}
	dc.FillText(titleStyle, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y}, r.opts.Title)
	dc = draw.Crop(dc, 0, 0, 0, -titleHeight)

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(facets, tiles, dc)
	for row := range facets {
		for col := range facets[row] {
			if facets[row][col] != nil {
				facets[row][col].Draw(canvases[row][col])
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create plot directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create plot file", err).
			WithContext("path", path)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return errors.NewStorageError("failed to write PNG", err)
	}

	r.logger.Info("rendered forest plot",
		slog.String("path", path),
		slog.Int("observations", len(observations)),
		slog.Int("dpi", r.opts.DPI))
	return nil
}

// buildFacet renders one meat type: labelled studies on y, elasticity on x,
// a dashed reference line at x=0, CI bars only where a standard error exists,
// and distinct glyphs for with-SE and without-SE observations.
func (r *Renderer) buildFacet(label string, group []elasticity.ObservationRecord) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = label
	p.Title.TextStyle.Font.Size = vg.Points(11)
	p.X.Label.Text = "Cross-price elasticity"

	if len(group) == 0 {
		p.X.Min, p.X.Max = -1, 1
		p.Y.Min, p.Y.Max = 0, 1
		return p, nil
	}

	facetColor, err := parseHexColor(r.opts.Colors[label])
	if err != nil {
		return nil, errors.NewConfigError(
			fmt.Sprintf("invalid color for meat type %q", label), err)
	}

	// First observation at the top of the facet.
	names := make([]string, len(group))
	var withSE, withoutSE plotter.XYs
	var intervals intervalPoints
	for i, obs := range group {
		y := float64(len(group) - 1 - i)
		names[len(group)-1-i] = obs.StudyLabel
		point := plotter.XY{X: obs.Elasticity, Y: y}
		if obs.HasSE {
			withSE = append(withSE, point)
			intervals.XYs = append(intervals.XYs, point)
			offset := elasticity.CriticalValue * (*obs.StandardError)
			intervals.XErrors = append(intervals.XErrors, struct{ Low, High float64 }{offset, offset})
		} else {
			withoutSE = append(withoutSE, point)
		}
	}

	p.NominalY(names...)
	p.Y.Tick.Label.Font.Size = vg.Points(8)

	if len(intervals.XYs) > 0 {
		bars, err := plotter.NewXErrorBars(intervals)
		if err != nil {
			return nil, err
		}
		bars.LineStyle.Color = facetColor
		bars.LineStyle.Width = vg.Points(1.5)
		bars.CapWidth = vg.Points(4)
		p.Add(bars)
	}

	if len(withSE) > 0 {
		scatter, err := plotter.NewScatter(withSE)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Color = facetColor
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
	}

	if len(withoutSE) > 0 {
		scatter, err := plotter.NewScatter(withoutSE)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Shape = draw.RingGlyph{}
		scatter.GlyphStyle.Color = facetColor
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
	}

	// Independent x scale per facet, padded and always spanning zero so the
	// reference line is visible.
	if p.X.Min > 0 {
		p.X.Min = 0
	}
	if p.X.Max < 0 {
		p.X.Max = 0
	}
	pad := (p.X.Max - p.X.Min) * 0.05
	if pad == 0 {
		pad = 0.1
	}
	p.X.Min -= pad
	p.X.Max += pad
	p.Y.Min = -0.5
	p.Y.Max = float64(len(group)) - 0.5

	zero := plotter.XYs{{X: 0, Y: p.Y.Min}, {X: 0, Y: p.Y.Max}}
	refLine, err := plotter.NewLine(zero)
	if err != nil {
		return nil, err
	}
	refLine.LineStyle.Color = color.Gray{Y: 96}
	refLine.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(refLine)

	return p, nil
}

// intervalPoints pairs coordinates with symmetric CI half-widths for the
// error-bar plotter.
type intervalPoints struct {
	plotter.XYs
	plotter.XErrors
}

// parseHexColor converts "#RRGGBB" to an opaque color.
func parseHexColor(s string) (color.Color, error) {
	var c color.RGBA
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return nil, fmt.Errorf("parse %q: %w", s, err)
	}
	c.A = 255
	return c, nil
}
