package render

import (
	"fmt"

	"github.com/seenimoa/thermometer/internal/layout"
	"github.com/seenimoa/thermometer/pkg/models"
	"github.com/seenimoa/thermometer/pkg/utils"
)

// Class names shared by the style block and the body.
const (
	ClassTitle     = "title"
	ClassLabel     = "label"
	ClassValue     = "value"
	ClassTickMajor = "tickMajor"
	ClassTickMinor = "tickMinor"
	ClassTube      = "tube"
	ClassSegLabel  = "segLbl"
	ClassTopLabel  = "topLbl"
	ClassTickLabel = "tickLbl"

	gradientID = "fillGradient"
)

// Assemble turns a computed layout into a document. Per gauge the draw
// order is tube, clipped fill, bulb, ticks, side labels, committed value
// and the million mark above the bar.
func Assemble(s layout.Style, l models.Layout) *Document {
	doc := &Document{
		Width:   l.Canvas.Width,
		Height:  l.Canvas.Height,
		Classes: styleClasses(s),
	}

	fillPaint := s.FillColor
	bulbPaint := s.FillColor
	if s.FillMode == layout.FillGradient && len(l.Gauges) > 0 {
		g := l.Gauges[0]
		stops := layout.GradientStops(s)
		doc.Gradients = append(doc.Gradients, LinearGradient{
			ID: gradientID,
			X1: 0, Y1: float64(g.Bottom()),
			X2: 0, Y2: float64(g.BarY),
			Stops: stops,
		})
		fillPaint = "url(#" + gradientID + ")"
		bulbPaint = stops[0].Color
	}

	doc.Body = append(doc.Body,
		Text{
			X: l.Canvas.CenterX, Y: float64(l.Canvas.TitleY),
			Class: ClassTitle, Anchor: "middle",
			Content: l.Label + s.TitleSuffix,
		},
		Text{
			X: l.Canvas.CenterX, Y: float64(l.Canvas.ValueY),
			Class: ClassValue, Anchor: "middle",
			Content: fmt.Sprintf("%s / %s (%d%%)", utils.FormatUSD(l.Total), utils.FormatUSD(l.Goal), l.Percent),
		},
	)

	sideLabels := layout.SideLabels(s, l)

	for _, g := range l.Gauges {
		x, w := float64(g.X), float64(g.BarWidth)
		barY, barH := float64(g.BarY), float64(g.BarHeight)
		rx := float64(s.CornerRadius)

		// (a) tube
		doc.Body = append(doc.Body, Rect{X: x, Y: barY, W: w, H: barH, RX: rx, Class: ClassTube})

		// (b) fill: gauge silhouette ∩ level band
		if g.FillHeight > 0 {
			shapeID := fmt.Sprintf("gauge%d", g.Index)
			levelID := fmt.Sprintf("level%d", g.Index)
			bottom := g.BulbCY + g.BulbR
			doc.ClipPaths = append(doc.ClipPaths,
				ClipPath{ID: shapeID, Shapes: []Element{
					Rect{X: x, Y: barY, W: w, H: barH, RX: rx},
					Circle{CX: g.BulbCX, CY: g.BulbCY, R: g.BulbR},
				}},
				ClipPath{ID: levelID, Shapes: []Element{
					Rect{X: g.BulbCX - g.BulbR, Y: float64(g.FillY), W: 2 * g.BulbR, H: bottom - float64(g.FillY)},
				}},
			)
			doc.Body = append(doc.Body, Group{
				ClipPath: shapeID,
				Children: []Element{
					Rect{X: x, Y: barY, W: w, H: barH, RX: rx, Fill: fillPaint, ClipPath: levelID},
				},
			})
		}

		// (c) bulb: interior first so the outline sits on top of it
		inner := s.EmptyColor
		if g.BulbFilled {
			inner = bulbPaint
		}
		doc.Body = append(doc.Body,
			Circle{CX: g.BulbCX, CY: g.BulbCY, R: g.BulbR - 1, Fill: inner},
			Circle{CX: g.BulbCX, CY: g.BulbCY, R: g.BulbR, Fill: "none", Stroke: s.OutlineColor, StrokeWidth: 1},
		)

		// (d) ticks
		x1 := float64(g.Right())
		for _, tk := range l.Ticks {
			length, class, sw := s.MinorTickLen, ClassTickMinor, 1.0
			if tk.IsMajor {
				length, class, sw = s.MajorTickLen, ClassTickMajor, 2.0
			}
			y := float64(tk.Y)
			doc.Body = append(doc.Body, Line{X1: x1, Y1: y, X2: x1 + float64(length), Y2: y, Class: class, StrokeWidth: sw})
		}

		// (e) side labels
		if g.ShowLabels {
			lx := x1 + float64(s.LabelTextOffset)
			for _, tk := range sideLabels {
				doc.Body = append(doc.Body, Text{
					X: lx, Y: float64(tk.Y),
					Class: ClassTickLabel, Baseline: "middle",
					Content: utils.FormatTickLabel(tk.Value),
				})
			}
		}

		// (f) committed value, (g) million mark
		doc.Body = append(doc.Body,
			Text{X: g.MidX(), Y: g.ValueY, Class: ClassSegLabel, Anchor: "middle", Content: utils.FormatUSD(g.Value)},
			Text{X: g.MidX(), Y: float64(g.TopLabelY), Class: ClassTopLabel, Anchor: "middle", Content: utils.FormatMillionMark(g.Index)},
		)
	}

	return doc
}

func styleClasses(s layout.Style) []StyleClass {
	return []StyleClass{
		{Name: ClassTitle, FontWeight: 700, FontSize: float64(s.TitleFontPx), Fill: "#111"},
		{Name: ClassLabel, FontWeight: 600, FontSize: 16, Fill: "#222"},
		{Name: ClassValue, FontWeight: 700, FontSize: float64(s.ValueFontPx), Fill: "#111"},
		{Name: ClassTickMajor, Stroke: "#555"},
		{Name: ClassTickMinor, Stroke: "#888"},
		{Name: ClassTube, Fill: s.EmptyColor, Stroke: s.OutlineColor},
		{Name: ClassSegLabel, FontWeight: 600, FontSize: 16, Fill: "#444"},
		{Name: ClassTopLabel, FontWeight: 700, FontSize: 16, Fill: "#333"},
		{Name: ClassTickLabel, FontWeight: 600, FontSize: 16, Fill: "#555"},
	}
}
