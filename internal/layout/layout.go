// Package layout turns normalized funding data into pixel geometry: canvas
// size, gauge positions, fill levels, bulbs and tick marks.
package layout

import (
	"github.com/seenimoa/thermometer/pkg/models"
	"github.com/seenimoa/thermometer/pkg/utils"
)

// FillHeight returns the filled pixel height of a bar for a segment value,
// floored to whole pixels.
func FillHeight(barH int, v int64) int {
	return int(int64(barH) * v / models.SegmentGoal)
}

// ColumnsWidth returns the horizontal extent of all gauges plus every
// reserved label block for the given label mask.
func ColumnsWidth(s Style, mask [models.Columns]bool) int {
	w := models.Columns*s.BarWidth + (models.Columns-1)*s.Gap
	for i, shown := range mask {
		if shown {
			w += labelBlock(s, i)
		}
	}
	return w
}

// CanvasWidth grows the base width when the gauges and label blocks need
// more room than it offers.
func CanvasWidth(s Style, mask [models.Columns]bool) int {
	return max(s.BaseWidth, ColumnsWidth(s, mask)+2*s.PadX)
}

// Compute derives the full layout for one render. data must already be
// normalized.
func Compute(s Style, data *models.FundingData) models.Layout {
	mask := s.LabelMask()
	colsW := ColumnsWidth(s, mask)
	width := CanvasWidth(s, mask)

	barY, barH := s.BarY(), s.BarHeight()
	bulbR := float64(s.BarWidth) * s.BulbRatio

	total := data.Total()
	out := models.Layout{
		Canvas: models.CanvasLayout{
			Width:   width,
			Height:  s.Height,
			PadX:    s.PadX,
			PadY:    s.PadY,
			CenterX: float64(width) / 2,
			TitleY:  s.TitleY(),
			ValueY:  s.ValueY(),
		},
		Gauges:  make([]models.GaugeGeometry, models.Columns),
		Goal:    data.Goal,
		Label:   data.Label,
		Total:   total,
		Percent: utils.PercentOf(total, data.Goal),
	}

	ticks := BuildTicks(barY, barH)
	if !s.ShowMinorTicks {
		ticks = MajorTicks(ticks)
	}
	out.Ticks = ticks

	x := (width - colsW) / 2
	for i := range out.Gauges {
		var v int64
		if i < len(data.Segments) {
			v = data.Segments[i]
		}
		fillH := FillHeight(barH, v)
		cy := float64(barY+barH) + bulbR*s.BulbDrop

		g := models.GaugeGeometry{
			Index:      i,
			Value:      v,
			X:          x,
			BarY:       barY,
			BarWidth:   s.BarWidth,
			BarHeight:  barH,
			FillHeight: fillH,
			FillY:      barY + barH - fillH,
			BulbCX:     float64(x) + float64(s.BarWidth)/2,
			BulbCY:     cy,
			BulbR:      bulbR,
			BulbFilled: v > 0 && s.BulbMode != BulbOutline,
			ShowLabels: mask[i],
			TopLabelY:  barY - s.TopLabelGap + 2,
			ValueY:     cy + bulbR + float64(s.ValueLabelGap),
		}
		if mask[i] {
			g.LabelBlock = labelBlock(s, i)
		}
		out.Gauges[i] = g

		x += s.BarWidth + s.Gap + g.LabelBlock
	}

	return out
}

// SideLabels returns the right-side label positions for a layout.
func SideLabels(s Style, l models.Layout) []models.Tick {
	if len(l.Gauges) == 0 {
		return nil
	}
	g := l.Gauges[0]
	return LabelTicks(g.BarY, g.BarHeight, s.LabelEvery)
}

// labelBlock is the width reserved to the right of gauge i when it shows
// labels. The last gauge keeps a right margin instead of a spacer.
func labelBlock(s Style, i int) int {
	if i == models.Columns-1 {
		return s.LabelBlock + s.RightMarginLast
	}
	return s.LabelBlock + s.LabelSpacer
}
