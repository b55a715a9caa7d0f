package layout

import (
	"errors"
	"fmt"

	"github.com/seenimoa/thermometer/pkg/models"
)

// FillMode selects how the gauge fill is painted.
type FillMode string

const (
	FillSolid    FillMode = "solid"
	FillGradient FillMode = "gradient"
)

// LabelMode selects which gauges carry right-side scale labels.
type LabelMode string

const (
	LabelsCompact LabelMode = "compact" // last gauge only
	LabelsAll     LabelMode = "all"
	LabelsNone    LabelMode = "none"
	LabelsCustom  LabelMode = "custom" // Style.LabelColumns
)

// BulbMode selects how the bulb indicates a non-empty gauge.
type BulbMode string

const (
	BulbFilled  BulbMode = "filled"  // fill colour when the segment is > 0
	BulbOutline BulbMode = "outline" // always empty, outline only
)

// MinBarHeight keeps every 50k tick on its own pixel row.
const MinBarHeight = models.SegmentGoal / models.MinorStep

// Style holds every fixed visual constant. It is passed by value into the
// layout and assembly stages and never mutated by them.
type Style struct {
	BaseWidth int // canvas never narrower than this
	Height    int

	PadX int
	PadY int

	TitleFontPx    int
	ValueFontPx    int
	TitleValueGap  int
	HeaderChartGap int
	TopLabelGap    int
	BulbSpace      int
	BottomPad      int

	BarWidth     int
	Gap          int
	CornerRadius int

	LabelTextOffset int
	LabelBlock      int
	LabelSpacer     int
	RightMarginLast int
	ValueLabelGap   int

	MajorTickLen int
	MinorTickLen int

	BulbRatio float64 // radius as a fraction of bar width
	BulbDrop  float64 // centre offset below the bar, as a fraction of radius

	FillColor    string
	EmptyColor   string
	OutlineColor string
	TitleSuffix  string

	FillMode         FillMode
	GradientHueStart float64 // bottom of the bar
	GradientHueEnd   float64 // top of the bar

	LabelMode    LabelMode
	LabelColumns []int // 0-based gauge indexes, LabelsCustom only
	LabelEvery   int64

	BulbMode       BulbMode
	ShowMinorTicks bool
}

// DefaultStyle returns the final compact design: solid red fill, labels on
// the last gauge only, filled bulbs and 50k minor ticks.
func DefaultStyle() Style {
	return Style{
		BaseWidth:        1240,
		Height:           480,
		PadX:             24,
		PadY:             24,
		TitleFontPx:      24,
		ValueFontPx:      18,
		TitleValueGap:    10,
		HeaderChartGap:   35,
		TopLabelGap:      18,
		BulbSpace:        56,
		BottomPad:        36,
		BarWidth:         52,
		Gap:              40,
		CornerRadius:     12,
		LabelTextOffset:  10,
		LabelBlock:       66,
		LabelSpacer:      6,
		RightMarginLast:  16,
		ValueLabelGap:    18,
		MajorTickLen:     8,
		MinorTickLen:     5,
		BulbRatio:        0.65,
		BulbDrop:         0.55,
		FillColor:        "#e02020",
		EmptyColor:       "#ffffff",
		OutlineColor:     "#ccc",
		TitleSuffix:      " — Capital Commitments",
		FillMode:         FillSolid,
		GradientHueStart: 0,
		GradientHueEnd:   45,
		LabelMode:        LabelsCompact,
		LabelEvery:       models.MajorStep,
		BulbMode:         BulbFilled,
		ShowMinorTicks:   true,
	}
}

// BarY returns the y coordinate of the top of every bar.
func (s Style) BarY() int {
	return s.ValueY() + s.HeaderChartGap + s.TopLabelGap
}

// BarHeight is the vertical space left after the fixed regions.
func (s Style) BarHeight() int {
	return s.Height - s.BarY() - s.BulbSpace - s.BottomPad
}

// TitleY returns the title baseline.
func (s Style) TitleY() int {
	return s.PadY + s.TitleFontPx
}

// ValueY returns the summary line baseline.
func (s Style) ValueY() int {
	return s.TitleY() + s.TitleValueGap + s.ValueFontPx
}

// LabelMask reports, per gauge, whether right-side labels are shown.
func (s Style) LabelMask() [models.Columns]bool {
	var mask [models.Columns]bool
	switch s.LabelMode {
	case LabelsAll:
		for i := range mask {
			mask[i] = true
		}
	case LabelsNone:
	case LabelsCustom:
		for _, c := range s.LabelColumns {
			if c >= 0 && c < models.Columns {
				mask[c] = true
			}
		}
	default:
		mask[models.Columns-1] = true
	}
	return mask
}

// Validate rejects geometry the layout engine cannot honour.
func (s Style) Validate() error {
	var errs []error
	if s.BaseWidth <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d must be positive", s.BaseWidth, s.Height))
	}
	if s.BarWidth <= 0 {
		errs = append(errs, fmt.Errorf("bar width %d must be positive", s.BarWidth))
	}
	if h := s.BarHeight(); h < MinBarHeight {
		errs = append(errs, fmt.Errorf("bar height %d is below %d px; increase height or shrink the header", h, MinBarHeight))
	}
	if s.LabelEvery <= 0 {
		errs = append(errs, fmt.Errorf("label interval %d must be positive", s.LabelEvery))
	}
	if s.BulbRatio <= 0 {
		errs = append(errs, fmt.Errorf("bulb ratio %v must be positive", s.BulbRatio))
	}
	switch s.FillMode {
	case FillSolid, FillGradient:
	default:
		errs = append(errs, fmt.Errorf("unknown fill mode %q", s.FillMode))
	}
	switch s.LabelMode {
	case LabelsCompact, LabelsAll, LabelsNone:
	case LabelsCustom:
		for _, c := range s.LabelColumns {
			if c < 0 || c >= models.Columns {
				errs = append(errs, fmt.Errorf("label column %d outside 0..%d", c, models.Columns-1))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown label mode %q", s.LabelMode))
	}
	switch s.BulbMode {
	case BulbFilled, BulbOutline:
	default:
		errs = append(errs, fmt.Errorf("unknown bulb mode %q", s.BulbMode))
	}
	return errors.Join(errs...)
}
