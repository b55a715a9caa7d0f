package layout

import (
	"sort"
	"strings"
	"testing"

	"github.com/seenimoa/thermometer/pkg/models"
)

func sampleData(segs ...int64) *models.FundingData {
	d := &models.FundingData{
		Goal:     models.DefaultGoal,
		Label:    "Test Fund",
		Segments: make([]int64, models.Columns),
	}
	copy(d.Segments, segs)
	return d
}

// ── Style ──

func TestDefaultStyleGeometry(t *testing.T) {
	s := DefaultStyle()
	if got := s.TitleY(); got != 48 {
		t.Errorf("TitleY: got %d, want 48", got)
	}
	if got := s.ValueY(); got != 76 {
		t.Errorf("ValueY: got %d, want 76", got)
	}
	if got := s.BarY(); got != 129 {
		t.Errorf("BarY: got %d, want 129", got)
	}
	if got := s.BarHeight(); got != 259 {
		t.Errorf("BarHeight: got %d, want 259", got)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("DefaultStyle().Validate(): %v", err)
	}
}

func TestStyleValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Style)
		errSub string
	}{
		{"short canvas", func(s *Style) { s.Height = 200 }, "bar height"},
		{"zero bar width", func(s *Style) { s.BarWidth = 0 }, "bar width"},
		{"bad fill mode", func(s *Style) { s.FillMode = "plaid" }, "fill mode"},
		{"bad label mode", func(s *Style) { s.LabelMode = "some" }, "label mode"},
		{"bad bulb mode", func(s *Style) { s.BulbMode = "glow" }, "bulb mode"},
		{"bad label column", func(s *Style) { s.LabelMode = LabelsCustom; s.LabelColumns = []int{10} }, "label column"},
		{"zero label interval", func(s *Style) { s.LabelEvery = 0 }, "label interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStyle()
			tt.mutate(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error %q does not mention %q", err, tt.errSub)
			}
		})
	}
}

func TestLabelMask(t *testing.T) {
	s := DefaultStyle()
	mask := s.LabelMask()
	for i, shown := range mask {
		if shown != (i == models.Columns-1) {
			t.Errorf("compact mask[%d] = %v", i, shown)
		}
	}

	s.LabelMode = LabelsAll
	for i, shown := range s.LabelMask() {
		if !shown {
			t.Errorf("all mask[%d] = false", i)
		}
	}

	s.LabelMode = LabelsNone
	for i, shown := range s.LabelMask() {
		if shown {
			t.Errorf("none mask[%d] = true", i)
		}
	}

	s.LabelMode = LabelsCustom
	s.LabelColumns = []int{0, 4, 42}
	mask = s.LabelMask()
	if !mask[0] || !mask[4] || mask[9] {
		t.Errorf("custom mask: got %v", mask)
	}
}

// ── Ticks ──

func TestBuildTicksCounts(t *testing.T) {
	for _, h := range []int{20, 21, 100, 259, 333, 1000, 4096} {
		ticks := BuildTicks(129, h)
		var majors, minors int
		for _, tk := range ticks {
			if tk.IsMajor {
				majors++
				if tk.Value%models.MajorStep != 0 {
					t.Errorf("h=%d: major tick at %d", h, tk.Value)
				}
			} else {
				minors++
				if tk.Value%models.MajorStep != models.MinorStep {
					t.Errorf("h=%d: minor tick at %d", h, tk.Value)
				}
			}
		}
		if majors != 11 || minors != 10 {
			t.Errorf("h=%d: got %d majors / %d minors, want 11 / 10", h, majors, minors)
		}
	}
}

func TestBuildTicksDrawOrder(t *testing.T) {
	ticks := BuildTicks(129, 259)
	for i := 0; i < 11; i++ {
		if !ticks[i].IsMajor {
			t.Fatalf("tick %d should be major", i)
		}
	}
	for i := 11; i < len(ticks); i++ {
		if ticks[i].IsMajor {
			t.Fatalf("tick %d should be minor", i)
		}
	}
}

func TestBuildTicksStrictlyDecreasing(t *testing.T) {
	for h := MinBarHeight; h <= 600; h++ {
		ticks := BuildTicks(50, h)
		sort.Slice(ticks, func(i, j int) bool { return ticks[i].Value < ticks[j].Value })
		for i := 1; i < len(ticks); i++ {
			if ticks[i].Y >= ticks[i-1].Y {
				t.Fatalf("h=%d: y(%d)=%d not above y(%d)=%d",
					h, ticks[i].Value, ticks[i].Y, ticks[i-1].Value, ticks[i-1].Y)
			}
		}
	}
}

func TestBuildTicksPositions(t *testing.T) {
	byValue := map[int64]int{}
	for _, tk := range BuildTicks(129, 259) {
		byValue[tk.Value] = tk.Y
	}
	tests := []struct {
		value int64
		y     int
	}{
		{0, 388},
		{50_000, 376},
		{100_000, 363},
		{500_000, 259},
		{1_000_000, 129},
	}
	for _, tt := range tests {
		if got := byValue[tt.value]; got != tt.y {
			t.Errorf("y(%d): got %d, want %d", tt.value, got, tt.y)
		}
	}
}

func TestLabelTicks(t *testing.T) {
	ticks := LabelTicks(129, 259, models.MajorStep)
	if len(ticks) != 11 {
		t.Fatalf("got %d label ticks, want 11", len(ticks))
	}
	if ticks[10].Value != models.SegmentGoal || ticks[10].Y != 129 {
		t.Errorf("top label: got %+v", ticks[10])
	}
	if LabelTicks(0, 100, 0) != nil {
		t.Error("zero interval should yield no labels")
	}
}

// ── Fill ──

func TestFillHeight(t *testing.T) {
	for _, h := range []int{20, 259, 300, 1001} {
		if got := FillHeight(h, 0); got != 0 {
			t.Errorf("FillHeight(%d, 0) = %d, want 0", h, got)
		}
		if got := FillHeight(h, models.SegmentGoal); got != h {
			t.Errorf("FillHeight(%d, goal) = %d, want %d", h, got, h)
		}
		prev := 0
		for v := int64(0); v <= models.SegmentGoal; v += 12_345 {
			got := FillHeight(h, v)
			if got < prev {
				t.Fatalf("FillHeight(%d, %d) = %d decreased from %d", h, v, got, prev)
			}
			prev = got
		}
	}
}

// ── Compute ──

func TestComputeRoundTripScenario(t *testing.T) {
	s := DefaultStyle()
	l := Compute(s, sampleData(1_000_000, 500_000))

	if l.Total != 1_500_000 {
		t.Errorf("Total: got %d, want 1500000", l.Total)
	}
	if l.Percent != 15 {
		t.Errorf("Percent: got %d, want 15", l.Percent)
	}

	g0, g1 := l.Gauges[0], l.Gauges[1]
	if g0.FillHeight != g0.BarHeight {
		t.Errorf("gauge 0 fill: got %d, want %d", g0.FillHeight, g0.BarHeight)
	}
	if g0.FillY != g0.BarY {
		t.Errorf("gauge 0 fill top: got %d, want bar top %d", g0.FillY, g0.BarY)
	}
	if g1.FillHeight != 129 {
		t.Errorf("gauge 1 fill: got %d, want 129", g1.FillHeight)
	}
	if !g0.BulbFilled || !g1.BulbFilled {
		t.Error("gauges 0 and 1 should have filled bulbs")
	}
	for i := 2; i < models.Columns; i++ {
		g := l.Gauges[i]
		if g.FillHeight != 0 || g.BulbFilled {
			t.Errorf("gauge %d: fill=%d bulb=%v, want empty", i, g.FillHeight, g.BulbFilled)
		}
	}
}

func TestComputeDefaultPositions(t *testing.T) {
	l := Compute(DefaultStyle(), sampleData())

	if l.Canvas.Width != 1240 || l.Canvas.Height != 480 {
		t.Errorf("canvas: got %dx%d, want 1240x480", l.Canvas.Width, l.Canvas.Height)
	}
	if l.Canvas.CenterX != 620 {
		t.Errorf("CenterX: got %v, want 620", l.Canvas.CenterX)
	}
	for i, g := range l.Gauges {
		if want := 139 + 92*i; g.X != want {
			t.Errorf("gauge %d x: got %d, want %d", i, g.X, want)
		}
	}

	g := l.Gauges[0]
	if d := g.BulbR - 33.8; d > 1e-9 || d < -1e-9 {
		t.Errorf("BulbR: got %v, want 33.8", g.BulbR)
	}
	if g.BulbCX != 165 {
		t.Errorf("BulbCX: got %v, want 165", g.BulbCX)
	}
	if d := g.BulbCY - 406.59; d > 1e-9 || d < -1e-9 {
		t.Errorf("BulbCY: got %v, want 406.59", g.BulbCY)
	}
	if g.TopLabelY != 113 {
		t.Errorf("TopLabelY: got %d, want 113", g.TopLabelY)
	}
	if !l.Gauges[9].ShowLabels || l.Gauges[9].LabelBlock != 82 {
		t.Errorf("last gauge labels: show=%v block=%d", l.Gauges[9].ShowLabels, l.Gauges[9].LabelBlock)
	}
	if l.Gauges[0].ShowLabels {
		t.Error("first gauge should not show labels in compact mode")
	}
}

func TestComputeExpandedLabelsGrowCanvas(t *testing.T) {
	s := DefaultStyle()
	s.LabelMode = LabelsAll
	l := Compute(s, sampleData())

	if l.Canvas.Width != 1658 {
		t.Errorf("Width: got %d, want 1658", l.Canvas.Width)
	}
	if l.Gauges[0].X != 24 {
		t.Errorf("gauge 0 x: got %d, want 24", l.Gauges[0].X)
	}
	if l.Gauges[1].X != 188 {
		t.Errorf("gauge 1 x: got %d, want 188", l.Gauges[1].X)
	}
}

func TestComputeCanvasNeverClipsLabels(t *testing.T) {
	s := DefaultStyle()
	s.LabelMode = LabelsCustom
	for bits := 0; bits < 1<<models.Columns; bits++ {
		s.LabelColumns = s.LabelColumns[:0]
		for i := 0; i < models.Columns; i++ {
			if bits&(1<<i) != 0 {
				s.LabelColumns = append(s.LabelColumns, i)
			}
		}
		l := Compute(s, sampleData())
		if l.Canvas.Width < s.BaseWidth {
			t.Fatalf("mask %b: width %d below base %d", bits, l.Canvas.Width, s.BaseWidth)
		}
		for i, g := range l.Gauges {
			if g.X < 0 {
				t.Fatalf("mask %b: gauge %d starts at %d", bits, i, g.X)
			}
			if end := g.Right() + g.LabelBlock; end > l.Canvas.Width {
				t.Fatalf("mask %b: gauge %d block ends at %d past width %d", bits, i, end, l.Canvas.Width)
			}
			if i > 0 {
				prev := l.Gauges[i-1]
				if g.X < prev.Right()+prev.LabelBlock {
					t.Fatalf("mask %b: gauge %d overlaps previous label block", bits, i)
				}
			}
		}
	}
}

func TestComputeNarrowBaseExpands(t *testing.T) {
	s := DefaultStyle()
	s.BaseWidth = 100
	l := Compute(s, sampleData())
	if want := ColumnsWidth(s, s.LabelMask()) + 2*s.PadX; l.Canvas.Width != want {
		t.Errorf("Width: got %d, want %d", l.Canvas.Width, want)
	}
	if l.Gauges[0].X != s.PadX {
		t.Errorf("gauge 0 x: got %d, want pad %d", l.Gauges[0].X, s.PadX)
	}
}

func TestComputeBoundaryFullSegment(t *testing.T) {
	l := Compute(DefaultStyle(), sampleData(models.SegmentGoal))
	g := l.Gauges[0]

	var top *models.Tick
	for i := range l.Ticks {
		if l.Ticks[i].Value == models.SegmentGoal {
			top = &l.Ticks[i]
		}
	}
	if top == nil {
		t.Fatal("no tick at SegmentGoal")
	}
	if top.Y != g.BarY || g.FillY != g.BarY {
		t.Errorf("top tick y=%d fill top=%d, want both at bar top %d", top.Y, g.FillY, g.BarY)
	}
}

func TestComputeHidesMinorTicks(t *testing.T) {
	s := DefaultStyle()
	s.ShowMinorTicks = false
	l := Compute(s, sampleData())
	if len(l.Ticks) != 11 {
		t.Errorf("got %d ticks, want 11 majors", len(l.Ticks))
	}
}

func TestComputeOutlineBulbs(t *testing.T) {
	s := DefaultStyle()
	s.BulbMode = BulbOutline
	l := Compute(s, sampleData(500_000))
	if l.Gauges[0].BulbFilled {
		t.Error("outline mode should never fill the bulb")
	}
	if l.Gauges[0].FillHeight == 0 {
		t.Error("outline mode still fills the bar")
	}
}

func TestComputeDoesNotMutateStyle(t *testing.T) {
	s := DefaultStyle()
	s.LabelMode = LabelsCustom
	s.LabelColumns = []int{1, 3}
	before := append([]int(nil), s.LabelColumns...)
	Compute(s, sampleData(1))
	for i := range before {
		if s.LabelColumns[i] != before[i] {
			t.Fatal("Compute modified LabelColumns")
		}
	}
}

func TestSideLabels(t *testing.T) {
	s := DefaultStyle()
	l := Compute(s, sampleData())
	labels := SideLabels(s, l)
	if len(labels) != 11 {
		t.Errorf("got %d side labels, want 11", len(labels))
	}
	if SideLabels(s, models.Layout{}) != nil {
		t.Error("empty layout should have no side labels")
	}
}

// ── Colour ──

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		r, g, b uint8
	}{
		{"red", 0, 1, 0.5, 255, 0, 0},
		{"green", 120, 1, 0.5, 0, 255, 0},
		{"blue", 240, 1, 0.5, 0, 0, 255},
		{"white", 0, 0, 1, 255, 255, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"wrapped hue", 360, 1, 0.5, 255, 0, 0},
		{"clamped lightness", 0, 1, 2, 255, 255, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := HSLToRGB(tt.h, tt.s, tt.l)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("HSLToRGB(%v,%v,%v) = (%d,%d,%d), want (%d,%d,%d)",
					tt.h, tt.s, tt.l, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestGradientStops(t *testing.T) {
	stops := GradientStops(DefaultStyle())
	if len(stops) != gradientStopCount {
		t.Fatalf("got %d stops, want %d", len(stops), gradientStopCount)
	}
	if stops[0].Offset != 0 || stops[len(stops)-1].Offset != 1 {
		t.Errorf("offsets: first %v last %v", stops[0].Offset, stops[len(stops)-1].Offset)
	}
	for _, st := range stops {
		if len(st.Color) != 7 || st.Color[0] != '#' {
			t.Errorf("stop colour %q is not #rrggbb", st.Color)
		}
	}
	if HexRGB(224, 32, 32) != "#e02020" {
		t.Errorf("HexRGB: got %s", HexRGB(224, 32, 32))
	}
}
