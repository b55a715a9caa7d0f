package models

// CanvasLayout describes the whole-document geometry.
type CanvasLayout struct {
	Width   int     `json:"width"`  // >= base width, grows for label blocks
	Height  int     `json:"height"` // fixed
	PadX    int     `json:"pad_x"`
	PadY    int     `json:"pad_y"`
	CenterX float64 `json:"center_x"` // header text anchor
	TitleY  int     `json:"title_y"`  // title baseline
	ValueY  int     `json:"value_y"`  // summary line baseline
}

// GaugeGeometry is the pixel geometry of one thermometer.
type GaugeGeometry struct {
	Index      int     `json:"index"`
	Value      int64   `json:"value"`
	X          int     `json:"x"`
	BarY       int     `json:"bar_y"`
	BarWidth   int     `json:"bar_width"`
	BarHeight  int     `json:"bar_height"`
	FillHeight int     `json:"fill_height"`
	FillY      int     `json:"fill_y"` // top of the fill, BarY + BarHeight - FillHeight
	BulbCX     float64 `json:"bulb_cx"`
	BulbCY     float64 `json:"bulb_cy"`
	BulbR      float64 `json:"bulb_r"`
	BulbFilled bool    `json:"bulb_filled"` // Value > 0
	ShowLabels bool    `json:"show_labels"`
	LabelBlock int     `json:"label_block"` // reserved width to the right, 0 when labels hidden
	TopLabelY  int     `json:"top_label_y"`
	ValueY     float64 `json:"value_label_y"`
}

// MidX returns the horizontal centre of the bar.
func (g GaugeGeometry) MidX() float64 {
	return float64(g.X) + float64(g.BarWidth)/2
}

// Right returns the x coordinate of the bar's right edge.
func (g GaugeGeometry) Right() int {
	return g.X + g.BarWidth
}

// Bottom returns the y coordinate of the bar's bottom edge.
func (g GaugeGeometry) Bottom() int {
	return g.BarY + g.BarHeight
}

// Layout is the complete computed geometry for one render.
type Layout struct {
	Canvas  CanvasLayout    `json:"canvas"`
	Gauges  []GaugeGeometry `json:"gauges"`
	Ticks   []Tick          `json:"ticks"` // shared by every gauge, draw order
	Goal    int64           `json:"goal"`
	Label   string          `json:"label"`
	Total   int64           `json:"total"`
	Percent int             `json:"percent"` // 0..100, round-half-up
}
