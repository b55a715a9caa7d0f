// Package models defines the core data structures shared by the thermometer
// renderer: the normalized funding input and the derived layout geometry.
package models

// Fixed gauge model. Ten gauges of one million each sum to the ten million goal.
const (
	Columns      = 10
	SegmentGoal  = 1_000_000
	MajorStep    = 100_000
	MinorStep    = 50_000
	DefaultGoal  = 10_000_000
	DefaultLabel = "Fundraising"
)

// FundingData is the normalized input document.
type FundingData struct {
	Goal     int64   `json:"goal"`     // currency units, default 10,000,000
	Label    string  `json:"label"`    // display name, default "Fundraising"
	Segments []int64 `json:"segments"` // exactly Columns values in [0, SegmentGoal]
}

// Total returns the sum of all segment values.
func (d FundingData) Total() int64 {
	var total int64
	for _, v := range d.Segments {
		total += v
	}
	return total
}

// Tick is a calibration mark on a gauge scale.
type Tick struct {
	Value   int64 `json:"value"`    // in [0, SegmentGoal]
	Y       int   `json:"y"`        // pixel offset from canvas top
	IsMajor bool  `json:"is_major"` // labelled every MajorStep
}
