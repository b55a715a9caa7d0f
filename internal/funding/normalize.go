// Package funding loads fundraising input documents and normalizes them into
// the fixed ten-gauge model.
package funding

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/seenimoa/thermometer/pkg/models"
)

var errNotFinite = errors.New("number is not finite")

// Normalize converts a decoded input mapping into FundingData.
//
// Missing keys take their defaults. Every segment is clamped into
// [0, SegmentGoal] and the sequence is zero-padded or truncated to exactly
// Columns values. Values that are not integer-like fail with a
// *ConversionError.
func Normalize(raw map[string]any) (*models.FundingData, error) {
	data := &models.FundingData{
		Goal:     models.DefaultGoal,
		Label:    models.DefaultLabel,
		Segments: make([]int64, models.Columns),
	}

	if v, ok := raw["goal"]; ok && v != nil {
		goal, err := toInt64(v)
		if err != nil {
			return nil, &ConversionError{Field: "goal", Value: v, Err: err}
		}
		data.Goal = goal
	}

	if v, ok := raw["label"]; ok && v != nil {
		label, err := cast.ToStringE(v)
		if err != nil {
			return nil, &ConversionError{Field: "label", Value: v, Err: err}
		}
		data.Label = label
	}

	if v, ok := raw["segments"]; ok && v != nil {
		values, err := cast.ToSliceE(v)
		if err != nil {
			return nil, &ConversionError{Field: "segments", Value: v, Err: err}
		}
		segs, err := normalizeSegments(values)
		if err != nil {
			return nil, err
		}
		data.Segments = segs
	}

	return data, nil
}

// NormalizeSegments clamps, pads and truncates already-typed values. It is
// the policy half of Normalize for callers that hold integers.
func NormalizeSegments(values []int64) []int64 {
	log := Logger()
	out := make([]int64, models.Columns)
	for i := 0; i < len(values) && i < models.Columns; i++ {
		out[i] = Clamp(values[i])
		if out[i] != values[i] {
			log.Debug("clamped segment", "index", i, "value", values[i], "clamped", out[i])
		}
	}
	switch {
	case len(values) < models.Columns:
		log.Debug("padded segments", "given", len(values), "padded", models.Columns-len(values))
	case len(values) > models.Columns:
		log.Debug("truncated segments", "given", len(values), "dropped", len(values)-models.Columns)
	}
	return out
}

// Clamp restricts a segment value to [0, SegmentGoal].
func Clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > models.SegmentGoal {
		return models.SegmentGoal
	}
	return v
}

// normalizeSegments converts every provided value before truncating, so a
// malformed value anywhere in the input is reported.
func normalizeSegments(values []any) ([]int64, error) {
	ints := make([]int64, len(values))
	for i, v := range values {
		if v == nil {
			return nil, &ConversionError{Field: fmt.Sprintf("segments[%d]", i), Value: v, Err: errNullSegment}
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, &ConversionError{Field: fmt.Sprintf("segments[%d]", i), Value: v, Err: err}
		}
		ints[i] = n
	}
	return NormalizeSegments(ints), nil
}

// toInt64 converts a decoded scalar to an integer. Fractions truncate toward
// zero and magnitudes beyond int64 saturate, so clamping still lands on the
// correct bound. Strings are read as base-10 integers only.
func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, err
		}
		return saturate(f)
	case float64:
		return saturate(x)
	case float32:
		return saturate(float64(x))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			// ParseInt returns the nearest bound on overflow.
			return n, nil
		}
		return n, err
	default:
		return cast.ToInt64E(v)
	}
}

// saturate truncates f toward zero, pinning values outside the int64 range
// to its bounds.
func saturate(f float64) (int64, error) {
	switch {
	case math.IsNaN(f):
		return 0, errNotFinite
	case f >= math.MaxInt64:
		return math.MaxInt64, nil
	case f <= math.MinInt64:
		return math.MinInt64, nil
	}
	if f != math.Trunc(f) {
		Logger().Debug("truncated fraction", "value", f)
	}
	return int64(f), nil
}
