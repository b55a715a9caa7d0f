package layout

import "github.com/seenimoa/thermometer/pkg/models"

// TickY maps a scale value to a canvas y coordinate. Larger values sit
// higher: SegmentGoal lands on barY, zero on the bar bottom.
func TickY(barY, barH int, v int64) int {
	return barY + barH - int(int64(barH)*v/models.SegmentGoal)
}

// BuildTicks returns the calibration marks for a bar in draw order: the
// eleven majors (0, 100k … 1M) followed by the ten odd-multiple-of-50k
// minors. A tick at SegmentGoal is always present.
func BuildTicks(barY, barH int) []models.Tick {
	ticks := make([]models.Tick, 0, 20)
	majors := make(map[int64]bool, 11)

	for v := int64(0); v <= models.SegmentGoal; v += models.MajorStep {
		majors[v] = true
		ticks = append(ticks, models.Tick{Value: v, Y: TickY(barY, barH, v), IsMajor: true})
	}

	for v := int64(models.MinorStep); v < models.SegmentGoal; v += models.MajorStep {
		if majors[v] {
			continue
		}
		ticks = append(ticks, models.Tick{Value: v, Y: TickY(barY, barH, v)})
	}

	if !majors[models.SegmentGoal] {
		ticks = append(ticks, models.Tick{Value: models.SegmentGoal, Y: barY, IsMajor: true})
	}
	return ticks
}

// LabelTicks returns the positions of the right-side scale labels, one
// every interval from zero up to SegmentGoal inclusive.
func LabelTicks(barY, barH int, every int64) []models.Tick {
	if every <= 0 {
		return nil
	}
	var ticks []models.Tick
	for v := int64(0); v <= models.SegmentGoal; v += every {
		ticks = append(ticks, models.Tick{Value: v, Y: TickY(barY, barH, v), IsMajor: true})
	}
	return ticks
}

// MajorTicks filters ticks down to the major marks, keeping order.
func MajorTicks(ticks []models.Tick) []models.Tick {
	out := make([]models.Tick, 0, len(ticks))
	for _, t := range ticks {
		if t.IsMajor {
			out = append(out, t)
		}
	}
	return out
}
