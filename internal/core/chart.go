package core

// Slice is one arc of the donut chart. Percentage is the arc length and
// Offset the running sum of all prior arcs, both in percent of the full
// circle, so a renderer can draw the slice with
// stroke-dasharray="P (100-P)" and stroke-dashoffset="-Offset".
type Slice struct {
	Category   string
	Color      string
	Percentage float64
	Offset     float64
}

// Gauge color states for the budget progress bar.
const (
	GaugeNormal  = "normal"
	GaugeWarning = "warning"
	GaugeDanger  = "danger"
)

// ChartSlices converts a sorted breakdown into draw instructions. The
// first slice starts at offset 0. Nil input yields nil: the caller renders
// an explicit empty-state placeholder instead of an empty chart.
func ChartSlices(breakdown []BreakdownEntry) []Slice {
	if len(breakdown) == 0 {
		return nil
	}
	slices := make([]Slice, len(breakdown))
	var cumulative float64
	for i, e := range breakdown {
		slices[i] = Slice{
			Category:   e.Category,
			Color:      e.Color,
			Percentage: e.Percentage,
			Offset:     cumulative,
		}
		cumulative += e.Percentage
	}
	return slices
}

// GaugeState maps a progress ratio to a display state: danger above 90%,
// warning above 70%, normal otherwise.
func GaugeState(ratio float64) string {
	switch {
	case ratio > 90:
		return GaugeDanger
	case ratio > 70:
		return GaugeWarning
	default:
		return GaugeNormal
	}
}
