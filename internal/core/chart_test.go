package core

import (
	"math"
	"testing"
)

func TestChartSlicesOffsets(t *testing.T) {
	bd := []BreakdownEntry{
		{Category: "Food", Color: "#ff6384", Total: Money{Cents: 20000}, Percentage: 50},
		{Category: "Transport", Color: "#36a2eb", Total: Money{Cents: 12000}, Percentage: 30},
		{Category: "Bills", Color: "#4bc0c0", Total: Money{Cents: 8000}, Percentage: 20},
	}
	slices := ChartSlices(bd)
	if len(slices) != 3 {
		t.Fatalf("expected 3 slices, got %d", len(slices))
	}
	wantOffsets := []float64{0, 50, 80}
	for i, s := range slices {
		if math.Abs(s.Offset-wantOffsets[i]) > 1e-9 {
			t.Fatalf("slice %d offset = %v, want %v", i, s.Offset, wantOffsets[i])
		}
		if s.Percentage != bd[i].Percentage || s.Color != bd[i].Color {
			t.Fatalf("slice %d does not mirror breakdown entry: %+v", i, s)
		}
	}
}

func TestChartSlicesEmpty(t *testing.T) {
	if s := ChartSlices(nil); s != nil {
		t.Fatalf("expected nil slices for empty breakdown, got %v", s)
	}
}

// Scenario: budget 100, spend 95 -> danger state.
func TestGaugeState(t *testing.T) {
	l := Ledger{
		Transactions: []Transaction{tx(1, "rent", 9500, "Bills")},
		Budget:       Money{Cents: 10000},
	}
	if r := ProgressRatio(l); r != 95 {
		t.Fatalf("ratio = %v, want 95", r)
	}
	cases := []struct {
		ratio float64
		want  string
	}{
		{0, GaugeNormal},
		{70, GaugeNormal},
		{70.1, GaugeWarning},
		{90, GaugeWarning},
		{95, GaugeDanger},
		{100, GaugeDanger},
	}
	for _, tc := range cases {
		if got := GaugeState(tc.ratio); got != tc.want {
			t.Fatalf("GaugeState(%v) = %s, want %s", tc.ratio, got, tc.want)
		}
	}
}
