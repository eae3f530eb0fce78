package http

import (
	"strconv"

	"cashcraft/internal/core"
)

// View models passed to the templates. All money values are preformatted
// strings so templates never do arithmetic.

type dashboardView struct {
	BudgetSet     bool
	Budget        string
	TotalExpenses string
	Remaining     string
	Overspent     bool
	Percent       string // progress bar width, 0-100
	Gauge         string // normal | warning | danger
}

type transactionView struct {
	ID          int64
	Description string
	Amount      string
	Category    string
	Color       string
}

type transactionsView struct {
	Items []transactionView
}

type sliceView struct {
	Color      string
	DashArray  string
	DashOffset string
}

type legendItemView struct {
	Category string
	Color    string
	Percent  string
}

type chartView struct {
	HasData bool
	Slices  []sliceView
	Legend  []legendItemView
}

type indexView struct {
	Dashboard    dashboardView
	Transactions transactionsView
	Chart        chartView
	Categories   []core.Category
	AdvisorReady bool
}

func buildDashboardView(l core.Ledger) dashboardView {
	remaining := core.Remaining(l)
	ratio := core.ProgressRatio(l)
	return dashboardView{
		BudgetSet:     l.Budget.Cents > 0,
		Budget:        core.FormatRupees(l.Budget.Cents),
		TotalExpenses: core.FormatRupees(core.TotalExpenses(l).Cents),
		Remaining:     core.FormatRupees(remaining.Cents),
		Overspent:     remaining.Cents < 0,
		Percent:       formatFloat(ratio),
		Gauge:         core.GaugeState(ratio),
	}
}

// buildTransactionsView lists newest first so fresh expenses show on top.
func buildTransactionsView(l core.Ledger) transactionsView {
	view := transactionsView{Items: make([]transactionView, 0, len(l.Transactions))}
	for i := len(l.Transactions) - 1; i >= 0; i-- {
		tx := l.Transactions[i]
		view.Items = append(view.Items, transactionView{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      core.FormatRupees(tx.Amount.Cents),
			Category:    tx.Category,
			Color:       tx.Color,
		})
	}
	return view
}

func buildChartView(l core.Ledger) chartView {
	slices := core.ChartSlices(core.CategoryBreakdown(l))
	if len(slices) == 0 {
		return chartView{}
	}
	view := chartView{HasData: true}
	for _, sl := range slices {
		view.Slices = append(view.Slices, sliceView{
			Color:      sl.Color,
			DashArray:  formatFloat(sl.Percentage) + " " + formatFloat(100-sl.Percentage),
			DashOffset: "-" + formatFloat(sl.Offset),
		})
		view.Legend = append(view.Legend, legendItemView{
			Category: sl.Category,
			Color:    sl.Color,
			Percent:  strconv.FormatFloat(sl.Percentage, 'f', 1, 64),
		})
	}
	return view
}

func buildIndexView(l core.Ledger, advisorReady bool) indexView {
	return indexView{
		Dashboard:    buildDashboardView(l),
		Transactions: buildTransactionsView(l),
		Chart:        buildChartView(l),
		Categories:   core.Categories,
		AdvisorReady: advisorReady,
	}
}

// formatFloat renders percentages without trailing zeros, matching how
// the SVG attributes were hand-written.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
