package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/recurhq/recur/internal/report"
	"github.com/recurhq/recur/internal/service"
)

// RenderScanSummary formats scan statistics for terminal output.
func RenderScanSummary(stats *service.ScanStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Queries run:        %d", stats.QueriesRun))
	if stats.QueriesFailed > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("  (%d failed)", stats.QueriesFailed)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Messages matched:   %d\n", stats.MessagesSeen))
	b.WriteString(fmt.Sprintf("Messages fetched:   %d\n", stats.MessagesFetched))
	b.WriteString(fmt.Sprintf("Passed heuristics:  %d\n", stats.StageOnePassed))
	b.WriteString(fmt.Sprintf("Confirmed by LLM:   %d\n", stats.StageTwoPassed))
	b.WriteString(fmt.Sprintf("Saved:              %d\n", stats.Persisted))
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("Completed in %s", stats.Duration.Round(100*time.Millisecond))))

	return RenderBox(ScanIcon+" Scan Summary", b.String())
}

// RenderReport formats an aggregated subscription summary.
func RenderReport(summary *report.Summary) string {
	var sections []string

	var totals strings.Builder
	totals.WriteString(fmt.Sprintf("Monthly spend:  %s\n", SuccessStyle.Render(fmt.Sprintf("$%.2f", summary.MonthlyTotal))))
	totals.WriteString(fmt.Sprintf("Yearly spend:   $%.2f\n", summary.YearlyTotal))
	totals.WriteString(fmt.Sprintf("Active: %d   Trial: %d   Cancelled: %d",
		summary.ActiveCount, summary.TrialCount, summary.CancelledCount))
	sections = append(sections, RenderBox(ChartIcon+fmt.Sprintf(" Subscriptions %d", summary.Year), totals.String()))

	if len(summary.Subscriptions) > 0 {
		var rows strings.Builder
		rows.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-24s %-14s %10s %10s  %s", "Service", "Category", "Amount", "USD/mo", "Status")))
		rows.WriteString("\n")
		for _, line := range summary.Subscriptions {
			rows.WriteString(TableCellStyle.Render(fmt.Sprintf("%-24s %-14s %7.2f %s %9.2f  %s",
				truncate(line.ServiceName, 24), truncate(line.Category, 14),
				line.Amount, line.Currency, line.MonthlyUSD, string(line.Status))))
			rows.WriteString("\n")
		}
		sections = append(sections, rows.String())
	}

	if len(summary.CategoryTotals) > 0 {
		var cats strings.Builder
		for category, total := range summary.CategoryTotals {
			cats.WriteString(fmt.Sprintf("%-20s $%.2f/mo\n", category, total))
		}
		sections = append(sections, RenderBox("By Category", strings.TrimRight(cats.String(), "\n")))
	}

	if len(summary.Upcoming) > 0 {
		var up strings.Builder
		for _, line := range summary.Upcoming {
			up.WriteString(fmt.Sprintf("%-24s %7.2f %s on %s\n",
				truncate(line.ServiceName, 24), line.Amount, line.Currency,
				line.NextPaymentDate.Format("Jan 2")))
		}
		sections = append(sections, RenderBox("Upcoming Renewals", strings.TrimRight(up.String(), "\n")))
	}

	return strings.Join(sections, "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
