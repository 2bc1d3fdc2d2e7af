package evaluation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GenerateConsoleReport formats a performance report for terminal output
func GenerateConsoleReport(report PerformanceReport, sim *MonteCarloResult) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Signal Performance: %s\n", report.Sport))
	builder.WriteString("==============================\n")
	builder.WriteString(fmt.Sprintf("Signals:        %d (%dW / %dL / %dP)\n",
		report.TotalSignals, report.Wins, report.Losses, report.Pushes))
	builder.WriteString(fmt.Sprintf("Win Rate:       %.2f%%\n", report.WinRate*100))
	builder.WriteString(fmt.Sprintf("ROI:            %.2f%%\n", report.ROI*100))
	builder.WriteString(fmt.Sprintf("Profit Factor:  %.2f\n", report.ProfitFactor))
	builder.WriteString(fmt.Sprintf("Avg Confidence: %.3f\n", report.AvgConfidence))
	builder.WriteString(fmt.Sprintf("Avg Odds:       %.2f\n", report.AvgOdds))
	builder.WriteString(fmt.Sprintf("Longest Runs:   %dW / %dL\n",
		report.LongestWinRun, report.LongestLossRun))

	if len(report.Buckets) > 0 {
		builder.WriteString("\nConfidence Buckets\n")
		names := make([]string, 0, len(report.Buckets))
		for name := range report.Buckets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b := report.Buckets[name]
			builder.WriteString(fmt.Sprintf("  %-7s %4d signals  win rate %.2f%%  roi %.2f%%\n",
				name, b.Total, b.WinRate*100, b.ROI*100))
		}
	}

	if sim != nil {
		builder.WriteString("\nMonte Carlo\n")
		builder.WriteString(fmt.Sprintf("  Iterations:     %d\n", sim.Iterations))
		builder.WriteString(fmt.Sprintf("  Mean Return:    %.2f%%\n", sim.MeanReturn*100))
		builder.WriteString(fmt.Sprintf("  VaR 95/99:      %.2f%% / %.2f%%\n", sim.VaR95*100, sim.VaR99*100))
		builder.WriteString(fmt.Sprintf("  P(profit):      %.2f%%\n", sim.ProbabilityOfProfit*100))
		builder.WriteString(fmt.Sprintf("  P(ruin):        %.2f%%\n", sim.ProbabilityOfRuin*100))
	}

	return builder.String()
}

// GenerateCSVExport exports key metrics for spreadsheets
func GenerateCSVExport(report PerformanceReport, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("sport,%s\n", report.Sport) +
		fmt.Sprintf("total_signals,%d\n", report.TotalSignals) +
		fmt.Sprintf("wins,%d\n", report.Wins) +
		fmt.Sprintf("losses,%d\n", report.Losses) +
		fmt.Sprintf("pushes,%d\n", report.Pushes) +
		fmt.Sprintf("win_rate,%.4f\n", report.WinRate) +
		fmt.Sprintf("roi,%.4f\n", report.ROI) +
		fmt.Sprintf("profit_factor,%.4f\n", report.ProfitFactor) +
		fmt.Sprintf("avg_confidence,%.4f\n", report.AvgConfidence) +
		fmt.Sprintf("longest_win_run,%d\n", report.LongestWinRun) +
		fmt.Sprintf("longest_loss_run,%d\n", report.LongestLossRun)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}
