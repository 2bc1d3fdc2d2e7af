package evaluation

import (
	"context"
	"strings"
	"testing"

	"github.com/yourusername/betpulse/internal/models"
)

func TestRunMonteCarloDeterministic(t *testing.T) {
	records := settledRecords()

	result, err := RunMonteCarlo(context.Background(), records, MonteCarloConfig{
		Iterations:      1000,
		Seed:            42,
		InitialBankroll: 100,
		StakeSize:       1,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	if result.Iterations != 1000 {
		t.Fatalf("expected 1000 iterations, got %d", result.Iterations)
	}
	if len(result.Distribution) != 1000 {
		t.Fatalf("expected distribution length 1000, got %d", len(result.Distribution))
	}

	// Same seed reproduces the same distribution
	again, err := RunMonteCarlo(context.Background(), records, MonteCarloConfig{
		Iterations:      1000,
		Seed:            42,
		InitialBankroll: 100,
		StakeSize:       1,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	if result.MeanReturn != again.MeanReturn {
		t.Fatalf("expected deterministic mean return: %.6f vs %.6f", result.MeanReturn, again.MeanReturn)
	}
}

func TestRunMonteCarloFavorableEdge(t *testing.T) {
	// High-probability picks at better-than-fair odds should profit on average
	records := make([]Record, 50)
	for i := range records {
		records[i] = Record{
			Sport:       "cs2",
			Probability: 0.70,
			Odds:        1.60,
			Result:      models.ResultWin,
		}
	}

	result, err := RunMonteCarlo(context.Background(), records, MonteCarloConfig{
		Iterations:      2000,
		Seed:            7,
		InitialBankroll: 100,
		StakeSize:       1,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	if result.MeanReturn <= 0 {
		t.Fatalf("expected positive mean return, got %.4f", result.MeanReturn)
	}
	if result.ProbabilityOfRuin > 0.01 {
		t.Fatalf("expected negligible ruin probability, got %.4f", result.ProbabilityOfRuin)
	}
}

func TestRunMonteCarloEmpty(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), nil, MonteCarloConfig{Iterations: 10})
	if err == nil {
		t.Fatal("expected error for empty record set")
	}
}

func TestGenerateConsoleReport(t *testing.T) {
	report := CalculatePerformance("cs2", settledRecords())
	sim, err := RunMonteCarlo(context.Background(), settledRecords(), MonteCarloConfig{
		Iterations: 100,
		Seed:       1,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}

	out := GenerateConsoleReport(report, &sim)
	if !strings.Contains(out, "Signal Performance: cs2") {
		t.Fatalf("missing header in report:\n%s", out)
	}
	if !strings.Contains(out, "Monte Carlo") {
		t.Fatalf("missing simulation section:\n%s", out)
	}
}
