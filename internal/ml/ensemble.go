package ml

import (
	"fmt"
	"math"

	"github.com/yourusername/betpulse/internal/models"
)

// Classifier is a binary classifier over the canonical feature vector.
// Class 1 is a team1 win, class 0 a team2 win.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	PredictProba(x []float64) []float64
	Type() string
}

// PredictionResult is the output of an ensemble prediction.
type PredictionResult struct {
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
	Confidence    float64            `json:"confidence"`
	ValueScore    float64            `json:"value_score"`
	ModelVersion  string             `json:"model_version"`
	ModelsUsed    int                `json:"models_used"`
	Fallback      bool               `json:"fallback"`
}

// Ensemble combines the per-sport classifiers behind a shared scaler.
type Ensemble struct {
	Sport    string
	Version  string
	Features []string
	Scaler   *Scaler
	Models   []Classifier
}

// NewEnsemble creates an ensemble over the given trained classifiers.
func NewEnsemble(sport, version string, scaler *Scaler, models ...Classifier) *Ensemble {
	return &Ensemble{
		Sport:    sport,
		Version:  version,
		Features: append([]string(nil), FeatureNames...),
		Scaler:   scaler,
		Models:   models,
	}
}

// Predict averages the class-probability vectors of every model and picks
// the label by argmax of the averaged vector. Confidence is the averaged
// vector's maximum; value score is confidence times the label probability.
func (e *Ensemble) Predict(features map[string]float64) (*PredictionResult, error) {
	if len(e.Models) == 0 {
		return nil, ErrModelNotTrained
	}

	vec := make([]float64, len(e.Features))
	for i, name := range e.Features {
		vec[i] = features[name]
	}
	scaled := e.Scaler.Transform(vec)

	avg := make([]float64, 2)
	for _, model := range e.Models {
		probs := model.PredictProba(scaled)
		if len(probs) != 2 {
			return nil, fmt.Errorf("%w: model %s returned %d classes", ErrInvalidPrediction, model.Type(), len(probs))
		}
		avg[0] += probs[0]
		avg[1] += probs[1]
	}
	avg[0] /= float64(len(e.Models))
	avg[1] /= float64(len(e.Models))

	label := models.OutcomeTeam2
	if avg[1] >= avg[0] {
		label = models.OutcomeTeam1
	}
	confidence := math.Max(avg[0], avg[1])

	return &PredictionResult{
		Label: label,
		Probabilities: map[string]float64{
			models.OutcomeTeam1: avg[1],
			models.OutcomeTeam2: avg[0],
		},
		Confidence:   confidence,
		ValueScore:   confidence * confidence,
		ModelVersion: e.Version,
		ModelsUsed:   len(e.Models),
	}, nil
}

// FallbackPredict estimates the outcome from the rating gap alone, for
// sports without a trained model. Uses the ELO expectation curve.
func FallbackPredict(features map[string]float64) *PredictionResult {
	ratingDiff := features["rating_diff"]
	p1 := 1 / (1 + math.Pow(10, -ratingDiff/400))

	label := models.OutcomeTeam2
	confidence := 1 - p1
	if p1 >= 0.5 {
		label = models.OutcomeTeam1
		confidence = p1
	}

	return &PredictionResult{
		Label: label,
		Probabilities: map[string]float64{
			models.OutcomeTeam1: p1,
			models.OutcomeTeam2: 1 - p1,
		},
		Confidence:   confidence,
		ValueScore:   confidence * confidence,
		ModelVersion: "fallback",
		Fallback:     true,
	}
}
