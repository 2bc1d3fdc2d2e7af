package ml

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	logisticEpochs       = 1000
	logisticLearningRate = 0.1
)

// LogisticRegression is a binary classifier trained by gradient descent on
// log-loss with balanced class weights.
type LogisticRegression struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Trained bool      `json:"trained"`
	Seed    int64     `json:"seed"`
}

// NewLogisticRegression creates an untrained logistic regression model.
func NewLogisticRegression(seed int64) *LogisticRegression {
	return &LogisticRegression{Seed: seed}
}

// Type returns the catalog model type.
func (lr *LogisticRegression) Type() string {
	return "logistic_regression"
}

// Fit trains the model on a feature matrix and binary labels.
func (lr *LogisticRegression) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("%w: %d samples, %d labels", ErrInvalidTrainingData, len(X), len(y))
	}

	numFeatures := len(X[0])
	rng := rand.New(rand.NewSource(lr.Seed))

	lr.Weights = make([]float64, numFeatures)
	for i := range lr.Weights {
		lr.Weights[i] = rng.NormFloat64() * 0.01
	}
	lr.Bias = 0

	// Balanced class weights, mirroring class_weight="balanced"
	positives := 0
	for _, label := range y {
		if label == 1 {
			positives++
		}
	}
	negatives := len(y) - positives
	if positives == 0 || negatives == 0 {
		return fmt.Errorf("%w: training set contains a single class", ErrInvalidTrainingData)
	}
	posWeight := float64(len(y)) / (2 * float64(positives))
	negWeight := float64(len(y)) / (2 * float64(negatives))

	n := float64(len(y))
	order := rng.Perm(len(y))

	for epoch := 0; epoch < logisticEpochs; epoch++ {
		gradW := make([]float64, numFeatures)
		gradB := 0.0

		for _, idx := range order {
			p := sigmoid(dot(lr.Weights, X[idx]) + lr.Bias)
			weight := negWeight
			if y[idx] == 1 {
				weight = posWeight
			}
			// gradient of weighted log-loss: w*(p-y)*x
			residual := weight * (p - float64(y[idx]))
			for k, xv := range X[idx] {
				gradW[k] += residual * xv
			}
			gradB += residual
		}

		for k := range lr.Weights {
			lr.Weights[k] -= logisticLearningRate * gradW[k] / n
		}
		lr.Bias -= logisticLearningRate * gradB / n
	}

	lr.Trained = true
	return nil
}

// PredictProba returns the class-probability vector [P(team2), P(team1)].
func (lr *LogisticRegression) PredictProba(x []float64) []float64 {
	p := sigmoid(dot(lr.Weights, x) + lr.Bias)
	return []float64{1 - p, p}
}

func sigmoid(z float64) float64 {
	// Clamp to keep exp from overflowing
	if z > 20 {
		return 1
	}
	if z < -20 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
