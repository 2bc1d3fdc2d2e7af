package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/betpulse/internal/logger"
)

// TrainingReport summarizes a completed training run.
type TrainingReport struct {
	Sport           string             `json:"sport"`
	Samples         int                `json:"samples"`
	Synthetic       bool               `json:"synthetic"`
	HoldoutAccuracy map[string]float64 `json:"holdout_accuracy"`
	HoldoutAUC      map[string]float64 `json:"holdout_auc"`
	CVMeanAccuracy  map[string]float64 `json:"cv_mean_accuracy"`
	CVStdAccuracy   map[string]float64 `json:"cv_std_accuracy"`
	Duration        time.Duration      `json:"duration"`
	TrainedAt       time.Time          `json:"trained_at"`
}

// TrainerConfig carries the tunable parts of a training run.
type TrainerConfig struct {
	TestSplit  float64
	CVFolds    int
	MinSamples int
	Seed       int64
}

// Trainer fits the per-sport classifier set on labeled feature matrices.
type Trainer struct {
	cfg    TrainerConfig
	logger *logger.MLLogger
}

// NewTrainer creates a trainer with the given configuration.
func NewTrainer(cfg TrainerConfig, mlLogger *logger.MLLogger) *Trainer {
	if cfg.TestSplit <= 0 || cfg.TestSplit >= 1 {
		cfg.TestSplit = 0.2
	}
	if cfg.CVFolds < 2 {
		cfg.CVFolds = 5
	}
	return &Trainer{cfg: cfg, logger: mlLogger}
}

// Train fits a fresh scaler, logistic regression and random forest on the
// matrix and returns the ensemble with its training report.
func (t *Trainer) Train(sport string, X [][]float64, y []int, synthetic bool) (*Ensemble, *TrainingReport, error) {
	if len(X) < t.cfg.MinSamples {
		return nil, nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientSamples, len(X), t.cfg.MinSamples)
	}
	if len(X) != len(y) {
		return nil, nil, fmt.Errorf("%w: %d samples, %d labels", ErrInvalidTrainingData, len(X), len(y))
	}

	start := time.Now()

	trainIdx, testIdx := stratifiedSplit(y, t.cfg.TestSplit, t.cfg.Seed)

	scaler := NewScaler(len(FeatureNames))
	trainX := scaler.FitTransform(gather(X, trainIdx))
	trainY := gatherLabels(y, trainIdx)
	testX := transformAll(scaler, gather(X, testIdx))
	testY := gatherLabels(y, testIdx)

	version := time.Now().UTC().Format("20060102150405")
	classifiers := []Classifier{
		NewLogisticRegression(t.cfg.Seed),
		NewRandomForest(t.cfg.Seed),
	}

	report := &TrainingReport{
		Sport:           sport,
		Samples:         len(X),
		Synthetic:       synthetic,
		HoldoutAccuracy: map[string]float64{},
		HoldoutAUC:      map[string]float64{},
		CVMeanAccuracy:  map[string]float64{},
		CVStdAccuracy:   map[string]float64{},
		TrainedAt:       start.UTC(),
	}

	for _, model := range classifiers {
		if err := model.Fit(trainX, trainY); err != nil {
			ModelTrainingJobsTotal.WithLabelValues(model.Type(), "failure").Inc()
			return nil, nil, fmt.Errorf("failed to train %s: %w", model.Type(), err)
		}
		ModelTrainingJobsTotal.WithLabelValues(model.Type(), "success").Inc()

		report.HoldoutAccuracy[model.Type()] = accuracy(model, testX, testY)
		report.HoldoutAUC[model.Type()] = rocAUC(model, testX, testY)

		mean, std := t.crossValidate(model.Type(), X, y)
		report.CVMeanAccuracy[model.Type()] = mean
		report.CVStdAccuracy[model.Type()] = std
	}

	report.Duration = time.Since(start)

	if t.logger != nil {
		for _, model := range classifiers {
			t.logger.LogModelTraining(
				fmt.Sprintf("%s_%s", sport, model.Type()),
				report.Duration.Seconds(),
				map[string]float64{
					"holdout_accuracy": report.HoldoutAccuracy[model.Type()],
					"holdout_auc":      report.HoldoutAUC[model.Type()],
					"cv_mean_accuracy": report.CVMeanAccuracy[model.Type()],
				},
				map[string]interface{}{"samples": len(X), "synthetic": synthetic},
			)
		}
	}

	return NewEnsemble(sport, version, scaler, classifiers...), report, nil
}

// crossValidate runs k-fold CV for one model type on the full matrix.
func (t *Trainer) crossValidate(modelType string, X [][]float64, y []int) (mean, std float64) {
	folds := t.cfg.CVFolds
	if len(X) < folds*2 {
		return 0, 0
	}

	rng := rand.New(rand.NewSource(t.cfg.Seed))
	perm := rng.Perm(len(X))

	scores := make([]float64, 0, folds)
	foldSize := len(X) / folds

	for f := 0; f < folds; f++ {
		lo, hi := f*foldSize, (f+1)*foldSize
		if f == folds-1 {
			hi = len(X)
		}

		var trainIdx, testIdx []int
		for i, idx := range perm {
			if i >= lo && i < hi {
				testIdx = append(testIdx, idx)
			} else {
				trainIdx = append(trainIdx, idx)
			}
		}

		scaler := NewScaler(len(FeatureNames))
		trainX := scaler.FitTransform(gather(X, trainIdx))
		trainY := gatherLabels(y, trainIdx)

		var model Classifier
		if modelType == "random_forest" {
			model = NewRandomForest(t.cfg.Seed)
		} else {
			model = NewLogisticRegression(t.cfg.Seed)
		}
		if err := model.Fit(trainX, trainY); err != nil {
			continue
		}

		scores = append(scores, accuracy(model, transformAll(scaler, gather(X, testIdx)), gatherLabels(y, testIdx)))
	}

	return meanStd(scores)
}

// stratifiedSplit splits sample indices into train and test sets preserving
// the class balance, shuffled under the seed.
func stratifiedSplit(y []int, testSplit float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))

	var pos, neg []int
	for i, label := range y {
		if label == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	rng.Shuffle(len(pos), func(i, j int) { pos[i], pos[j] = pos[j], pos[i] })
	rng.Shuffle(len(neg), func(i, j int) { neg[i], neg[j] = neg[j], neg[i] })

	posTest := int(float64(len(pos)) * testSplit)
	negTest := int(float64(len(neg)) * testSplit)

	test = append(append([]int{}, pos[:posTest]...), neg[:negTest]...)
	train = append(append([]int{}, pos[posTest:]...), neg[negTest:]...)
	return train, test
}

func accuracy(model Classifier, X [][]float64, y []int) float64 {
	if len(X) == 0 {
		return 0
	}
	correct := 0
	for i, x := range X {
		probs := model.PredictProba(x)
		predicted := 0
		if probs[1] >= probs[0] {
			predicted = 1
		}
		if predicted == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X))
}

// rocAUC computes the area under the ROC curve by the rank-sum method.
func rocAUC(model Classifier, X [][]float64, y []int) float64 {
	type scored struct {
		score float64
		label int
	}
	items := make([]scored, len(X))
	positives := 0
	for i, x := range X {
		items[i] = scored{score: model.PredictProba(x)[1], label: y[i]}
		positives += y[i]
	}
	negatives := len(y) - positives
	if positives == 0 || negatives == 0 {
		return 0.5
	}

	sort.Slice(items, func(i, j int) bool { return items[i].score < items[j].score })

	rankSum := 0.0
	for rank, item := range items {
		if item.label == 1 {
			rankSum += float64(rank + 1)
		}
	}

	return (rankSum - float64(positives)*float64(positives+1)/2) / (float64(positives) * float64(negatives))
}

func gather(X [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = X[idx]
	}
	return out
}

func gatherLabels(y []int, indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}

func transformAll(scaler *Scaler, X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = scaler.Transform(row)
	}
	return out
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		std += (v - mean) * (v - mean)
	}
	std /= float64(len(values))
	return mean, math.Sqrt(std)
}
