package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/betpulse/internal/models"
)

// modelFile is the on-disk JSON layout for a single trained classifier.
// The scaler and feature columns are embedded so each file is self-contained.
type modelFile struct {
	Sport     string          `json:"sport"`
	ModelType string          `json:"model_type"`
	Version   string          `json:"version"`
	Features  []string        `json:"features"`
	Trained   bool            `json:"trained"`
	TrainedAt time.Time       `json:"trained_at"`
	Scaler    *Scaler         `json:"scaler"`
	Logistic  json.RawMessage `json:"logistic,omitempty"`
	Forest    json.RawMessage `json:"forest,omitempty"`
}

// ModelPath returns the on-disk path for a sport's classifier weights.
func ModelPath(modelsDir, sport, modelType string) string {
	return filepath.Join(modelsDir, fmt.Sprintf("%s_%s.json", sport, modelType))
}

// SaveEnsemble writes every classifier of the ensemble to the models
// directory, one JSON file per model type.
func SaveEnsemble(modelsDir string, ensemble *Ensemble, trainedAt time.Time) error {
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create models dir: %w", err)
	}

	for _, model := range ensemble.Models {
		file := modelFile{
			Sport:     ensemble.Sport,
			ModelType: model.Type(),
			Version:   ensemble.Version,
			Features:  ensemble.Features,
			Trained:   true,
			TrainedAt: trainedAt,
			Scaler:    ensemble.Scaler,
		}

		weights, err := json.Marshal(model)
		if err != nil {
			return fmt.Errorf("failed to marshal %s weights: %w", model.Type(), err)
		}
		switch model.(type) {
		case *LogisticRegression:
			file.Logistic = weights
		case *RandomForest:
			file.Forest = weights
		default:
			return fmt.Errorf("%w: unknown model type %s", ErrInvalidPrediction, model.Type())
		}

		data, err := json.Marshal(file)
		if err != nil {
			return fmt.Errorf("failed to marshal model file: %w", err)
		}

		path := ModelPath(modelsDir, ensemble.Sport, model.Type())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write model file: %w", err)
		}
	}

	return nil
}

// LoadEnsemble reads the persisted classifiers for a sport and rebuilds the
// ensemble. Returns ErrModelNotFound when no weights exist on disk.
func LoadEnsemble(modelsDir, sport string) (*Ensemble, error) {
	types := []string{models.ModelTypeLogistic, models.ModelTypeForest}

	ensemble := &Ensemble{Sport: sport}
	for _, modelType := range types {
		path := ModelPath(modelsDir, sport, modelType)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
			}
			return nil, fmt.Errorf("failed to read model file: %w", err)
		}

		var file modelFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse model file %s: %w", path, err)
		}
		if !file.Trained {
			return nil, fmt.Errorf("%w: %s is not marked trained", ErrModelNotTrained, path)
		}
		if len(file.Features) != len(FeatureNames) {
			return nil, fmt.Errorf("%w: %s has %d columns, want %d", ErrFeatureMismatch, path, len(file.Features), len(FeatureNames))
		}

		switch modelType {
		case models.ModelTypeLogistic:
			var lr LogisticRegression
			if err := json.Unmarshal(file.Logistic, &lr); err != nil {
				return nil, fmt.Errorf("failed to parse logistic weights: %w", err)
			}
			ensemble.Models = append(ensemble.Models, &lr)
		case models.ModelTypeForest:
			var rf RandomForest
			if err := json.Unmarshal(file.Forest, &rf); err != nil {
				return nil, fmt.Errorf("failed to parse forest weights: %w", err)
			}
			ensemble.Models = append(ensemble.Models, &rf)
		}

		// Every file embeds the same scaler and column order
		ensemble.Version = file.Version
		ensemble.Features = file.Features
		ensemble.Scaler = file.Scaler
	}

	return ensemble, nil
}

// CatalogRow builds the models-table row for a persisted classifier.
func CatalogRow(ensemble *Ensemble, modelType, path string, metrics *TrainingReport, trainedAt time.Time) (*models.Model, error) {
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal training metrics: %w", err)
	}

	hyperparameters := map[string]interface{}{}
	switch modelType {
	case models.ModelTypeLogistic:
		hyperparameters["epochs"] = logisticEpochs
		hyperparameters["learning_rate"] = logisticLearningRate
		hyperparameters["class_weight"] = "balanced"
	case models.ModelTypeForest:
		hyperparameters["n_estimators"] = forestTrees
		hyperparameters["max_depth"] = forestMaxDepth
		hyperparameters["min_samples_split"] = forestMinSamplesSplit
		hyperparameters["min_samples_leaf"] = forestMinSamplesLeaf
	}
	hyperparametersJSON, err := json.Marshal(hyperparameters)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hyperparameters: %w", err)
	}

	now := time.Now().UTC()
	return &models.Model{
		ID:              uuid.New(),
		Name:            fmt.Sprintf("%s_%s", ensemble.Sport, modelType),
		Sport:           ensemble.Sport,
		Version:         ensemble.Version,
		ModelType:       modelType,
		Path:            path,
		Metrics:         metricsJSON,
		Hyperparameters: hyperparametersJSON,
		TrainedAt:       trainedAt,
		Active:          false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
