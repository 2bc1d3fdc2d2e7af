// Package logger provides ML-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for ML operations.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: baseLogger.WithField("component", "ml"),
	}
}

// LogMLPredictionRequest logs an ML prediction request.
func (ml *MLLogger) LogMLPredictionRequest(sport, modelType string, featuresCount int, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"sport":          sport,
		"model_type":     modelType,
		"features_count": featuresCount,
		"cache_hit":      cacheHit,
		"latency_ms":     latencyMs,
	}).Info("ML prediction request completed")
}

// LogEnsembleResult logs the combined output of the model ensemble.
func (ml *MLLogger) LogEnsembleResult(sport, label string, confidence float64, modelsUsed int) {
	ml.WithFields(logrus.Fields{
		"sport":       sport,
		"label":       label,
		"confidence":  confidence,
		"models_used": modelsUsed,
	}).Info("Ensemble prediction completed")
}

// LogModelTraining logs model training events.
func (ml *MLLogger) LogModelTraining(modelName string, trainingDuration float64, metrics map[string]float64, hyperparameters map[string]interface{}) {
	ml.WithFields(logrus.Fields{
		"model_name":        modelName,
		"training_duration": trainingDuration,
		"metrics":           metrics,
		"hyperparameters":   hyperparameters,
	}).Info("Model training completed")
}

// LogTrainingDataFallback logs a fall back to synthetic training data.
func (ml *MLLogger) LogTrainingDataFallback(sport string, haveSamples, syntheticSamples int) {
	ml.WithFields(logrus.Fields{
		"sport":             sport,
		"have_samples":      haveSamples,
		"synthetic_samples": syntheticSamples,
	}).Warn("Insufficient training data, generating synthetic samples")
}

// LogModelPromotion logs activation of a freshly trained model.
func (ml *MLLogger) LogModelPromotion(sport, modelType, version string, accuracy float64) {
	ml.WithFields(logrus.Fields{
		"sport":      sport,
		"model_type": modelType,
		"version":    version,
		"accuracy":   accuracy,
	}).Info("Model promoted to active")
}

// LogMLPredictionError logs ML prediction errors.
func (ml *MLLogger) LogMLPredictionError(modelType string, errorReason string) {
	ml.WithFields(logrus.Fields{
		"model_type":   modelType,
		"error_reason": errorReason,
	}).Error("ML prediction failed")
}
