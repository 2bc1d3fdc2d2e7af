// Package ml provides in-process model training and prediction.
package ml

import "errors"

var (
	// ErrModelNotTrained indicates prediction was requested before training
	ErrModelNotTrained = errors.New("model not trained")

	// ErrInvalidTrainingData indicates the training matrix is unusable
	ErrInvalidTrainingData = errors.New("invalid training data")

	// ErrInsufficientSamples indicates too few labeled samples to train
	ErrInsufficientSamples = errors.New("insufficient training samples")

	// ErrInvalidPrediction indicates the prediction output is invalid
	ErrInvalidPrediction = errors.New("invalid prediction result")

	// ErrModelNotFound indicates no persisted model exists for the sport
	ErrModelNotFound = errors.New("model not found")

	// ErrFeatureMismatch indicates the input does not match the trained columns
	ErrFeatureMismatch = errors.New("feature columns mismatch")
)
