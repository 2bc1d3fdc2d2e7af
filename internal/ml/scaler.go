package ml

import "math"

// Scaler performs z-score normalization fitted on training data.
type Scaler struct {
	Means   []float64 `json:"means"`
	Stddevs []float64 `json:"stddevs"`
	Fitted  bool      `json:"fitted"`
}

// NewScaler creates a scaler for the given feature count.
func NewScaler(numFeatures int) *Scaler {
	return &Scaler{
		Means:   make([]float64, numFeatures),
		Stddevs: make([]float64, numFeatures),
	}
}

// Fit calculates per-column mean and standard deviation from training data.
func (s *Scaler) Fit(data [][]float64) {
	if len(data) == 0 {
		return
	}

	numFeatures := len(data[0])
	if len(s.Means) != numFeatures {
		s.Means = make([]float64, numFeatures)
		s.Stddevs = make([]float64, numFeatures)
	}

	for i := 0; i < numFeatures; i++ {
		sum := 0.0
		for _, row := range data {
			sum += row[i]
		}
		s.Means[i] = sum / float64(len(data))
	}

	for i := 0; i < numFeatures; i++ {
		sumSq := 0.0
		for _, row := range data {
			diff := row[i] - s.Means[i]
			sumSq += diff * diff
		}
		s.Stddevs[i] = math.Sqrt(sumSq / float64(len(data)))

		// Constant columns would divide by zero
		if s.Stddevs[i] <= 1e-10 {
			s.Stddevs[i] = 1.0
		}
	}

	s.Fitted = true
}

// Transform normalizes a single feature vector. Unfitted scalers pass the
// vector through unchanged.
func (s *Scaler) Transform(features []float64) []float64 {
	if !s.Fitted || len(features) != len(s.Means) {
		return features
	}

	normalized := make([]float64, len(features))
	for i, f := range features {
		normalized[i] = (f - s.Means[i]) / s.Stddevs[i]
	}
	return normalized
}

// FitTransform fits the scaler and transforms the data in one step.
func (s *Scaler) FitTransform(data [][]float64) [][]float64 {
	s.Fit(data)

	normalized := make([][]float64, len(data))
	for i, row := range data {
		normalized[i] = s.Transform(row)
	}
	return normalized
}
