package ml

import "math/rand"

// SyntheticDataset generates a deterministic fallback training set for
// sports with too little labeled history. Labels follow a linear score over
// rating gap, home advantage and form differential plus unit Gaussian noise.
func SyntheticDataset(samples int, seed int64) (X [][]float64, y []int) {
	rng := rand.New(rand.NewSource(seed))

	X = make([][]float64, samples)
	y = make([]int, samples)

	for i := 0; i < samples; i++ {
		ratingDiff := rng.NormFloat64() * 20
		home := float64(rng.Intn(2))
		tournament := float64(rng.Intn(4))
		stage := float64(rng.Intn(4))
		format := float64(1 + rng.Intn(3))
		form1 := 1 + rng.Float64()*4
		form2 := 1 + rng.Float64()*4
		h2h := rng.NormFloat64() * 0.5

		X[i] = []float64{ratingDiff, home, tournament, stage, format, form1, form2, h2h}

		score := 0.3*ratingDiff + 0.2*home + 0.3*(form1-form2) + rng.NormFloat64()
		if score > 0 {
			y[i] = 1
		}
	}

	return X, y
}
