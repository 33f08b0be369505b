// Package recommend scores dataset foods against nutritional targets using
// standard-score normalization, cosine similarity, and goal-dependent re-weighting.
package recommend

import "math"

// StandardScaler rescales features to zero mean and unit variance using
// column statistics fitted once from the dataset matrix.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes column-wise mean and standard deviation for the matrix.
// Columns with zero variance get std 1 so transforming them is a no-op shift.
func FitScaler(matrix [][]float64, cols int) *StandardScaler {
	s := &StandardScaler{
		Mean: make([]float64, cols),
		Std:  make([]float64, cols),
	}
	n := float64(len(matrix))
	if n == 0 {
		for j := range s.Std {
			s.Std[j] = 1
		}
		return s
	}
	for _, row := range matrix {
		for j := 0; j < cols; j++ {
			s.Mean[j] += row[j]
		}
	}
	for j := 0; j < cols; j++ {
		s.Mean[j] /= n
	}
	for _, row := range matrix {
		for j := 0; j < cols; j++ {
			d := row[j] - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := 0; j < cols; j++ {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return s
}

// Transform returns the standard score of each element of vec.
func (s *StandardScaler) Transform(vec []float64) []float64 {
	out := make([]float64, len(vec))
	for j, v := range vec {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

// CosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
