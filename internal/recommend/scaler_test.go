package recommend

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitScalerMeanStd(t *testing.T) {
	matrix := [][]float64{
		{1, 10},
		{3, 10},
		{5, 10},
	}
	s := FitScaler(matrix, 2)

	if !almostEqual(s.Mean[0], 3) {
		t.Errorf("mean[0] = %v, want 3", s.Mean[0])
	}
	// population std of {1,3,5}
	want := math.Sqrt(8.0 / 3.0)
	if !almostEqual(s.Std[0], want) {
		t.Errorf("std[0] = %v, want %v", s.Std[0], want)
	}
	// constant column: std forced to 1 so Transform stays finite
	if !almostEqual(s.Std[1], 1) {
		t.Errorf("std[1] = %v, want 1", s.Std[1])
	}
}

func TestFitScalerEmpty(t *testing.T) {
	s := FitScaler(nil, 3)
	v := s.Transform([]float64{1, 2, 3})
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Fatalf("Transform on empty-fit scaler produced %v at %d", x, i)
		}
	}
}

func TestTransformCentersAndScales(t *testing.T) {
	matrix := [][]float64{
		{0, 0},
		{2, 4},
	}
	s := FitScaler(matrix, 2)
	got := s.Transform([]float64{2, 4})
	for i, x := range got {
		if !almostEqual(x, 1) {
			t.Errorf("Transform[%d] = %v, want 1", i, x)
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
