package feature

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestFitZScore(t *testing.T) {
	names := []string{"type", "city"}
	data := mat.NewDense(4, 2, []float64{
		1, 7,
		2, 7,
		3, 7,
		4, 7,
	})

	n, err := FitZScore(names, data)
	if err != nil {
		t.Fatalf("FitZScore() error = %v", err)
	}
	if n.Mean["type"] != 2.5 {
		t.Errorf("Mean[type] = %v, want 2.5", n.Mean["type"])
	}
	// 总体标准差 sqrt(1.25)
	if math.Abs(n.Std["type"]-math.Sqrt(1.25)) > 1e-12 {
		t.Errorf("Std[type] = %v, want %v", n.Std["type"], math.Sqrt(1.25))
	}
	if n.Std["city"] != 0 {
		t.Errorf("Std[city] = %v, want 0", n.Std["city"])
	}

	z, err := n.Transform(names, data)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	var sum, sq float64
	for i := 0; i < 4; i++ {
		v := z.At(i, 0)
		sum += v
		sq += v * v
		if z.At(i, 1) != 0 {
			t.Errorf("constant column row %d = %v, want 0", i, z.At(i, 1))
		}
	}
	if math.Abs(sum) > 1e-12 {
		t.Errorf("standardized mean = %v, want 0", sum/4)
	}
	if math.Abs(sq/4-1) > 1e-12 {
		t.Errorf("standardized variance = %v, want 1", sq/4)
	}
	if data.At(0, 0) != 1 {
		t.Error("Transform() modified its input")
	}
}

func TestFitZScore_NameMismatch(t *testing.T) {
	if _, err := FitZScore([]string{"a"}, mat.NewDense(1, 2, nil)); err == nil {
		t.Error("FitZScore() error = nil, want column count mismatch")
	}
}

func TestMinMaxNormalizer(t *testing.T) {
	n := NewMinMaxNormalizer(map[string]float64{"a": 0, "b": 3}, map[string]float64{"a": 10, "b": 3})
	got := n.Normalize(map[string]float64{"a": 5, "b": 3})
	if got["a"] != 0.5 || got["b"] != 0 {
		t.Errorf("Normalize() = %v, want a=0.5 b=0", got)
	}
}

func TestFitMinMax(t *testing.T) {
	data := mat.NewDense(3, 2, []float64{
		1, 10,
		3, 10,
		2, 10,
	})
	names := []string{"type", "country"}
	n, err := FitMinMax(names, data)
	if err != nil {
		t.Fatalf("FitMinMax() error = %v", err)
	}
	got, err := n.Transform(names, data)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	want := mat.NewDense(3, 2, []float64{0, 0, 1, 0, 0.5, 0})
	if !mat.EqualApprox(got, want, 1e-12) {
		t.Errorf("Transform() = %v, want %v", mat.Formatted(got), mat.Formatted(want))
	}
	if _, err := FitMinMax([]string{"a"}, data); err == nil {
		t.Error("FitMinMax() error = nil, want column count mismatch")
	}
}
