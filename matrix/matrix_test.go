package matrix

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/dataset"
)

func row(user, attraction string, r float64, typ, city, country int) dataset.Interaction {
	return dataset.Interaction{UserID: user, AttractionID: attraction, Rating: r, AttractionTypeID: typ, CityID: city, CountryID: country}
}

func mustStore(t *testing.T, rows ...dataset.Interaction) *dataset.Store {
	t.Helper()
	s, err := dataset.New(rows)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBuildRatingMatrix(t *testing.T) {
	s := mustStore(t,
		row("u2", "b", 4, 1, 1, 1),
		row("u1", "a", 5, 1, 1, 1),
		row("u1", "a", 2, 1, 1, 1),
		row("u2", "c", 0, 1, 1, 1),
	)
	m := BuildRatingMatrix(s)

	if r, c := m.Dims(); r != 2 || c != 3 {
		t.Fatalf("Dims = %d×%d, want 2×3", r, c)
	}
	if !reflect.DeepEqual(m.Users(), []string{"u1", "u2"}) || !reflect.DeepEqual(m.Attractions(), []string{"a", "b", "c"}) {
		t.Fatalf("users=%v attractions=%v", m.Users(), m.Attractions())
	}

	u1, _ := m.UserIndex("u1")
	u2, _ := m.UserIndex("u2")
	a, _ := m.AttractionIndex("a")
	c, _ := m.AttractionIndex("c")
	if got := m.At(u1, a); got != 3.5 {
		t.Errorf("duplicate mean = %v, want 3.5", got)
	}
	if !m.Rated(u2, c) || m.At(u2, c) != 0 {
		t.Error("explicit zero rating should be marked rated")
	}
	if m.Rated(u1, c) {
		t.Error("u1 has not rated c")
	}
	if got := m.RatedBy(u2); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("RatedBy(u2) = %v", got)
	}
	if _, ok := m.UserIndex("nobody"); ok {
		t.Error("unknown user found")
	}
}

func TestBuildFeatureTable(t *testing.T) {
	s := mustStore(t,
		row("u1", "y", 5, 2, 20, 1),
		row("u1", "x", 5, 1, 10, 1),
		row("u2", "x", 3, 9, 99, 9),
	)
	ft := BuildFeatureTable(s)
	if !reflect.DeepEqual(ft.Attractions(), []string{"x", "y"}) {
		t.Fatalf("Attractions = %v", ft.Attractions())
	}
	i, _ := ft.Index("x")
	if got := mat.Row(nil, i, ft.Raw()); !reflect.DeepEqual(got, []float64{1, 10, 1}) {
		t.Errorf("x features = %v, want first occurrence", got)
	}

	z, err := ft.Standardized()
	if err != nil {
		t.Fatal(err)
	}
	// 两行时 z-score 为 ±1，常数列为 0
	want := mat.NewDense(2, 3, []float64{-1, -1, 0, 1, 1, 0})
	if !mat.EqualApprox(z, want, 1e-12) {
		t.Errorf("Standardized = %v", mat.Formatted(z))
	}
	for j := 0; j < 3; j++ {
		col := mat.Col(nil, j, z)
		if mean := (col[0] + col[1]) / 2; math.Abs(mean) > 1e-12 {
			t.Errorf("column %d mean = %v", j, mean)
		}
	}
}

func TestFeatureTableScaled(t *testing.T) {
	ft := BuildFeatureTable(mustStore(t,
		row("u1", "x", 5, 1, 10, 1),
		row("u1", "y", 4, 2, 20, 1),
	))

	z, err := ft.Scaled("")
	if err != nil {
		t.Fatal(err)
	}
	std, _ := ft.Standardized()
	if !mat.Equal(z, std) {
		t.Errorf("Scaled(\"\") = %v, want z-score", mat.Formatted(z))
	}

	mm, err := ft.Scaled("minmax")
	if err != nil {
		t.Fatal(err)
	}
	want := mat.NewDense(2, 3, []float64{0, 0, 0, 1, 1, 0})
	if !mat.EqualApprox(mm, want, 1e-12) {
		t.Errorf("Scaled(minmax) = %v", mat.Formatted(mm))
	}

	if _, err := ft.Scaled("robust"); !core.IsInvalidInput(err) {
		t.Errorf("Scaled(robust) error = %v, want INVALID_INPUT", err)
	}
}
