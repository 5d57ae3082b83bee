package similarity

import (
	"math"
	"testing"

	"textrec/internal/vectorspace"
)

func TestComputeSymmetricWithUnitDiagonal(t *testing.T) {
	space := vectorspace.Build([]string{
		"apple banana fruit",
		"banana smoothie recipe",
		"car engine repair",
		"",
		"banana banana apple",
	})
	m := Compute(space)
	if m.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", m.Len())
	}
	for i := 0; i < m.Len(); i++ {
		for j := 0; j < m.Len(); j++ {
			if math.Abs(m[i][j]-m[j][i]) > 1e-12 {
				t.Errorf("m[%d][%d] = %f != m[%d][%d] = %f", i, j, m[i][j], j, i, m[j][i])
			}
			if math.IsNaN(m[i][j]) {
				t.Errorf("m[%d][%d] is NaN", i, j)
			}
		}
	}
	for _, i := range []int{0, 1, 2, 4} {
		if math.Abs(m[i][i]-1) > 1e-9 {
			t.Errorf("m[%d][%d] = %f, want 1", i, i, m[i][i])
		}
	}
	if m[3][3] != 0 {
		t.Errorf("diagonal of empty row = %f, want 0", m[3][3])
	}
	if m[0][1] <= 0 {
		t.Errorf("shared term similarity = %f, want > 0", m[0][1])
	}
	if m[0][2] != 0 {
		t.Errorf("disjoint similarity = %f, want 0", m[0][2])
	}
}

func TestComputeEmptyVocabulary(t *testing.T) {
	m := Compute(vectorspace.Build([]string{"", "the"}))
	for i := range m {
		for j := range m[i] {
			if m[i][j] != 0 {
				t.Errorf("m[%d][%d] = %f, want 0", i, j, m[i][j])
			}
		}
	}
}

func TestDot(t *testing.T) {
	if got := dot([]float64{1, 2, 3}, []float64{4, 5}); got != 14 {
		t.Errorf("dot() = %f, want 14", got)
	}
}
