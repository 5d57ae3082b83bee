// Package similarity computes pairwise cosine similarity over a TF-IDF space.
package similarity

import "textrec/internal/vectorspace"

// Matrix is a square, symmetric similarity matrix.
type Matrix [][]float64

// Len returns the number of rows.
func (m Matrix) Len() int { return len(m) }

// Row returns the similarity scores of row i against every row.
func (m Matrix) Row(i int) []float64 { return m[i] }

// Compute builds the N x N cosine similarity matrix of space. Rows are
// L2-normalized, so cosine similarity is the plain dot product. The diagonal is set
// explicitly: 1.0 for rows with terms, 0.0 for all-zero rows.
func Compute(space *vectorspace.Space) Matrix {
	n := space.Len()
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		if space.IsZero(i) {
			m[i][i] = 0
		} else {
			m[i][i] = 1
		}
		for j := i + 1; j < n; j++ {
			s := dot(space.Weights[i], space.Weights[j])
			m[i][j] = s
			m[j][i] = s
		}
	}
	return m
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
