package feature

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// TruncatedSVD reduces a wide feature matrix to at most target components by
// retaining the top singular directions. Fit learns the projection from one
// corpus snapshot; Transform projects later batches into the same space.
type TruncatedSVD struct {
	target     int
	components *mat.Dense // width x k projection learned at fit time
}

// NewTruncatedSVD creates a reducer targeting the given component count.
func NewTruncatedSVD(target int) *TruncatedSVD {
	return &TruncatedSVD{target: target}
}

// Fitted reports whether Fit has succeeded.
func (t *TruncatedSVD) Fitted() bool { return t.components != nil }

// Components returns the learned projection as a width x k row-major matrix,
// or nil before fitting.
func (t *TruncatedSVD) Components() [][]float64 {
	if t.components == nil {
		return nil
	}
	w, k := t.components.Dims()
	out := make([][]float64, w)
	for i := 0; i < w; i++ {
		out[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			out[i][j] = t.components.At(i, j)
		}
	}
	return out
}

// SetComponents restores a previously learned projection (used when loading
// persisted state).
func (t *TruncatedSVD) SetComponents(c [][]float64) {
	if len(c) == 0 || len(c[0]) == 0 {
		t.components = nil
		return
	}
	w, k := len(c), len(c[0])
	d := mat.NewDense(w, k, nil)
	for i := 0; i < w; i++ {
		for j := 0; j < k && j < len(c[i]); j++ {
			d.Set(i, j, c[i][j])
		}
	}
	t.components = d
}

// Fit learns the projection from the wide matrix x. The retained component
// count is min(target, width-1), further clamped by the rank bound
// min(rows, width) so tiny corpora stay valid.
func (t *TruncatedSVD) Fit(x [][]float64) error {
	rows := len(x)
	if rows == 0 || len(x[0]) == 0 {
		return errors.New("empty matrix")
	}
	width := len(x[0])

	k := t.target
	if k > width-1 {
		k = width - 1
	}
	if m := min(rows, width); k > m {
		k = m
	}
	if k < 1 {
		return errors.New("matrix too small for any components")
	}

	d := mat.NewDense(rows, width, nil)
	for i, row := range x {
		for j := 0; j < width && j < len(row); j++ {
			d.Set(i, j, row[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(d, mat.SVDThin); !ok {
		return errors.New("SVD factorization failed")
	}

	var v mat.Dense
	svd.VTo(&v)
	t.components = mat.DenseCopyOf(v.Slice(0, width, 0, k))
	return nil
}

// Transform projects x onto the fitted components, returning a rows x k
// matrix. Rows narrower than the fitted width are zero-padded; wider rows
// are truncated.
func (t *TruncatedSVD) Transform(x [][]float64) [][]float64 {
	if t.components == nil {
		return nil
	}
	w, k := t.components.Dims()

	out := make([][]float64, len(x))
	for i, row := range x {
		proj := make([]float64, k)
		n := len(row)
		if n > w {
			n = w
		}
		for j := 0; j < k; j++ {
			var sum float64
			for c := 0; c < n; c++ {
				sum += row[c] * t.components.At(c, j)
			}
			proj[j] = sum
		}
		out[i] = proj
	}
	return out
}
