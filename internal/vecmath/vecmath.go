// Package vecmath provides the small set of dense vector operations used by
// the feature builder, profile builder, and vector index.
package vecmath

import "math"

// Dot returns the inner product of a and b. Unequal lengths are treated as
// if the shorter vector were zero-padded.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize scales v to unit L2 norm in place. A zero vector is left unchanged.
func Normalize(v []float32) {
	n := Norm(v)
	if n == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
}

// CosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector has zero norm.
func CosineSimilarity(a, b []float32) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Resize truncates or zero-pads v to length dim and returns the result.
// The returned slice never aliases v unless len(v) == dim.
func Resize(v []float32, dim int) []float32 {
	if len(v) == dim {
		return v
	}
	out := make([]float32, dim)
	copy(out, v)
	return out
}

// DotF64 returns the inner product of two float64 vectors, zero-padding the
// shorter one.
func DotF64(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// NormF64 returns the L2 norm of v.
func NormF64(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// NormalizeF64 scales v to unit L2 norm in place. A zero vector is left unchanged.
func NormalizeF64(v []float64) {
	n := NormF64(v)
	if n == 0 {
		return
	}
	for i := range v {
		v[i] /= n
	}
}

// CosineSimilarityF64 returns the cosine similarity of two float64 vectors,
// or 0 when either has zero norm.
func CosineSimilarityF64(a, b []float64) float64 {
	na, nb := NormF64(a), NormF64(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return DotF64(a, b) / (na * nb)
}

// Sanitize replaces every NaN or Inf entry of v with zero, in place.
func Sanitize(v []float64) {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			v[i] = 0
		}
	}
}
