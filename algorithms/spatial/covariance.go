package spatial

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"
)

// EstimateCovariance returns the biased spatial covariance of a
// channels x frames matrix:
//
//	R = (1/T) * sum_t x_t x_t^H
//
// Only the upper triangle is accumulated; the lower triangle is its
// conjugate mirror and the diagonal is real, so R is exactly Hermitian.
// With center set, each channel's mean over frames is removed first.
func EstimateCovariance(x *mat.CDense, center bool) *mat.CDense {
	nch, frames := x.Dims()
	raw := x.RawCMatrix()

	rows := make([][]complex128, nch)
	for i := range rows {
		rows[i] = raw.Data[i*raw.Stride : i*raw.Stride+frames]
	}

	if center {
		mean := complex(1/float64(frames), 0)
		for i, row := range rows {
			centered := make([]complex128, frames)
			copy(centered, row)
			cmplxs.AddConst(-cmplxs.Sum(centered)*mean, centered)
			rows[i] = centered
		}
	}

	r := mat.NewCDense(nch, nch, nil)
	inv := 1 / float64(frames)

	for i := 0; i < nch; i++ {
		for j := i; j < nch; j++ {
			var sum complex128
			xi, xj := rows[i], rows[j]
			for t := range frames {
				sum += xi[t] * cmplx.Conj(xj[t])
			}
			sum *= complex(inv, 0)

			if i == j {
				r.Set(i, i, complex(real(sum), 0))
				continue
			}
			r.Set(i, j, sum)
			r.Set(j, i, cmplx.Conj(sum))
		}
	}

	return r
}

// QuadraticForm returns a^H R a.
func QuadraticForm(r mat.CMatrix, a []complex128) complex128 {
	n, _ := r.Dims()

	var sum complex128
	for i := 0; i < n; i++ {
		var row complex128
		for j := 0; j < n; j++ {
			row += r.At(i, j) * a[j]
		}
		sum += cmplx.Conj(a[i]) * row
	}
	return sum
}

// IsHermitian reports whether r equals its conjugate transpose within
// tol relative to the largest entry magnitude. The zero matrix is
// Hermitian.
func IsHermitian(r mat.CMatrix, tol float64) bool {
	rows, cols := r.Dims()
	if rows != cols {
		return false
	}

	scale := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			scale = math.Max(scale, cmplx.Abs(r.At(i, j)))
		}
	}
	if scale == 0 {
		return true
	}
	limit := tol * scale

	for i := 0; i < rows; i++ {
		for j := i; j < cols; j++ {
			if cmplx.Abs(r.At(i, j)-cmplx.Conj(r.At(j, i))) > limit {
				return false
			}
		}
	}
	return true
}
