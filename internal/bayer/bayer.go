// Package bayer generates ordered-dithering threshold matrices.
package bayer

import (
	"errors"
	"fmt"
	"math/bits"
)

var ErrInvalidDimension = errors.New("bayer: dimension must be a power of two >= 2")

// Matrix is a Dim x Dim threshold grid stored row-major. Values is a
// permutation of 0..Dim*Dim-1 and must not be modified after Generate.
type Matrix struct {
	Dim    int
	Values []int
}

// Generate builds the dim x dim Bayer matrix. For every cell the bits of y
// and x^y are interleaved, most significant first, into the result starting
// at its least significant bit.
func Generate(dim int) (Matrix, error) {
	if dim < 2 || dim&(dim-1) != 0 {
		return Matrix{}, fmt.Errorf("%w: got %d", ErrInvalidDimension, dim)
	}
	order := bits.TrailingZeros(uint(dim))

	m := Matrix{Dim: dim, Values: make([]int, dim*dim)}
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			xc, yc := x^y, y
			v, bit := 0, 0
			for k := order - 1; k >= 0; k-- {
				v |= (yc >> k & 1) << bit
				bit++
				v |= (xc >> k & 1) << bit
				bit++
			}
			m.Values[x+y*dim] = v
		}
	}
	return m, nil
}

// At returns the threshold at column x, row y, wrapping both coordinates.
func (m Matrix) At(x, y int) int {
	return m.Values[(x%m.Dim)+(y%m.Dim)*m.Dim]
}

// Flat returns the value at flattened index i modulo the matrix size.
func (m Matrix) Flat(i int) int {
	return m.Values[i%len(m.Values)]
}

// Len returns Dim*Dim.
func (m Matrix) Len() int {
	return len(m.Values)
}

// Max returns the largest threshold, Dim*Dim-1.
func (m Matrix) Max() int {
	return m.Len() - 1
}

// Offset is the bias subtracted from every threshold so adjustments are
// centred on the matrix midpoint: Dim*(Dim/2) - 0.5.
func (m Matrix) Offset() float64 {
	return float64(m.Dim*(m.Dim/2)) - 0.5
}
