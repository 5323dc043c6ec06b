// SPDX-License-Identifier: MIT

package linsys

import "math"

// OrderLimit is the widest tolerated base-10 spread within a single row
// (coefficients and RHS together). Rows spreading further make the oracle's
// absolute tolerances meaningless and should be rejected before solving.
const OrderLimit = 6.0

// OrderRanges returns, per row of a|b, the spread in decades between the
// largest and smallest non-zero magnitude. All-zero rows report 0.
func OrderRanges(a *Dense, b []float64) []float64 {
	out := make([]float64, a.Rows())
	for i := 0; i < a.Rows(); i++ {
		out[i] = rowOrderRange(a.Row(i), b[i])
	}

	return out
}

// VectorOrderRange is the single-row variant used for the objective, which
// carries no right-hand side.
func VectorOrderRange(v []float64) float64 {
	return orderRange(v)
}

// RowScales returns the per-row power-of-ten rescale factor
// 10^(-floor(log10 max|row|)) over a|b. All-zero rows scale by 0, leaving
// them zero — the oracle side compacts them away.
func RowScales(a *Dense, b []float64) []float64 {
	out := make([]float64, a.Rows())
	for i := 0; i < a.Rows(); i++ {
		out[i] = scaleOf(rowMax(a.Row(i), b[i]))
	}

	return out
}

// VectorScale is the single-row variant of RowScales for the objective.
func VectorScale(v []float64) float64 {
	return scaleOf(rowMax(v, 0))
}

// ScaleRows returns copies of a and b with row i multiplied by scales[i].
// The transform is purely row-wise: the variable space is untouched.
func ScaleRows(a *Dense, b []float64, scales []float64) (*Dense, []float64) {
	sa := a.Clone()
	sb := make([]float64, len(b))
	for i := 0; i < sa.Rows(); i++ {
		row := sa.Row(i)
		for j := range row {
			row[j] *= scales[i]
		}
		sb[i] = b[i] * scales[i]
	}

	return sa, sb
}

// ScaleVector returns a copy of v scaled by k.
func ScaleVector(v []float64, k float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * k
	}

	return out
}

// Unscale divides each entry of v by the matching scale, mapping entries
// whose scale is 0 to 0 — the inverse of ScaleRows for residual vectors.
func Unscale(v, scales []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if scales[i] != 0 {
			out[i] = x / scales[i]
		}
	}

	return out
}

func rowOrderRange(row []float64, rhs float64) float64 {
	vals := append(append([]float64(nil), row...), rhs)

	return orderRange(vals)
}

func orderRange(vals []float64) float64 {
	minMag, maxMag := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if v == 0 {
			continue
		}
		mag := math.Log10(math.Abs(v))
		minMag = math.Min(minMag, mag)
		maxMag = math.Max(maxMag, mag)
	}
	if math.IsInf(minMag, 1) {
		return 0
	}

	return maxMag - minMag
}

func rowMax(row []float64, rhs float64) float64 {
	maxAbs := math.Abs(rhs)
	for _, v := range row {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	return maxAbs
}

func scaleOf(maxAbs float64) float64 {
	if maxAbs == 0 {
		return 0
	}

	return math.Pow(10, -math.Floor(math.Log10(maxAbs)))
}
