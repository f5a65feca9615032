// SPDX-License-Identifier: MIT

package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const opCondition = "ConditionEstimate"

// ConditionEstimate returns gonum's 1-norm condition number estimate of m,
// computed from an independent LU factorization. +Inf means numerically
// singular. Diagnostic only: solvers never branch on it.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, At errors.
//
// Complexity: O(n³).
func ConditionEstimate(m Reader) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opCondition, err)
	}
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opCondition, err)
	}
	data, err := flatten(m)
	if err != nil {
		return 0, matrixErrorf(opCondition, err)
	}

	var lu mat.LU
	lu.Factorize(mat.NewDense(m.Rows(), m.Cols(), data))
	cond := lu.Cond()
	if math.IsNaN(cond) {
		return math.Inf(1), nil
	}

	return cond, nil
}
