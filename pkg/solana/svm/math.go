package svm

import "math"

// CheckedAdd returns a + b, or a StateError on overflow. Balances and
// counters never wrap silently.
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, NewStateError(ErrArithmeticOverflow)
	}
	return a + b, nil
}

// CheckedSub returns a - b, or a StateError on underflow.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, NewStateError(ErrArithmeticOverflow)
	}
	return a - b, nil
}

// CheckedMul returns a * b, or a StateError on overflow.
func CheckedMul(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, NewStateError(ErrArithmeticOverflow)
	}
	return a * b, nil
}
