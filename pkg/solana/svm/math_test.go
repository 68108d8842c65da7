package svm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckedAdd(t *testing.T) {
	sum, err := CheckedAdd(1, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), sum)

	_, err = CheckedAdd(math.MaxUint64, 1)
	assert.True(t, errors.Is(err, ErrArithmeticOverflow))

	var stateErr *StateError
	assert.True(t, errors.As(err, &stateErr))
}

func TestCheckedSub(t *testing.T) {
	diff, err := CheckedSub(5, 3)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), diff)

	_, err = CheckedSub(3, 5)
	assert.True(t, errors.Is(err, ErrArithmeticOverflow))
}

func TestCheckedMul(t *testing.T) {
	product, err := CheckedMul(6, 7)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), product)

	_, err = CheckedMul(math.MaxUint64, 2)
	assert.True(t, errors.Is(err, ErrArithmeticOverflow))

	product, err = CheckedMul(math.MaxUint64, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), product)
}
