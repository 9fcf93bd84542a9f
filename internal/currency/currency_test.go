package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNgnToUsd(t *testing.T) {
	assert.Equal(t, 1.0, NgnToUsd(1600))
	assert.Equal(t, 0.0, NgnToUsd(0))
	assert.InDelta(t, 28.125, NgnToUsd(45000), 1e-9)
}

func TestUsdToNgn(t *testing.T) {
	assert.Equal(t, 1600.0, UsdToNgn(1))
	assert.Equal(t, 3200000.0, UsdToNgn(2000))
}

func TestRoundTrip(t *testing.T) {
	for _, amount := range []float64{1, 2500, 45000, 15750000} {
		assert.InDelta(t, amount, UsdToNgn(NgnToUsd(amount)), 1e-6)
	}
}

func TestPair(t *testing.T) {
	p := FromNgn(1600)
	assert.Equal(t, 1600.0, p.NGN)
	assert.Equal(t, 1.0, p.USD)

	p = FromUsd(2)
	assert.Equal(t, 3200.0, p.NGN)
	assert.Equal(t, 2.0, p.USD)
}
