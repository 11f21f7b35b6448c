package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromLira(t *testing.T) {
	assert.Equal(t, int64(12345), FromLira(123.45))
	assert.Equal(t, int64(100), FromLira(1))
	assert.Equal(t, int64(0), FromLira(0))
	// Float noise must not shave a kuruş off.
	assert.Equal(t, int64(1810), FromLira(18.10))
	assert.Equal(t, int64(5999), FromLira(59.99))
}

func TestToLira(t *testing.T) {
	assert.Equal(t, 123.45, ToLira(12345))
	assert.Equal(t, 0.0, ToLira(0))
}

func TestApplyPercentDiscount(t *testing.T) {
	assert.Equal(t, int64(9000), ApplyPercentDiscount(10000, 10))
	// 23600 * 12.5% = 2950
	assert.Equal(t, int64(20650), ApplyPercentDiscount(23600, 12.5))
	assert.Equal(t, int64(10000), ApplyPercentDiscount(10000, 0))
	assert.Equal(t, int64(10000), ApplyPercentDiscount(10000, -5))
	assert.Equal(t, int64(0), ApplyPercentDiscount(10000, 100))
	assert.Equal(t, int64(0), ApplyPercentDiscount(10000, 150))
}

func TestApplyAmountDiscount(t *testing.T) {
	assert.Equal(t, int64(8000), ApplyAmountDiscount(10000, 2000))
	assert.Equal(t, int64(10000), ApplyAmountDiscount(10000, 0))
	// Discount larger than the total clamps to zero, never negative.
	assert.Equal(t, int64(0), ApplyAmountDiscount(10000, 15000))
	assert.Equal(t, int64(0), ApplyAmountDiscount(10000, 10000))
}

func TestVAT(t *testing.T) {
	assert.Equal(t, int64(12000), AddVAT(10000, 20))
	assert.Equal(t, int64(2000), VATPortion(10000, 20))
	assert.Equal(t, int64(2000), ExtractVAT(12000, 20))
	assert.Equal(t, int64(10000), NetFromGross(12000, 20))
	// 1% VAT on 333 kuruş rounds half away from zero.
	assert.Equal(t, int64(3), VATPortion(333, 1))
}
