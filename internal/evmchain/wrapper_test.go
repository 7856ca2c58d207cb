package evmchain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyGasPriceFactorScalesPrice(t *testing.T) {
	price := big.NewInt(1000)
	assert.Equal(t, big.NewInt(1000), applyGasPriceFactor(price, 1.0))
	assert.Equal(t, big.NewInt(1100), applyGasPriceFactor(price, 1.1))
}

func TestApplyGasPriceFactorZeroIsNoop(t *testing.T) {
	price := big.NewInt(500)
	assert.Equal(t, price, applyGasPriceFactor(price, 0))
}
