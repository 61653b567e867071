package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound_MitadHaciaArriba(t *testing.T) {
	assert.Equal(t, "0.13", Round(decimal.RequireFromString("0.125")).StringFixed(2))
	assert.Equal(t, "47.50", Round(decimal.RequireFromString("47.5")).StringFixed(2))
	assert.Equal(t, "10.00", Round(decimal.RequireFromString("9.995")).StringFixed(2))
}

func TestLine(t *testing.T) {
	assert.True(t, Line(decimal.NewFromInt(100), 2).Equal(decimal.NewFromInt(200)))
	assert.True(t, Line(decimal.RequireFromString("0.335"), 3).Equal(decimal.RequireFromString("1.01")))
}
