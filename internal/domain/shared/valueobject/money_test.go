package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(100), ARS)
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	assert.Equal(t, ARS, m.Currency())

	_, err = NewMoney(decimal.NewFromInt(100), "")
	assert.Error(t, err)
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyARSFromFloat(120)
	b := NewMoneyARSFromFloat(100)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(220)))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(20)))

	neg := diff.Neg()
	assert.True(t, neg.IsNegative())
	assert.True(t, neg.Abs().Equal(diff))
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	a := NewMoneyARSFromFloat(10)
	b, err := NewMoney(decimal.NewFromInt(10), USD)
	require.NoError(t, err)

	_, err = a.Add(b)
	assert.Error(t, err)
	_, err = a.Sub(b)
	assert.Error(t, err)
}

func TestMoneyComparisons(t *testing.T) {
	a := NewMoneyARSFromFloat(10)
	b := NewMoneyARSFromFloat(20)

	assert.True(t, b.GreaterThan(a))
	assert.True(t, a.LessThan(b))
	assert.False(t, a.Equal(b))
	assert.True(t, ZeroARS().IsZero())
}

func TestMoneyFromString(t *testing.T) {
	m, err := NewMoneyARSFromString("99.90")
	require.NoError(t, err)
	assert.Equal(t, "99.90 ARS", m.String())

	_, err = NewMoneyARSFromString("not-a-number")
	assert.Error(t, err)
}
