package domain

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money creation", func(t *testing.T) {
		m, err := NewMoney(600050, 100)
		require.NoError(t, err)
		assert.Equal(t, "6000.50", m.String())
	})

	t.Run("zero denominator returns error", func(t *testing.T) {
		_, err := NewMoney(100, 0)
		assert.Error(t, err)
	})

	t.Run("negative denominator returns error", func(t *testing.T) {
		_, err := NewMoney(100, -1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "positive")
	})
}

func TestParseMoney(t *testing.T) {
	t.Run("parses exact decimals", func(t *testing.T) {
		m, err := ParseMoney("0.1")
		require.NoError(t, err)
		assert.Equal(t, 0, m.Rat().Cmp(big.NewRat(1, 10)))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseMoney("six thousand")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestMoneyFromFloat(t *testing.T) {
	m, err := MoneyFromFloat(0.916)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Rat().Cmp(big.NewRat(916, 1000)))

	_, err = MoneyFromFloat(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = MoneyFromFloat(math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMoney_Round(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"58960", 58960},
		{"100.49", 100},
		{"100.5", 101},
		{"0.4", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, mustMoney(t, tt.in).Round())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyFromInt(100)
	b := NewMoneyFromInt(40)

	assert.True(t, a.Add(b).Equals(NewMoneyFromInt(140)))
	assert.True(t, a.Subtract(b).Equals(NewMoneyFromInt(60)))
	assert.True(t, a.MultiplyByRat(big.NewRat(3, 4)).Equals(NewMoneyFromInt(75)))
	assert.True(t, b.LessThan(a))
	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.Subtract(a).IsNegative())
	assert.True(t, ZeroMoney().IsZero())

	t.Run("copy is independent", func(t *testing.T) {
		c := a.Copy()
		assert.True(t, c.Equals(a))
		assert.NotSame(t, a, c)
	})

	t.Run("storage safety", func(t *testing.T) {
		assert.True(t, a.IsSafeForStorage())
		huge := new(big.Rat).SetFrac(new(big.Int).Lsh(big.NewInt(1), 70), big.NewInt(1))
		assert.False(t, NewMoneyFromRat(huge).IsSafeForStorage())
	})
}
