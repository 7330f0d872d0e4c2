package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func mustMoney(t *testing.T, s string) *Money {
	t.Helper()
	m, err := ParseMoney(s)
	require.NoError(t, err)
	return m
}

func goldProduct(t *testing.T, id, karat string, weight, making int64) *Product {
	t.Helper()
	p, err := NewProduct(id, ProductAttributes{
		Name:         "Gold item " + id,
		Category:     "Gold",
		Type:         "Ring",
		Metal:        MetalGold,
		Karat:        karat,
		WeightGrams:  big.NewRat(weight, 1),
		MakingCharge: NewMoneyFromInt(making),
	}, testNow)
	require.NoError(t, err)
	return p
}

func rates(gold, silver int64) RateSnapshot {
	return NewRateSnapshot(NewMoneyFromInt(gold), NewMoneyFromInt(silver), testNow)
}
