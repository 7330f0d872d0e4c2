package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	valid := func() ProductAttributes {
		return ProductAttributes{
			Name:         "Temple Necklace",
			Category:     "Gold",
			Type:         "Necklace",
			Metal:        MetalGold,
			Karat:        Karat22,
			WeightGrams:  big.NewRat(25, 1),
			MakingCharge: NewMoneyFromInt(8000),
		}
	}

	t.Run("valid product creation", func(t *testing.T) {
		p, err := NewProduct("id-1", valid(), testNow)
		require.NoError(t, err)
		assert.Equal(t, "id-1", p.ID())
		assert.Equal(t, MetalGold, p.Metal())
		assert.Nil(t, p.StoredRate())
		require.Len(t, p.DomainEvents(), 1)
		assert.Equal(t, "product.created", p.DomainEvents()[0].EventType())
	})

	tests := []struct {
		name   string
		mutate func(*ProductAttributes)
		want   error
	}{
		{"empty name", func(a *ProductAttributes) { a.Name = "" }, ErrEmptyName},
		{"empty category", func(a *ProductAttributes) { a.Category = "" }, ErrInvalidCategory},
		{"negative weight", func(a *ProductAttributes) { a.WeightGrams = big.NewRat(-1, 1) }, ErrInvalidWeight},
		{"negative making charge", func(a *ProductAttributes) { a.MakingCharge = NewMoneyFromInt(-1) }, ErrInvalidMakingCharge},
		{"negative stored rate", func(a *ProductAttributes) { a.StoredRate = NewMoneyFromInt(-5) }, ErrInvalidRate},
		{"other metal needs stored rate", func(a *ProductAttributes) { a.Metal = MetalOther }, ErrMissingStoredRate},
		{"unknown karat", func(a *ProductAttributes) { a.Karat = "20K" }, ErrUnknownKarat},
		{"unknown purity", func(a *ProductAttributes) { a.Purity = "80% Silver" }, ErrUnknownPurity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := valid()
			tt.mutate(&attrs)
			_, err := NewProduct("id-1", attrs, testNow)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProduct_Setters(t *testing.T) {
	p := ReconstructProduct("id-1", ProductAttributes{
		Name:         "Ring",
		Category:     "Gold",
		Metal:        MetalGold,
		Karat:        Karat18,
		WeightGrams:  big.NewRat(5, 1),
		MakingCharge: NewMoneyFromInt(1500),
	}, 3, testNow, testNow)
	assert.False(t, p.Changes().HasChanges())

	require.NoError(t, p.SetMakingCharge(NewMoneyFromInt(1800)))
	require.NoError(t, p.SetKarat(Karat22))
	assert.ErrorIs(t, p.SetKarat("21K"), ErrUnknownKarat)
	assert.ErrorIs(t, p.SetPurity("sterling"), ErrUnknownPurity)
	assert.ErrorIs(t, p.SetWeight(big.NewRat(-1, 1)), ErrInvalidWeight)
	assert.ErrorIs(t, p.SetName(""), ErrEmptyName)

	assert.Equal(t, []string{string(FieldKarat), string(FieldMakingCharge)}, p.Changes().DirtyFields())

	later := testNow.Add(1)
	p.MarkUpdated(later)
	assert.Equal(t, later, p.UpdatedAt())
	require.Len(t, p.DomainEvents(), 1)
	ev := p.DomainEvents()[0].(*ProductUpdatedEvent)
	assert.Equal(t, []string{string(FieldKarat), string(FieldMakingCharge)}, ev.ChangedFields)
	assert.Equal(t, "1800.00", ev.MakingCharge)
}

func TestProduct_MarkUpdatedWithoutChanges(t *testing.T) {
	p := goldProduct(t, "p", Karat22, 1, 1)
	p.ClearEvents()

	p.MarkUpdated(testNow.Add(1))

	assert.Empty(t, p.DomainEvents())
	assert.Equal(t, testNow, p.UpdatedAt())
}

func TestProduct_StoredRate(t *testing.T) {
	p := goldProduct(t, "p", Karat22, 1, 1)
	require.NoError(t, p.SetStoredRate(nil))

	other, err := NewProduct("d", ProductAttributes{
		Name:         "Emerald",
		Category:     "Gemstone",
		Metal:        MetalOther,
		WeightGrams:  big.NewRat(1, 1),
		MakingCharge: ZeroMoney(),
		StoredRate:   NewMoneyFromInt(1500),
	}, testNow)
	require.NoError(t, err)
	assert.ErrorIs(t, other.SetStoredRate(nil), ErrMissingStoredRate)
}
