package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedPriceProduct prices at exactly `price` with gold at rate 1 and 24K.
func fixedPriceProduct(t *testing.T, id string, price int64, created time.Time) *Product {
	t.Helper()
	p, err := NewProduct(id, ProductAttributes{
		Name:         "Item " + id,
		Category:     "Gold",
		Metal:        MetalGold,
		Karat:        Karat24,
		WeightGrams:  big.NewRat(price, 1),
		MakingCharge: ZeroMoney(),
	}, created)
	require.NoError(t, err)
	return p
}

func ids(items []PricedProduct) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Product.ID()
	}
	return out
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortBest, k)

	k, err = ParseSortKey("Price-Low")
	require.NoError(t, err)
	assert.Equal(t, SortPriceLow, k)

	_, err = ParseSortKey("cheapest")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
}

func TestCatalogView_Sort(t *testing.T) {
	view := NewCatalogView(nil)
	r := rates(1, 1)

	products := []*Product{
		fixedPriceProduct(t, "1", 500, testNow),
		fixedPriceProduct(t, "2", 500, testNow.Add(time.Hour)),
		fixedPriceProduct(t, "3", 300, testNow.Add(-time.Hour)),
	}

	t.Run("price ascending is stable", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{}, SortPriceLow, r)
		assert.Equal(t, []string{"3", "1", "2"}, ids(got))
	})

	t.Run("price descending is stable", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{}, SortPriceHigh, r)
		assert.Equal(t, []string{"1", "2", "3"}, ids(got))
	})

	t.Run("best keeps input order", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{}, SortBest, r)
		assert.Equal(t, []string{"1", "2", "3"}, ids(got))
	})

	t.Run("new sorts by creation time descending", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{}, SortNewest, r)
		assert.Equal(t, []string{"2", "1", "3"}, ids(got))
	})

	t.Run("input slice is not reordered", func(t *testing.T) {
		view.DeriveView(products, nil, CatalogFilter{}, SortPriceLow, r)
		assert.Equal(t, "1", products[0].ID())
		assert.Equal(t, "3", products[2].ID())
	})

	t.Run("unavailable prices sort last both ways", func(t *testing.T) {
		silver, err := NewProduct("s", ProductAttributes{
			Name:         "Unpriced",
			Category:     "Silver",
			Metal:        MetalSilver,
			WeightGrams:  big.NewRat(1, 1),
			MakingCharge: ZeroMoney(),
		}, testNow)
		require.NoError(t, err)
		mixed := append([]*Product{silver}, products...)
		goldOnly := NewRateSnapshot(NewMoneyFromInt(1), nil, testNow)

		asc := view.DeriveView(mixed, nil, CatalogFilter{}, SortPriceLow, goldOnly)
		assert.Equal(t, []string{"3", "1", "2", "s"}, ids(asc))

		desc := view.DeriveView(mixed, nil, CatalogFilter{}, SortPriceHigh, goldOnly)
		assert.Equal(t, []string{"1", "2", "3", "s"}, ids(desc))
	})
}

func TestCatalogView_Filter(t *testing.T) {
	view := NewCatalogView(nil)
	r := rates(6000, 80)

	mk := func(id, category, karat string) *Product {
		p, err := NewProduct(id, ProductAttributes{
			Name:         id,
			Category:     category,
			Type:         "Ring",
			Metal:        MetalGold,
			Karat:        karat,
			WeightGrams:  big.NewRat(1, 1),
			MakingCharge: ZeroMoney(),
		}, testNow)
		require.NoError(t, err)
		return p
	}
	products := []*Product{
		mk("a", "Gold", Karat22),
		mk("b", "Gold", Karat18),
		mk("c", "Bridal", Karat22),
		mk("d", "Gold", Karat22),
	}

	t.Run("conjunction of attribute filters", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{Category: "Gold", Karat: Karat22}, SortBest, r)
		assert.Equal(t, []string{"a", "d"}, ids(got))

		for _, it := range got {
			assert.Equal(t, "Gold", it.Product.Category())
			assert.Equal(t, Karat22, it.Product.Karat())
		}
	})

	t.Run("empty filter passes everything", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{}, SortBest, r)
		assert.Len(t, got, 4)
	})

	t.Run("type mismatch excludes all", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{Type: "Necklace"}, SortBest, r)
		assert.Empty(t, got)
	})
}

func TestCatalogView_PriceRange(t *testing.T) {
	view := NewCatalogView(nil)
	r := rates(1, 1)
	products := []*Product{
		fixedPriceProduct(t, "low", 24999, testNow),
		fixedPriceProduct(t, "edge", 25000, testNow),
		fixedPriceProduct(t, "mid", 40000, testNow),
		fixedPriceProduct(t, "high", 250000, testNow),
	}

	t.Run("bounds are inclusive", func(t *testing.T) {
		under, ok := PresetByLabel("Under ₹25,000")
		require.True(t, ok)
		got := view.DeriveView(products, nil, CatalogFilter{PriceRange: under}, SortBest, r)
		assert.Equal(t, []string{"low", "edge"}, ids(got))
	})

	t.Run("open upper bound", func(t *testing.T) {
		above, ok := PresetByLabel("Above ₹1,00,000")
		require.True(t, ok)
		got := view.DeriveView(products, nil, CatalogFilter{PriceRange: above}, SortBest, r)
		assert.Equal(t, []string{"high"}, ids(got))
	})

	t.Run("unavailable prices never match a range", func(t *testing.T) {
		under, _ := PresetByLabel("Under ₹25,000")
		got := view.DeriveView(products, nil, CatalogFilter{PriceRange: under}, SortBest, EmptyRates())
		assert.Empty(t, got)
	})

	t.Run("range uses the undiscounted price", func(t *testing.T) {
		p, err := NewProduct("offer", ProductAttributes{
			Name:         "offer",
			Category:     "Gold",
			Metal:        MetalGold,
			Karat:        Karat24,
			WeightGrams:  big.NewRat(20000, 1),
			MakingCharge: NewMoneyFromInt(10000),
		}, testNow)
		require.NoError(t, err)
		o, err := NewOffer(p, 100, testNow)
		require.NoError(t, err)
		under, _ := PresetByLabel("Under ₹25,000")

		got := view.DeriveView([]*Product{p}, map[string]*Offer{"offer": o}, CatalogFilter{PriceRange: under}, SortBest, r)
		assert.Empty(t, got)

		got = view.DeriveView([]*Product{p}, map[string]*Offer{"offer": o}, CatalogFilter{}, SortBest, r)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].DiscountedPrice)
		assert.Equal(t, int64(30000), got[0].Price.Rounded())
		assert.Equal(t, int64(20000), got[0].DiscountedPrice.Rounded())
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := NewPriceRange(NewMoneyFromInt(10), NewMoneyFromInt(5))
		assert.ErrorIs(t, err, ErrInvalidPriceRange)
		pr, err := NewPriceRange(NewMoneyFromInt(5), nil)
		require.NoError(t, err)
		assert.True(t, pr.Contains(NewMoneyFromInt(1_000_000)))
	})
}

func TestCatalogView_TextSearch(t *testing.T) {
	view := NewCatalogView(nil)
	mk := func(id string, attrs ProductAttributes) *Product {
		attrs.Metal = MetalGold
		attrs.Karat = Karat22
		attrs.WeightGrams = big.NewRat(1, 1)
		attrs.MakingCharge = ZeroMoney()
		p, err := NewProduct(id, attrs, testNow)
		require.NoError(t, err)
		return p
	}
	products := []*Product{
		mk("name", ProductAttributes{Name: "Kundan Choker", Category: "Bridal", Type: "Necklace"}),
		mk("desc", ProductAttributes{Name: "Ring", Description: "Hand-set KUNDAN stones", Category: "Gold", Type: "Ring"}),
		mk("cat", ProductAttributes{Name: "Hoops", Category: "Kundan Collection", Type: "Earrings"}),
		mk("type", ProductAttributes{Name: "Band", Category: "Gold", Type: "kundanwork"}),
		mk("none", ProductAttributes{Name: "Chain", Description: "Plain rope", Category: "Gold", Type: "Chain"}),
	}

	t.Run("any text field matches case-insensitively", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{Query: "  kunDan "}, SortBest, rates(1, 1))
		assert.Equal(t, []string{"name", "desc", "cat", "type"}, ids(got))
	})

	t.Run("blank query does not filter", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{Query: "   "}, SortBest, rates(1, 1))
		assert.Len(t, got, len(products))
	})

	t.Run("combines with other filters", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{Query: "kundan", Category: "Gold"}, SortBest, rates(1, 1))
		assert.Equal(t, []string{"desc", "type"}, ids(got))
	})

	t.Run("no match gives empty view", func(t *testing.T) {
		got := view.DeriveView(products, nil, CatalogFilter{Query: "platinum"}, SortBest, rates(1, 1))
		assert.Empty(t, got)
	})
}

func TestCatalogView_CreatedAfter(t *testing.T) {
	view := NewCatalogView(nil)
	since := testNow.Add(-NewArrivalsWindow)
	products := []*Product{
		fixedPriceProduct(t, "old", 100, since.Add(-time.Second)),
		fixedPriceProduct(t, "edge", 100, since),
		fixedPriceProduct(t, "fresh", 100, testNow),
	}

	got := view.DeriveView(products, nil, CatalogFilter{CreatedAfter: since}, SortNewest, rates(1, 1))

	assert.Equal(t, []string{"fresh", "edge"}, ids(got))
}
