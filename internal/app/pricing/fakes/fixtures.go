package fakes

import (
	"math/big"
	"time"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

// GoldRing is a committed 10g 22K ring with a 1000 making charge.
func GoldRing(id string, createdAt time.Time) *domain.Product {
	return domain.ReconstructProduct(id, domain.ProductAttributes{
		Name:         "Gold Ring " + id,
		Description:  "Hallmarked 22K band",
		Category:     "Rings",
		Type:         "Ring",
		Metal:        domain.MetalGold,
		Karat:        domain.Karat22,
		WeightGrams:  big.NewRat(10, 1),
		MakingCharge: domain.NewMoneyFromInt(1000),
		StoredRate:   domain.NewMoneyFromInt(5500),
	}, 1, createdAt, createdAt)
}

// SilverChain is a committed 20g sterling chain with a 500 making charge.
func SilverChain(id string, createdAt time.Time) *domain.Product {
	return domain.ReconstructProduct(id, domain.ProductAttributes{
		Name:         "Silver Chain " + id,
		Category:     "Chains",
		Type:         "Chain",
		Metal:        domain.MetalSilver,
		Purity:       domain.PuritySterling,
		WeightGrams:  big.NewRat(20, 1),
		MakingCharge: domain.NewMoneyFromInt(500),
	}, 1, createdAt, createdAt)
}

// DiamondStud is a committed 0.5 unit stud priced from its stored rate.
func DiamondStud(id string, createdAt time.Time) *domain.Product {
	return domain.ReconstructProduct(id, domain.ProductAttributes{
		Name:         "Diamond Stud " + id,
		Category:     "Earrings",
		Type:         "Earring",
		Metal:        domain.MetalOther,
		WeightGrams:  big.NewRat(1, 2),
		MakingCharge: domain.NewMoneyFromInt(2000),
		StoredRate:   domain.NewMoneyFromInt(75000),
	}, 1, createdAt, createdAt)
}
