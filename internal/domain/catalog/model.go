package catalog

import "github.com/shopspring/decimal"

type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// PricingTier — ступень объёмной цены: min_units <= qty <= max_units (NULL = без потолка).
type PricingTier struct {
	MinUnits  int
	MaxUnits  *int
	UnitPrice decimal.Decimal
}

// Listing — позиция каталога магазина. Price/Currency — плоская цена за машину,
// Tiers (если заданы) имеют приоритет при расчёте.
type Listing struct {
	ID          string
	ProductID   string
	Name        string
	Marketplace string
	Period      Period
	Price       decimal.Decimal
	Currency    string
	Tiers       []PricingTier
}

// TierFor возвращает ступень по количеству машин (самая «высокая» подходящая).
func (l Listing) TierFor(qty int) (PricingTier, bool) {
	var best PricingTier
	found := false
	for _, t := range l.Tiers {
		if qty < t.MinUnits {
			continue
		}
		if t.MaxUnits != nil && qty > *t.MaxUnits {
			continue
		}
		if !found || t.MinUnits > best.MinUnits {
			best = t
			found = true
		}
	}
	return best, found
}
