package policy

import (
	"github.com/shopspring/decimal"

	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/contracts"
	"github.com/Spok95/contracts-hub/internal/domain/views"
)

const defaultCurrency = "USD"

// Pricing — объёмное ценообразование по ступеням листинга: подбираем
// ступень по числу машин, цена = ставка × машины. Без ступеней — плоская
// цена листинга. Free-группы (listing == nil) бесплатны.
type Pricing struct{}

func (Pricing) PriceInfo(machines int, _ []contracts.ContractItem, listing *catalog.Listing) (views.PriceInfo, error) {
	if listing == nil {
		return views.PriceInfo{Price: decimal.Zero, Currency: defaultCurrency}, nil
	}

	qty := decimal.NewFromInt(int64(machines))
	if tier, ok := listing.TierFor(machines); ok {
		return views.PriceInfo{Price: tier.UnitPrice.Mul(qty), Currency: listing.Currency}, nil
	}
	return views.PriceInfo{Price: listing.Price.Mul(qty), Currency: listing.Currency}, nil
}
