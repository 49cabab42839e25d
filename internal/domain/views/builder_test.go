package views_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/contracts"
	"github.com/Spok95/contracts-hub/internal/domain/policy"
	"github.com/Spok95/contracts-hub/internal/domain/views"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func testBuilder(opts ...views.Option) *views.Builder {
	opts = append([]views.Option{views.WithClock(fixedNow)}, opts...)
	return views.NewBuilder(policy.Defaults(fixedNow), opts...)
}

func testListings() map[string]catalog.Listing {
	ten := 10
	return map[string]catalog.Listing{
		"L1": {
			ID:          "L1",
			ProductID:   "uaia-essential",
			Name:        "UA Infrastructure Essential",
			Marketplace: "shop-1",
			Period:      catalog.PeriodMonthly,
			Price:       decimal.NewFromInt(20),
			Currency:    "USD",
		},
		"L2": {
			ID:          "L2",
			ProductID:   "uaia-standard",
			Name:        "UA Infrastructure Standard",
			Marketplace: "canonical-ua",
			Period:      catalog.PeriodYearly,
			Price:       decimal.NewFromInt(25),
			Currency:    "USD",
			Tiers: []catalog.PricingTier{
				{MinUnits: 1, MaxUnits: &ten, UnitPrice: decimal.NewFromInt(25)},
				{MinUnits: 11, UnitPrice: decimal.NewFromInt(20)},
			},
		},
	}
}

func summaryWith(c ...contracts.Contract) []contracts.UserSummary {
	return []contracts.UserSummary{{
		Account:   contracts.Account{ID: "acc-1", Name: "Test Account"},
		Contracts: c,
	}}
}

func futureDates(it contracts.ContractItem) contracts.ContractItem {
	it.StartDate = testNow.AddDate(0, -1, 0).Format(time.RFC3339)
	it.EndDate = testNow.AddDate(1, 0, 0).Format(time.RFC3339)
	return it
}

func TestBuildFreeContract(t *testing.T) {
	// free-контракт остаётся видимым с любой датой конца
	summary := summaryWith(contracts.Contract{
		ID:        "c-free",
		ProductID: contracts.ProductFree,
		Name:      "ignored",
		Items: []contracts.ContractItem{{
			StartDate: "2020-01-01T00:00:00Z",
			EndDate:   "2020-12-31T00:00:00Z",
			Value:     3,
		}},
	})

	subs, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, "free", sub.Type.String())
	assert.Equal(t, "Free Personal Token", sub.ProductName)
	assert.Equal(t, "free", sub.Marketplace)
	assert.True(t, sub.Price.IsZero())
	assert.Equal(t, 3, sub.NumberOfMachines)
	assert.Equal(t, "acc-1", sub.AccountID)
	assert.Empty(t, sub.ListingID)
}

func TestBuildTrialItem(t *testing.T) {
	summary := summaryWith(contracts.Contract{
		ID:        "c-1",
		ProductID: "uaia-essential",
		Name:      "UA Infrastructure Essential",
		Items: []contracts.ContractItem{futureDates(contracts.ContractItem{
			ListingID: "L1",
			Reason:    contracts.ReasonTrialStarted,
			Value:     1,
		})},
	})

	subs, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, "trial", sub.Type.String())
	assert.Equal(t, "shop-1", sub.Marketplace)
	assert.Equal(t, "L1", sub.ListingID)
	assert.Equal(t, catalog.PeriodMonthly, sub.Period)
}

func TestBuildShopItemsMerged(t *testing.T) {
	summary := summaryWith(contracts.Contract{
		ID:        "c-1",
		ProductID: "uaia-standard",
		Name:      "UA Infrastructure Standard",
		Items: []contracts.ContractItem{
			futureDates(contracts.ContractItem{ListingID: "L2", SubscriptionID: "S1", Value: 2}),
			futureDates(contracts.ContractItem{ListingID: "L2", SubscriptionID: "S1", Value: 3}),
		},
	})

	subs, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, "yearly", sub.Type.String())
	assert.Equal(t, 5, sub.NumberOfMachines)
	assert.Equal(t, "S1", sub.SubscriptionID)
	// ступень 1..10, ставка 25 × 5 машин
	assert.True(t, sub.Price.Equal(decimal.NewFromInt(125)), "price = %s", sub.Price)
	assert.Equal(t, "USD", sub.Currency)
}

func TestBuildShopItemsDistinctKeys(t *testing.T) {
	summary := summaryWith(contracts.Contract{
		ID:        "c-1",
		ProductID: "uaia-standard",
		Items: []contracts.ContractItem{
			futureDates(contracts.ContractItem{ListingID: "L2", SubscriptionID: "S1", Value: 2}),
			futureDates(contracts.ContractItem{ListingID: "L2", SubscriptionID: "S2", Value: 3}),
			futureDates(contracts.ContractItem{ListingID: "L1", SubscriptionID: "S1", Value: 1}),
		},
	})

	subs, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)
	// разный listing или разный scope — разные группы
	assert.Len(t, subs, 3)
}

func TestBuildLegacyExpiredBeyondRetention(t *testing.T) {
	summary := summaryWith(contracts.Contract{
		ID:        "c-1",
		ProductID: "uaia-standard",
		Name:      "UA Infrastructure Standard",
		Items: []contracts.ContractItem{{
			Renewal:   &contracts.Renewal{ID: "r-1", Status: "pending"},
			StartDate: testNow.AddDate(-1, 0, 0).Format(time.RFC3339),
			EndDate:   testNow.AddDate(0, 0, -45).Format(time.RFC3339),
			Value:     2,
		}},
	})

	subs, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)
	// запись собрана, но конец 45 дней назад — за окном ретенции
	assert.Empty(t, subs)
}

func TestRetentionBoundary(t *testing.T) {
	shopContract := func(end time.Time) []contracts.UserSummary {
		return summaryWith(contracts.Contract{
			ID:        "c-1",
			ProductID: "uaia-standard",
			Items: []contracts.ContractItem{{
				ListingID:      "L2",
				SubscriptionID: "S1",
				StartDate:      testNow.AddDate(-1, 0, 0).Format(time.RFC3339),
				EndDate:        end.Format(time.RFC3339),
				Value:          1,
			}},
		})
	}

	t.Run("exactly 30 days past is retained", func(t *testing.T) {
		subs, err := testBuilder().Build(shopContract(testNow.AddDate(0, 0, -30)), testListings())
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})

	t.Run("31 days past is dropped", func(t *testing.T) {
		subs, err := testBuilder().Build(shopContract(testNow.AddDate(0, 0, -31)), testListings())
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("a second past the boundary is dropped", func(t *testing.T) {
		subs, err := testBuilder().Build(shopContract(testNow.AddDate(0, 0, -30).Add(-time.Second)), testListings())
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("future end is retained", func(t *testing.T) {
		subs, err := testBuilder().Build(shopContract(testNow.AddDate(0, 1, 0)), testListings())
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})
}

func TestClassificationCoverage(t *testing.T) {
	// каждая позиция не-пропущенного контракта попадает хотя бы в одну группу
	summary := summaryWith(contracts.Contract{
		ID:        "c-1",
		ProductID: "uaia-standard",
		Name:      "UA Infrastructure Standard",
		Items: []contracts.ContractItem{
			futureDates(contracts.ContractItem{ListingID: "L1", Reason: contracts.ReasonTrialStarted, Value: 1}),
			futureDates(contracts.ContractItem{ListingID: "L2", SubscriptionID: "S1", Value: 2}),
			futureDates(contracts.ContractItem{Renewal: &contracts.Renewal{ID: "r-1"}, Value: 3}),
		},
	})

	subs, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)
	require.Len(t, subs, 3)

	types := []string{subs[0].Type.String(), subs[1].Type.String(), subs[2].Type.String()}
	assert.Equal(t, []string{"trial", "yearly", "legacy"}, types)
	assert.Equal(t, "canonical-ua", subs[2].Marketplace)
	assert.Equal(t, "r-1", subs[2].RenewalID)
}

func TestFreeContractExclusivity(t *testing.T) {
	// free-контракт не даёт ни shop-, ни legacy-групп
	summary := summaryWith(contracts.Contract{
		ID:        "c-free",
		ProductID: contracts.ProductFree,
		Items: []contracts.ContractItem{futureDates(contracts.ContractItem{
			ListingID:      "L2",
			SubscriptionID: "S1",
			Renewal:        &contracts.Renewal{ID: "r-1"},
			Value:          1,
		})},
	})

	subs, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "free", subs[0].Type.String())
}

func TestContractWithoutItems(t *testing.T) {
	// Items == nil — распознанный пустой случай, не ошибка
	summary := summaryWith(contracts.Contract{
		ID:        "c-1",
		ProductID: "uaia-standard",
		Items:     nil,
	})

	subs, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestTrialRenewalOverlap(t *testing.T) {
	// позиция одновременно и триал, и legacy-продление
	overlap := summaryWith(contracts.Contract{
		ID:        "c-1",
		ProductID: "uaia-standard",
		Name:      "UA Infrastructure Standard",
		Items: []contracts.ContractItem{futureDates(contracts.ContractItem{
			ListingID: "L1",
			Reason:    contracts.ReasonTrialStarted,
			Renewal:   &contracts.Renewal{ID: "r-1"},
			Value:     1,
		})},
	})

	t.Run("default keeps both records", func(t *testing.T) {
		subs, err := testBuilder().Build(overlap, testListings())
		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, "trial", subs[0].Type.String())
		assert.Equal(t, "legacy", subs[1].Type.String())
	})

	t.Run("dedupe mode keeps only the trial", func(t *testing.T) {
		subs, err := testBuilder(views.WithDedupeTrialRenewals()).Build(overlap, testListings())
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "trial", subs[0].Type.String())
	})
}

func TestUnknownListingIsFatal(t *testing.T) {
	t.Run("trial item", func(t *testing.T) {
		summary := summaryWith(contracts.Contract{
			ID:        "c-1",
			ProductID: "uaia-standard",
			Items: []contracts.ContractItem{futureDates(contracts.ContractItem{
				ListingID: "L-missing",
				Reason:    contracts.ReasonTrialStarted,
			})},
		})
		_, err := testBuilder().Build(summary, testListings())
		require.ErrorIs(t, err, views.ErrListingNotFound)
	})

	t.Run("shop item", func(t *testing.T) {
		summary := summaryWith(contracts.Contract{
			ID:        "c-1",
			ProductID: "uaia-standard",
			Items: []contracts.ContractItem{futureDates(contracts.ContractItem{
				ListingID:      "L-missing",
				SubscriptionID: "S1",
			})},
		})
		_, err := testBuilder().Build(summary, testListings())
		require.ErrorIs(t, err, views.ErrListingNotFound)
	})
}

type failingPrice struct{ err error }

func (f failingPrice) PriceInfo(int, []contracts.ContractItem, *catalog.Listing) (views.PriceInfo, error) {
	return views.PriceInfo{}, f.err
}

func TestResolverErrorPropagates(t *testing.T) {
	res := policy.Defaults(fixedNow)
	priceErr := errors.New("pricing backend down")
	res.Price = failingPrice{err: priceErr}

	summary := summaryWith(contracts.Contract{
		ID:        "c-1",
		ProductID: "uaia-standard",
		Items: []contracts.ContractItem{
			futureDates(contracts.ContractItem{ListingID: "L2", SubscriptionID: "S1", Value: 1}),
		},
	})

	_, err := views.NewBuilder(res, views.WithClock(fixedNow)).Build(summary, testListings())
	require.ErrorIs(t, err, priceErr)
}

func TestIdentifierDeterminism(t *testing.T) {
	summary := summaryWith(contracts.Contract{
		ID:        "c-1",
		ProductID: "uaia-standard",
		Name:      "UA Infrastructure Standard",
		Items: []contracts.ContractItem{
			futureDates(contracts.ContractItem{ListingID: "L2", SubscriptionID: "S1", Value: 2}),
		},
	})

	first, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)
	second, err := testBuilder().Build(summary, testListings())
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}
