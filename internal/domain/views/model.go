package views

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/contracts"
)

// Маркетплейсы, фиксированные классификатором.
const (
	MarketplaceFree   = "free"
	MarketplaceLegacy = "canonical-ua"
)

type GroupKind int

const (
	KindFree GroupKind = iota
	KindTrial
	KindLegacy
	KindShop
)

// GroupType — закрытый дискриминант группы. Для shop-групп несёт период
// листинга, для остальных Period пустой.
type GroupType struct {
	Kind   GroupKind
	Period catalog.Period
}

func TypeFree() GroupType                 { return GroupType{Kind: KindFree} }
func TypeTrial() GroupType                { return GroupType{Kind: KindTrial} }
func TypeLegacy() GroupType               { return GroupType{Kind: KindLegacy} }
func TypeShop(p catalog.Period) GroupType { return GroupType{Kind: KindShop, Period: p} }

func (t GroupType) String() string {
	switch t.Kind {
	case KindFree:
		return "free"
	case KindTrial:
		return "trial"
	case KindLegacy:
		return "legacy"
	default:
		return string(t.Period)
	}
}

func (t GroupType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Group — промежуточный результат классификации. Собирается только через
// конструкторы ниже, чтобы невалидные комбинации полей были непредставимы:
// листинг есть лишь у trial/shop, scope — лишь у shop, renewal значим лишь
// для legacy (единственная позиция).
type Group struct {
	Account       contracts.Account
	Contract      contracts.Contract
	Items         []contracts.ContractItem
	Listing       *catalog.Listing
	Scope         string
	Marketplace   string
	Subscriptions []contracts.Subscription
	Type          GroupType
}

func newFreeGroup(s contracts.UserSummary, c contracts.Contract) Group {
	return Group{
		Account:       s.Account,
		Contract:      c,
		Items:         c.Items,
		Marketplace:   MarketplaceFree,
		Subscriptions: s.Subscriptions,
		Type:          TypeFree(),
	}
}

func newTrialGroup(s contracts.UserSummary, c contracts.Contract, item contracts.ContractItem, l catalog.Listing) Group {
	return Group{
		Account:       s.Account,
		Contract:      c,
		Items:         []contracts.ContractItem{item},
		Listing:       &l,
		Marketplace:   l.Marketplace,
		Subscriptions: s.Subscriptions,
		Type:          TypeTrial(),
	}
}

func newShopGroup(s contracts.UserSummary, c contracts.Contract, items []contracts.ContractItem, l catalog.Listing, scope string) Group {
	return Group{
		Account:       s.Account,
		Contract:      c,
		Items:         items,
		Listing:       &l,
		Scope:         scope,
		Marketplace:   l.Marketplace,
		Subscriptions: s.Subscriptions,
		Type:          TypeShop(l.Period),
	}
}

func newLegacyGroup(s contracts.UserSummary, c contracts.Contract, item contracts.ContractItem) Group {
	return Group{
		Account:       s.Account,
		Contract:      c,
		Items:         []contracts.ContractItem{item},
		Marketplace:   MarketplaceLegacy,
		Subscriptions: s.Subscriptions,
		Type:          TypeLegacy(),
	}
}

// AggregatedValues — свёртка позиций группы.
type AggregatedValues struct {
	Start    time.Time
	End      time.Time
	Machines int
}

// UserSubscription — нормализованная запись вида «подписка пользователя».
type UserSubscription struct {
	ID               string                  `json:"id"`
	Type             GroupType               `json:"type"`
	AccountID        string                  `json:"account_id"`
	Entitlements     []contracts.Entitlement `json:"entitlements"`
	StartDate        time.Time               `json:"start_date"`
	EndDate          time.Time               `json:"end_date"`
	NumberOfMachines int                     `json:"number_of_machines"`
	ProductName      string                  `json:"product_name"`
	Marketplace      string                  `json:"marketplace"`
	Price            decimal.Decimal         `json:"price"`
	Currency         string                  `json:"currency"`
	MachineType      string                  `json:"machine_type"`
	ContractID       string                  `json:"contract_id"`
	SubscriptionID   string                  `json:"subscription_id,omitempty"`
	ListingID        string                  `json:"listing_id,omitempty"`
	Period           catalog.Period          `json:"period,omitempty"`
	RenewalID        string                  `json:"renewal_id,omitempty"`
	Statuses         []string                `json:"statuses"`
}
