package views

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/contracts"
)

// PriceInfo — итог расчёта цены группы.
type PriceInfo struct {
	Price    decimal.Decimal
	Currency string
}

// PriceResolver считает цену группы. Для free-групп listing == nil и
// резолвер обязан вернуть нулевую цену.
type PriceResolver interface {
	PriceInfo(machines int, items []contracts.ContractItem, listing *catalog.Listing) (PriceInfo, error)
}

// StatusInput — всё, что нужно для вывода статусов; политика самих
// статусов для конвейера непрозрачна.
type StatusInput struct {
	Type           GroupType
	EndDate        time.Time
	Renewal        *contracts.Renewal
	SubscriptionID string
	Subscriptions  []contracts.Subscription
	Listing        *catalog.Listing
}

type StatusDeriver interface {
	Statuses(in StatusInput) ([]string, error)
}

// IdentifierBuilder строит детерминированный составной идентификатор записи:
// одинаковые входы всегда дают одинаковый id.
type IdentifierBuilder interface {
	UserSubscriptionID(acc contracts.Account, t GroupType, c contracts.Contract, renewal *contracts.Renewal, scope string) (string, error)
}

type EntitlementApplier interface {
	Apply(ents []contracts.Entitlement) []contracts.Entitlement
}

type MachineTypeResolver interface {
	MachineType(productID string) string
}

// ScopeDeriver выводит подписочную «область» позиции — вторую половину
// ключа группировки shop-позиций. Для конвейера значение непрозрачно.
type ScopeDeriver interface {
	ItemScope(item contracts.ContractItem) string
}

// Resolvers — набор внешних коллабораторов сборщика. Все поля обязательны.
type Resolvers struct {
	Price        PriceResolver
	Status       StatusDeriver
	ID           IdentifierBuilder
	Entitlements EntitlementApplier
	MachineType  MachineTypeResolver
	Scope        ScopeDeriver
}
