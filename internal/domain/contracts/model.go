package contracts

import "github.com/shopspring/decimal"

// ProductFree — зарезервированный product_id бесплатного контракта.
const ProductFree = "free"

// ReasonTrialStarted помечает позицию, созданную стартом триала.
const ReasonTrialStarted = "trial_started"

type Account struct {
	ID   string
	Name string
}

type Entitlement struct {
	Type     string
	Enabled  bool
	Internal bool
}

// Renewal — ссылка на legacy-продление; присутствует только у legacy-позиций.
type Renewal struct {
	ID              string
	Status          string
	ActionableUntil string
}

// ContractItem — одна позиция контракта (грант, покупка или продление).
// Даты приходят строками из contracts API (RFC3339 либо YYYY-MM-DD, без зоны = UTC).
type ContractItem struct {
	ContractID     string
	ListingID      string
	Reason         string
	SubscriptionID string
	Renewal        *Renewal
	StartDate      string
	EndDate        string
	Value          int // вклад позиции в число машин
}

// Contract: Items == nil означает «позиции не получены» — такой контракт
// пропускается при shop/legacy классификации, это не ошибка.
type Contract struct {
	ID           string
	AccountID    string
	ProductID    string
	Name         string
	Items        []ContractItem
	Entitlements []Entitlement
}

type Subscription struct {
	ID             string
	AccountID      string
	Marketplace    string
	Period         string
	Status         string
	IsAutoRenewing bool
	LastPurchaseID string
}

// RenewalInfo — данные платёжного цикла автопродляемой подписки
// (ответ платёжного API, здесь только читается).
type RenewalInfo struct {
	SubscriptionID           string
	SubscriptionStartOfCycle string
	SubscriptionEndOfCycle   string
	Total                    decimal.Decimal
	Currency                 string
}

// UserSummary — срез данных одного аккаунта, вход конвейера сборки видов.
type UserSummary struct {
	Account       Account
	Contracts     []Contract
	Subscriptions []Subscription
}
