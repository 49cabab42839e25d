package views

import (
	"math"
	"time"

	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/contracts"
)

// Просроченные подписки показываем ещё 30 дней после конца.
const retentionDays = 30

const freeProductName = "Free Personal Token"

// Builder собирает нормализованные записи UserSubscription из срезов
// аккаунтов. Чистая функция своих входов плюс инжектированные часы:
// «сейчас» берётся один раз на вызов Build.
type Builder struct {
	res                 Resolvers
	now                 func() time.Time
	dedupeTrialRenewals bool
}

type Option func(*Builder)

// WithClock подменяет источник времени (в тестах — фиксированный).
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithDedupeTrialRenewals включает строгий режим: позиция, являющаяся
// одновременно стартом триала и legacy-продлением, даёт одну запись (trial),
// а не две. По умолчанию выключен — сохраняем поведение исходной политики.
func WithDedupeTrialRenewals() Option {
	return func(b *Builder) { b.dedupeTrialRenewals = true }
}

func NewBuilder(res Resolvers, opts ...Option) *Builder {
	b := &Builder{res: res, now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build — весь конвейер: классификация → группировка shop-позиций →
// свёртка → резолверы → сборка записи → фильтр ретенции. Любая ошибка
// обрывает сборку целиком, частичный результат не возвращается.
func (b *Builder) Build(summary []contracts.UserSummary, listings map[string]catalog.Listing) ([]UserSubscription, error) {
	groups, err := b.buildGroups(summary, listings)
	if err != nil {
		return nil, err
	}

	now := b.now().UTC()

	out := []UserSubscription{}
	for _, g := range groups {
		sub, err := b.assemble(g)
		if err != nil {
			return nil, err
		}
		if retained(sub, now) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (b *Builder) assemble(g Group) (UserSubscription, error) {
	agg, err := aggregateItems(g.Items)
	if err != nil {
		return UserSubscription{}, err
	}

	var renewal *contracts.Renewal
	if g.Type.Kind == KindLegacy {
		renewal = g.Items[0].Renewal
	}

	productName := g.Contract.Name
	if g.Type.Kind == KindFree {
		productName = freeProductName
	}

	price, err := b.res.Price.PriceInfo(agg.Machines, g.Items, g.Listing)
	if err != nil {
		return UserSubscription{}, err
	}

	statuses, err := b.res.Status.Statuses(StatusInput{
		Type:           g.Type,
		EndDate:        agg.End,
		Renewal:        renewal,
		SubscriptionID: g.Scope,
		Subscriptions:  g.Subscriptions,
		Listing:        g.Listing,
	})
	if err != nil {
		return UserSubscription{}, err
	}

	id, err := b.res.ID.UserSubscriptionID(g.Account, g.Type, g.Contract, renewal, g.Scope)
	if err != nil {
		return UserSubscription{}, err
	}

	sub := UserSubscription{
		ID:               id,
		Type:             g.Type,
		AccountID:        g.Account.ID,
		Entitlements:     b.res.Entitlements.Apply(g.Contract.Entitlements),
		StartDate:        agg.Start,
		EndDate:          agg.End,
		NumberOfMachines: agg.Machines,
		ProductName:      productName,
		Marketplace:      g.Marketplace,
		Price:            price.Price,
		Currency:         price.Currency,
		MachineType:      b.res.MachineType.MachineType(g.Contract.ProductID),
		ContractID:       g.Contract.ID,
		SubscriptionID:   g.Scope,
		Statuses:         statuses,
	}
	if g.Listing != nil {
		sub.ListingID = g.Listing.ID
		sub.Period = g.Listing.Period
	}
	if renewal != nil {
		sub.RenewalID = renewal.ID
	}
	return sub, nil
}

// retained — фильтр ретенции: free-записи остаются всегда, остальные —
// пока не просрочены дольше retentionDays. Дни считаем с округлением вниз,
// так что ровно −30 дней ещё видно, −30 дней и секунда — уже нет.
func retained(sub UserSubscription, now time.Time) bool {
	if sub.Type.Kind == KindFree {
		return true
	}
	days := int(math.Floor(sub.EndDate.Sub(now).Hours() / 24))
	return days >= -retentionDays
}
