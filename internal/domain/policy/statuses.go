package policy

import (
	"time"

	"github.com/Spok95/contracts-hub/internal/domain/views"
)

// Возможные метки статуса (порядок в записи: основная, затем модификаторы).
const (
	StatusActive       = "active"
	StatusExpired      = "expired"
	StatusTrialled     = "trialled"
	StatusAutoRenewing = "auto-renewing"
	StatusRenewable    = "renewable"
)

// Statuses выводит упорядоченные метки статуса группы.
type Statuses struct {
	now func() time.Time
}

func NewStatuses(now func() time.Time) *Statuses {
	if now == nil {
		now = time.Now
	}
	return &Statuses{now: now}
}

func (s *Statuses) Statuses(in views.StatusInput) ([]string, error) {
	out := []string{StatusActive}
	if in.EndDate.Before(s.now().UTC()) {
		out[0] = StatusExpired
	}

	switch in.Type.Kind {
	case views.KindTrial:
		out = append(out, StatusTrialled)
	case views.KindShop:
		if s.autoRenewing(in) {
			out = append(out, StatusAutoRenewing)
		}
	case views.KindLegacy:
		if in.Renewal != nil && in.Renewal.Status == "pending" {
			out = append(out, StatusRenewable)
		}
	}
	return out, nil
}

// shop-группа автопродляется, если её подписка (по scope, иначе по паре
// marketplace+period листинга) имеет включённое автопродление.
func (s *Statuses) autoRenewing(in views.StatusInput) bool {
	for _, sub := range in.Subscriptions {
		if in.SubscriptionID != "" {
			if sub.ID == in.SubscriptionID {
				return sub.IsAutoRenewing
			}
			continue
		}
		if in.Listing != nil && sub.Marketplace == in.Listing.Marketplace && sub.Period == string(in.Listing.Period) {
			return sub.IsAutoRenewing
		}
	}
	return false
}
