package views

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spok95/contracts-hub/internal/domain/contracts"
)

// UserInfo — короткий дескриптор месячной подписки аккаунта.
// Поля после первых двух заполняются только при наличии renewal info.
type UserInfo struct {
	HasMonthlySubscription bool             `json:"has_monthly_subscription"`
	IsAutoRenewing         *bool            `json:"is_auto_renewing,omitempty"`
	LastPaymentDate        string           `json:"last_payment_date,omitempty"`
	NextPaymentDate        string           `json:"next_payment_date,omitempty"`
	Total                  *decimal.Decimal `json:"total,omitempty"`
	Currency               string           `json:"currency,omitempty"`
}

// BuildUserInfo — чистая трёхветочная выборка без агрегации:
// нет подписки → только флаг; подписка без renewal info → не автопродляется;
// иначе — данные платёжного цикла, валюта в верхнем регистре.
func BuildUserInfo(sub *contracts.Subscription, info *contracts.RenewalInfo) UserInfo {
	if sub == nil {
		return UserInfo{HasMonthlySubscription: false}
	}

	if info == nil {
		autoRenew := false
		return UserInfo{
			HasMonthlySubscription: true,
			IsAutoRenewing:         &autoRenew,
		}
	}

	autoRenew := sub.IsAutoRenewing
	total := info.Total
	return UserInfo{
		HasMonthlySubscription: true,
		IsAutoRenewing:         &autoRenew,
		LastPaymentDate:        info.SubscriptionStartOfCycle,
		NextPaymentDate:        info.SubscriptionEndOfCycle,
		Total:                  &total,
		Currency:               strings.ToUpper(info.Currency),
	}
}
