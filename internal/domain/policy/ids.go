package policy

import (
	"strings"

	"github.com/Spok95/contracts-hub/internal/domain/contracts"
	"github.com/Spok95/contracts-hub/internal/domain/views"
)

// IDs строит составной идентификатор записи. Чистая функция входов:
// ни времени, ни случайности — одинаковая логическая группа всегда
// получает одинаковый id.
type IDs struct{}

func (IDs) UserSubscriptionID(acc contracts.Account, t views.GroupType, c contracts.Contract, renewal *contracts.Renewal, scope string) (string, error) {
	parts := []string{acc.ID, t.String(), c.ID}
	if renewal != nil {
		parts = append(parts, renewal.ID)
	}
	if scope != "" {
		parts = append(parts, scope)
	}
	return strings.Join(parts, "||"), nil
}

// Scopes — области shop-позиций: областью служит id подписки позиции.
type Scopes struct{}

func (Scopes) ItemScope(item contracts.ContractItem) string {
	return item.SubscriptionID
}
