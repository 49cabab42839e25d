package policy

import (
	"strings"
	"time"

	"github.com/Spok95/contracts-hub/internal/domain/contracts"
	"github.com/Spok95/contracts-hub/internal/domain/views"
)

// Entitlements применяет табличку правил к entitlements контракта:
// внутренние (служебные) вычёркиваются, остальные проходят как есть,
// порядок сохраняется.
type Entitlements struct{}

func (Entitlements) Apply(ents []contracts.Entitlement) []contracts.Entitlement {
	out := make([]contracts.Entitlement, 0, len(ents))
	for _, e := range ents {
		if e.Internal {
			continue
		}
		out = append(out, e)
	}
	return out
}

// MachineTypes — тип машины из product id подстрочным совпадением.
type MachineTypes struct{}

func (MachineTypes) MachineType(productID string) string {
	switch {
	case strings.Contains(productID, "virtual"):
		return "virtual"
	case strings.Contains(productID, "desktop"):
		return "desktop"
	default:
		return "physical"
	}
}

// Defaults — полный набор резолверов по умолчанию.
func Defaults(now func() time.Time) views.Resolvers {
	return views.Resolvers{
		Price:        Pricing{},
		Status:       NewStatuses(now),
		ID:           IDs{},
		Entitlements: Entitlements{},
		MachineType:  MachineTypes{},
		Scope:        Scopes{},
	}
}
