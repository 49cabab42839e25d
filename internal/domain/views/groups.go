package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/contracts"
)

var ErrListingNotFound = errors.New("views: listing not found in catalog")

const shopKeySep = "||"

// buildGroups прогоняет четыре независимых классификатора. Разбиение
// намеренно не взаимоисключающее: позиция с reason=trial_started и
// непустым renewal попадёт и в trial, и в legacy (см. dedupeTrialRenewals).
func (b *Builder) buildGroups(summary []contracts.UserSummary, listings map[string]catalog.Listing) ([]Group, error) {
	groups := buildFreeGroups(summary)

	trial, err := buildTrialGroups(summary, listings)
	if err != nil {
		return nil, err
	}
	groups = append(groups, trial...)

	shop, err := b.buildShopGroups(summary, listings)
	if err != nil {
		return nil, err
	}
	groups = append(groups, shop...)

	groups = append(groups, b.buildLegacyGroups(summary)...)
	return groups, nil
}

func buildFreeGroups(summary []contracts.UserSummary) []Group {
	var out []Group
	for _, s := range summary {
		for _, c := range s.Contracts {
			if c.ProductID == contracts.ProductFree {
				out = append(out, newFreeGroup(s, c))
			}
		}
	}
	return out
}

func buildTrialGroups(summary []contracts.UserSummary, listings map[string]catalog.Listing) ([]Group, error) {
	var out []Group
	for _, s := range summary {
		for _, c := range s.Contracts {
			for _, it := range c.Items {
				if it.Reason != contracts.ReasonTrialStarted {
					continue
				}
				l, ok := listings[it.ListingID]
				if !ok {
					return nil, fmt.Errorf("%w: %s (trial item, contract %s)", ErrListingNotFound, it.ListingID, c.ID)
				}
				out = append(out, newTrialGroup(s, c, it, l))
			}
		}
	}
	return out, nil
}

func (b *Builder) buildShopGroups(summary []contracts.UserSummary, listings map[string]catalog.Listing) ([]Group, error) {
	var out []Group
	for _, s := range summary {
		for _, c := range s.Contracts {
			// free-контракты и контракты без полученных позиций пропускаем
			if c.ProductID == contracts.ProductFree || c.Items == nil {
				continue
			}

			keys, byKey := groupShopItems(c.Items, b.res.Scope)
			for _, key := range keys {
				listingID, scope, _ := strings.Cut(key, shopKeySep)
				l, ok := listings[listingID]
				if !ok {
					return nil, fmt.Errorf("%w: %s (shop items, contract %s)", ErrListingNotFound, listingID, c.ID)
				}
				out = append(out, newShopGroup(s, c, byKey[key], l, scope))
			}
		}
	}
	return out, nil
}

// groupShopItems сливает позиции по составному ключу listing||scope,
// сохраняя порядок позиций внутри ключа и порядок первого появления ключей.
// Триальные и legacy-позиции пропускаются: их забирают свои классификаторы.
func groupShopItems(items []contracts.ContractItem, scope ScopeDeriver) ([]string, map[string][]contracts.ContractItem) {
	var keys []string
	byKey := map[string][]contracts.ContractItem{}
	for _, it := range items {
		if it.Renewal != nil || it.Reason == contracts.ReasonTrialStarted {
			continue
		}
		key := it.ListingID + shopKeySep + scope.ItemScope(it)
		if _, seen := byKey[key]; !seen {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], it)
	}
	return keys, byKey
}

func (b *Builder) buildLegacyGroups(summary []contracts.UserSummary) []Group {
	var out []Group
	for _, s := range summary {
		for _, c := range s.Contracts {
			if c.ProductID == contracts.ProductFree || c.Items == nil {
				continue
			}
			for _, it := range c.Items {
				if it.Renewal == nil {
					continue
				}
				// строгий режим: позиция, уже забранная trial-классификатором,
				// не даёт второй (legacy) записи
				if b.dedupeTrialRenewals && it.Reason == contracts.ReasonTrialStarted {
					continue
				}
				out = append(out, newLegacyGroup(s, c, it))
			}
		}
	}
	return out
}
