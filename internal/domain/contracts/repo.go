package contracts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ db *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

// UserSummary собирает срез одного аккаунта: контракты с позициями + подписки.
func (r *Repo) UserSummary(ctx context.Context, accountID string) (*UserSummary, error) {
	const q = `SELECT id,name FROM accounts WHERE id=$1`
	var acc Account
	if err := r.db.QueryRow(ctx, q, accountID).Scan(&acc.ID, &acc.Name); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load account %s: %w", accountID, err)
	}

	contracts, err := r.contractsByAccount(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	subs, err := r.subscriptionsByAccount(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	return &UserSummary{Account: acc, Contracts: contracts, Subscriptions: subs}, nil
}

// UserSummaries — срезы по всем аккаунтам (для свипа нотификатора).
func (r *Repo) UserSummaries(ctx context.Context) ([]UserSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]UserSummary, 0, len(ids))
	for _, id := range ids {
		s, err := r.UserSummary(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

// RenewalInfo — данные платёжного цикла подписки; nil без ошибки, если их нет.
func (r *Repo) RenewalInfo(ctx context.Context, subscriptionID string) (*RenewalInfo, error) {
	const q = `SELECT subscription_id,start_of_cycle,end_of_cycle,total::text,currency
	           FROM subscription_renewal_info
	           WHERE subscription_id=$1`
	var ri RenewalInfo
	var total string
	err := r.db.QueryRow(ctx, q, subscriptionID).Scan(
		&ri.SubscriptionID, &ri.SubscriptionStartOfCycle, &ri.SubscriptionEndOfCycle, &total, &ri.Currency)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load renewal info for %s: %w", subscriptionID, err)
	}
	ri.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("bad renewal total for %s: %w", subscriptionID, err)
	}
	return &ri, nil
}

func (r *Repo) contractsByAccount(ctx context.Context, accountID string) ([]Contract, error) {
	const q = `SELECT id,account_id,product_id,name,items_fetched,entitlements
	           FROM contracts
	           WHERE account_id=$1
	           ORDER BY id`
	rows, err := r.db.Query(ctx, q, accountID)
	if err != nil {
		return nil, fmt.Errorf("list contracts for %s: %w", accountID, err)
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var c Contract
		var itemsFetched bool
		var ents []byte
		if err := rows.Scan(&c.ID, &c.AccountID, &c.ProductID, &c.Name, &itemsFetched, &ents); err != nil {
			return nil, err
		}
		if len(ents) > 0 {
			if err := json.Unmarshal(ents, &c.Entitlements); err != nil {
				return nil, fmt.Errorf("decode entitlements for contract %s: %w", c.ID, err)
			}
		}
		if itemsFetched {
			items, err := r.itemsByContract(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			// fetched + пусто = пустой слайс, а не nil: nil означает «не получены»
			if items == nil {
				items = []ContractItem{}
			}
			c.Items = items
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) itemsByContract(ctx context.Context, contractID string) ([]ContractItem, error) {
	const q = `SELECT contract_id,listing_id,reason,subscription_id,renewal,start_date,end_date,value
	           FROM contract_items
	           WHERE contract_id=$1
	           ORDER BY start_date, listing_id`
	rows, err := r.db.Query(ctx, q, contractID)
	if err != nil {
		return nil, fmt.Errorf("list items for contract %s: %w", contractID, err)
	}
	defer rows.Close()

	var out []ContractItem
	for rows.Next() {
		var it ContractItem
		var renewal []byte
		if err := rows.Scan(&it.ContractID, &it.ListingID, &it.Reason, &it.SubscriptionID,
			&renewal, &it.StartDate, &it.EndDate, &it.Value); err != nil {
			return nil, err
		}
		if len(renewal) > 0 {
			var rn Renewal
			if err := json.Unmarshal(renewal, &rn); err != nil {
				return nil, fmt.Errorf("decode renewal for contract %s: %w", contractID, err)
			}
			it.Renewal = &rn
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) subscriptionsByAccount(ctx context.Context, accountID string) ([]Subscription, error) {
	const q = `SELECT id,account_id,marketplace,period,status,is_auto_renewing,last_purchase_id
	           FROM subscriptions
	           WHERE account_id=$1
	           ORDER BY id`
	rows, err := r.db.Query(ctx, q, accountID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions for %s: %w", accountID, err)
	}
	defer rows.Close()

	var out []Subscription
	for rows.Next() {
		var s Subscription
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Marketplace, &s.Period, &s.Status,
			&s.IsAutoRenewing, &s.LastPurchaseID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
