package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ db *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

// ListingMap — весь каталог по marketplace, ключ = listing id.
// Каталог обязан быть полным относительно контрактов: отсутствие ключа
// при сборке видов — фатальное нарушение входного контракта, не здесь.
func (r *Repo) ListingMap(ctx context.Context, marketplace string) (map[string]Listing, error) {
	const q = `SELECT id,product_id,name,marketplace,period,price::text,currency
	           FROM listings
	           WHERE marketplace=$1
	           ORDER BY id`
	rows, err := r.db.Query(ctx, q, marketplace)
	if err != nil {
		return nil, fmt.Errorf("list listings for %s: %w", marketplace, err)
	}
	defer rows.Close()

	out := map[string]Listing{}
	for rows.Next() {
		var l Listing
		var price string
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Name, &l.Marketplace, &l.Period, &price, &l.Currency); err != nil {
			return nil, err
		}
		l.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("bad price for listing %s: %w", l.ID, err)
		}
		out[l.ID] = l
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for id, l := range out {
		tiers, err := r.tiersByListing(ctx, id)
		if err != nil {
			return nil, err
		}
		l.Tiers = tiers
		out[id] = l
	}
	return out, nil
}

func (r *Repo) tiersByListing(ctx context.Context, listingID string) ([]PricingTier, error) {
	const q = `SELECT min_units,max_units,unit_price::text
	           FROM listing_tiers
	           WHERE listing_id=$1
	           ORDER BY min_units ASC`
	rows, err := r.db.Query(ctx, q, listingID)
	if err != nil {
		return nil, fmt.Errorf("list tiers for %s: %w", listingID, err)
	}
	defer rows.Close()

	var out []PricingTier
	for rows.Next() {
		var t PricingTier
		var mx sql.NullInt32
		var price string
		if err := rows.Scan(&t.MinUnits, &mx, &price); err != nil {
			return nil, err
		}
		if mx.Valid {
			v := int(mx.Int32)
			t.MaxUnits = &v
		}
		t.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("bad unit price for %s: %w", listingID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
