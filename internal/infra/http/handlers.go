package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/contracts"
	"github.com/Spok95/contracts-hub/internal/domain/views"
	"github.com/Spok95/contracts-hub/internal/report"
)

var viewsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "contracts_hub_user_subscriptions_built_total",
	Help: "User subscription view builds, by outcome.",
}, []string{"outcome"})

// SummarySource — чтение срезов аккаунтов (contracts.Repo).
type SummarySource interface {
	UserSummary(ctx context.Context, accountID string) (*contracts.UserSummary, error)
	RenewalInfo(ctx context.Context, subscriptionID string) (*contracts.RenewalInfo, error)
}

// CatalogSource — чтение каталога листингов (catalog.Repo).
type CatalogSource interface {
	ListingMap(ctx context.Context, marketplace string) (map[string]catalog.Listing, error)
}

type Handler struct {
	log         *slog.Logger
	summaries   SummarySource
	listings    CatalogSource
	builder     *views.Builder
	marketplace string
}

func NewHandler(log *slog.Logger, summaries SummarySource, listings CatalogSource, builder *views.Builder, marketplace string) *Handler {
	return &Handler{
		log:         log,
		summaries:   summaries,
		listings:    listings,
		builder:     builder,
		marketplace: marketplace,
	}
}

// UserSubscriptions — GET /v1/user-subscriptions?account=<id>
func (h *Handler) UserSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, ok := h.buildForRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, subs)
}

// UserSubscriptionsReport — GET /v1/reports/user-subscriptions.xlsx?account=<id>
func (h *Handler) UserSubscriptionsReport(w http.ResponseWriter, r *http.Request) {
	subs, ok := h.buildForRequest(w, r)
	if !ok {
		return
	}

	buf, err := report.UserSubscriptionsXLSX(subs)
	if err != nil {
		h.log.Error("failed to build xlsx report", "err", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("user_subscriptions_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	_, _ = w.Write(buf.Bytes())
}

// UserInfo — GET /v1/user-info?account=<id>
// Дескриптор месячной подписки: renewal info запрашиваем только если
// подписка автопродляется (как и исходная выдача).
func (h *Handler) UserInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, ok := h.loadSummary(w, r)
	if !ok {
		return
	}

	var monthly *contracts.Subscription
	for i, sub := range summary.Subscriptions {
		if sub.Marketplace == h.marketplace && sub.Period == "monthly" && sub.Status == "active" {
			monthly = &summary.Subscriptions[i]
			break
		}
	}

	var info *contracts.RenewalInfo
	if monthly != nil && monthly.IsAutoRenewing {
		var err error
		info, err = h.summaries.RenewalInfo(ctx, monthly.ID)
		if err != nil {
			h.log.Error("failed to load renewal info", "subscription_id", monthly.ID, "err", err)
			http.Error(w, "failed to load renewal info", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, views.BuildUserInfo(monthly, info))
}

// LastPurchaseIDs — GET /v1/last-purchase-ids?account=<id>
// Карта marketplace → period → id последней покупки.
func (h *Handler) LastPurchaseIDs(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.loadSummary(w, r)
	if !ok {
		return
	}

	out := map[string]map[string]string{}
	for _, sub := range summary.Subscriptions {
		if out[sub.Marketplace] == nil {
			out[sub.Marketplace] = map[string]string{}
		}
		out[sub.Marketplace][sub.Period] = sub.LastPurchaseID
	}
	writeJSON(w, out)
}

func (h *Handler) loadSummary(w http.ResponseWriter, r *http.Request) (*contracts.UserSummary, bool) {
	accountID := r.URL.Query().Get("account")
	if accountID == "" {
		http.Error(w, "missing account parameter", http.StatusBadRequest)
		return nil, false
	}

	summary, err := h.summaries.UserSummary(r.Context(), accountID)
	if err != nil {
		h.log.Error("failed to load user summary", "account_id", accountID, "err", err)
		http.Error(w, "failed to load account", http.StatusInternalServerError)
		return nil, false
	}
	if summary == nil {
		http.Error(w, "account not found", http.StatusNotFound)
		return nil, false
	}
	return summary, true
}

func (h *Handler) buildForRequest(w http.ResponseWriter, r *http.Request) ([]views.UserSubscription, bool) {
	summary, ok := h.loadSummary(w, r)
	if !ok {
		return nil, false
	}

	listings, err := h.listings.ListingMap(r.Context(), h.marketplace)
	if err != nil {
		h.log.Error("failed to load listings", "marketplace", h.marketplace, "err", err)
		http.Error(w, "failed to load catalog", http.StatusInternalServerError)
		return nil, false
	}

	subs, err := h.builder.Build([]contracts.UserSummary{*summary}, listings)
	if err != nil {
		viewsBuilt.WithLabelValues("error").Inc()
		h.log.Error("failed to build user subscriptions", "account_id", summary.Account.ID, "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, views.ErrListingNotFound) || errors.Is(err, views.ErrBadDate) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, "failed to build user subscriptions", status)
		return nil, false
	}
	viewsBuilt.WithLabelValues("ok").Inc()
	return subs, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
