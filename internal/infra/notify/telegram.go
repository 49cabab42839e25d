package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/contracts"
	"github.com/Spok95/contracts-hub/internal/domain/views"
)

// Notifier шлёт сводки в админский чат Telegram.
type Notifier struct {
	log    *slog.Logger
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewNotifier(log *slog.Logger, token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Notifier{log: log, api: api, chatID: chatID}, nil
}

// NotifyExpiring отправляет одну сводку по подпискам, истекающим в окне.
func (n *Notifier) NotifyExpiring(subs []views.UserSubscription) error {
	if len(subs) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Истекающие подписки: %d\n", len(subs))
	for _, s := range subs {
		fmt.Fprintf(&sb, "• %s (%s, %s) — до %s, машин: %d\n",
			s.ProductName, s.Type.String(), s.AccountID,
			s.EndDate.Format("2006-01-02"), s.NumberOfMachines,
		)
	}

	msg := tgbotapi.NewMessage(n.chatID, sb.String())
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// SummarySource — все срезы аккаунтов (contracts.Repo).
type SummarySource interface {
	UserSummaries(ctx context.Context) ([]contracts.UserSummary, error)
}

// CatalogSource — каталог листингов (catalog.Repo).
type CatalogSource interface {
	ListingMap(ctx context.Context, marketplace string) (map[string]catalog.Listing, error)
}

// Sweeper периодически пересобирает виды по всем аккаунтам и шлёт сводку
// по не-free записям, истекающим в ближайшие WindowDays.
type Sweeper struct {
	log         *slog.Logger
	summaries   SummarySource
	listings    CatalogSource
	builder     *views.Builder
	notifier    *Notifier
	marketplace string
	windowDays  int
	interval    time.Duration
	now         func() time.Time
}

func NewSweeper(log *slog.Logger, summaries SummarySource, listings CatalogSource, builder *views.Builder,
	notifier *Notifier, marketplace string, windowDays int, interval time.Duration) *Sweeper {
	return &Sweeper{
		log:         log,
		summaries:   summaries,
		listings:    listings,
		builder:     builder,
		notifier:    notifier,
		marketplace: marketplace,
		windowDays:  windowDays,
		interval:    interval,
		now:         time.Now,
	}
}

// Run блокируется до отмены контекста; первый проход — сразу при старте.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		if err := s.sweep(ctx); err != nil {
			s.log.Error("expiry sweep failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) error {
	summaries, err := s.summaries.UserSummaries(ctx)
	if err != nil {
		return fmt.Errorf("load summaries: %w", err)
	}
	listings, err := s.listings.ListingMap(ctx, s.marketplace)
	if err != nil {
		return fmt.Errorf("load listings: %w", err)
	}

	subs, err := s.builder.Build(summaries, listings)
	if err != nil {
		return fmt.Errorf("build views: %w", err)
	}

	now := s.now().UTC()
	cutoff := now.AddDate(0, 0, s.windowDays)

	var expiring []views.UserSubscription
	for _, sub := range subs {
		if sub.Type.Kind == views.KindFree {
			continue
		}
		if sub.EndDate.After(now) && !sub.EndDate.After(cutoff) {
			expiring = append(expiring, sub)
		}
	}

	s.log.Debug("expiry sweep complete", "total", len(subs), "expiring", len(expiring))
	return s.notifier.NotifyExpiring(expiring)
}
