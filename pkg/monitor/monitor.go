package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/emreakca/cursorwatch/pkg/cursor"
	"github.com/emreakca/cursorwatch/pkg/model"
	"github.com/emreakca/cursorwatch/pkg/notify"
	"github.com/emreakca/cursorwatch/pkg/storage"
)

// Fetcher retrieves a usage snapshot from the billing API.
type Fetcher interface {
	FetchUsage(ctx context.Context, now time.Time) (model.UsageSnapshot, error)
}

// Config controls the monitor runtime behavior.
type Config struct {
	ThresholdCents int64
	PollInterval   time.Duration
	Cooldown       time.Duration
}

// Monitor runs the fetch → compute → notify → persist loop. There is
// exactly one mutator of MonitorState; ticks are serialized by a
// single-flight guard so a slow fetch never overlaps the next tick.
type Monitor struct {
	fetcher   Fetcher
	store     storage.Storage
	notifiers []notify.Notifier
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
	ticking   atomic.Bool
}

// New creates a monitor with the given dependencies.
func New(fetcher Fetcher, store storage.Storage, notifiers []notify.Notifier, cfg Config, logger *slog.Logger) *Monitor {
	return &Monitor{
		fetcher:   fetcher,
		store:     store,
		notifiers: notifiers,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (m *Monitor) WithClock(now func() time.Time) *Monitor {
	m.now = now
	return m
}

// Run ticks immediately, then on every poll interval until ctx is
// canceled. Tick errors are logged and left for the next interval;
// no backoff is applied.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		"interval", m.cfg.PollInterval,
		"threshold_usd", model.Dollars(m.cfg.ThresholdCents),
	)

	if err := m.Tick(ctx); err != nil {
		m.logger.Error("tick failed", "error", err)
	}

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopped")
			return nil
		case <-ticker.C:
			if err := m.Tick(ctx); err != nil {
				m.logger.Error("tick failed", "error", err)
			}
		}
	}
}

// Tick performs one fetch-compute-notify-persist cycle. A tick that
// finds another one still in flight is skipped, not queued. A failed
// fetch leaves baseline and history untouched and only records the
// error; persistence is detached from ctx cancellation so a stopping
// monitor never aborts mid-write.
func (m *Monitor) Tick(ctx context.Context) error {
	if !m.ticking.CompareAndSwap(false, true) {
		m.logger.Warn("previous tick still running, skipping")
		return nil
	}
	defer m.ticking.Store(false)

	now := m.now()

	state, err := m.store.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	snap, err := m.fetcher.FetchUsage(ctx, now)
	if err != nil {
		state.LastError = err.Error()
		if saveErr := m.store.SaveState(context.WithoutCancel(ctx), state); saveErr != nil {
			m.logger.Error("save error state", "error", saveErr)
		}
		if errors.Is(err, cursor.ErrUnauthorized) {
			m.logger.Error("authentication failed, run 'cursorwatch setup' with a fresh session token")
		}
		return err
	}

	persistCtx := context.WithoutCancel(ctx)

	if !state.Started() {
		state = InitBaseline(snap, now)
		if err := m.store.SaveState(persistCtx, state); err != nil {
			return fmt.Errorf("save baseline: %w", err)
		}
		m.logger.Info("session baseline established",
			"baseline_usd", model.Dollars(state.BaselineCents))
		return nil
	}

	prevKnown := state.LastKnownCents

	state, spending := UpdateSpending(state, snap)
	state, decision := Evaluate(state, spending, GateConfig{
		ThresholdCents: m.cfg.ThresholdCents,
		Cooldown:       m.cfg.Cooldown,
	}, now)
	state.LastError = ""

	switch decision.Reason {
	case ReasonFired:
		alert := notify.NewAlert(model.Dollars(decision.IncreaseCents), model.Dollars(spending), now)
		alert.RecentEvents = recentPricedEvents(snap.Events, 3)
		m.dispatch(ctx, alert)
	case ReasonBelowThreshold:
		m.logger.Info("spending increased below threshold",
			"increase_usd", model.Dollars(decision.IncreaseCents),
			"threshold_usd", model.Dollars(m.cfg.ThresholdCents),
		)
	case ReasonCooldown:
		m.logger.Info("notification suppressed by cooldown",
			"increase_usd", model.Dollars(decision.IncreaseCents),
			"last_notify_at", state.LastNotifyAt,
		)
	case ReasonSnoozed:
		m.logger.Info("notification snoozed", "until", state.SnoozeUntil)
	case ReasonNoIncrease:
		if decision.IncreaseCents < 0 {
			m.logger.Warn("spending decreased, possible new billing cycle",
				"from_usd", model.Dollars(prevKnown),
				"to_usd", model.Dollars(spending),
			)
		} else {
			m.logger.Debug("no change in spending", "total_usd", model.Dollars(spending))
		}
	}

	if err := m.store.AppendHistory(persistCtx, model.HistoryPoint{At: now, AmountCents: spending}); err != nil {
		m.logger.Error("append history", "error", err)
	}
	if err := m.store.SaveState(persistCtx, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// dispatch sends the alert on every channel; a failing channel is
// logged and does not stop the rest.
func (m *Monitor) dispatch(ctx context.Context, alert notify.Alert) {
	m.logger.Info("spending alert",
		"increase_usd", alert.IncreaseUSD,
		"total_usd", alert.TotalUSD,
	)
	for _, n := range m.notifiers {
		if err := n.Send(ctx, alert); err != nil {
			m.logger.Error("send alert failed", "notifier", n.Name(), "error", err)
		}
	}
}

// recentPricedEvents picks up to limit priced events, in snapshot order,
// as context lines for a fired alert.
func recentPricedEvents(events []model.UsageEvent, limit int) []notify.Event {
	var out []notify.Event
	for _, ev := range events {
		if ev.PriceCents <= 0 {
			continue
		}
		out = append(out, notify.Event{
			At:      ev.Timestamp,
			CostUSD: model.Dollars(ev.PriceCents),
			Model:   ev.ModelLabel,
		})
		if len(out) == limit {
			break
		}
	}
	return out
}
