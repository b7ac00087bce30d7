package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
)

type lifecycleStore interface {
	GetAll(ctx context.Context) []models.InstrumentRecord
	SaveAll(ctx context.Context, records []models.InstrumentRecord) error
}

type recordSearcher interface {
	Search(ctx context.Context, query string) []models.InstrumentRecord
}

// SweepObserver is notified after each completed sweep.
type SweepObserver interface {
	ObserveSweep(changed int)
}

// LifecycleService decides which records belong to the daily-operations view
// and runs the end-of-day reset sweep.
type LifecycleService struct {
	store    lifecycleStore
	searcher recordSearcher
	logger   *zap.Logger
	observer SweepObserver
	now      func() time.Time
}

// LifecycleOption configures the service.
type LifecycleOption func(*LifecycleService)

// WithLifecycleClock overrides the time source.
func WithLifecycleClock(now func() time.Time) LifecycleOption {
	return func(s *LifecycleService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSweepObserver attaches a sweep observer.
func WithSweepObserver(observer SweepObserver) LifecycleOption {
	return func(s *LifecycleService) { s.observer = observer }
}

// NewLifecycleService builds the visibility policy.
func NewLifecycleService(store lifecycleStore, searcher recordSearcher, logger *zap.Logger, opts ...LifecycleOption) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LifecycleService{store: store, searcher: searcher, logger: logger, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// TodayView returns the records relevant to today's check-in/check-out
// activity. A non-empty query overrides the daily-window rules entirely and
// delegates to the search engine over all records.
func (s *LifecycleService) TodayView(ctx context.Context, query string) []models.InstrumentRecord {
	if strings.TrimSpace(query) != "" {
		return s.searcher.Search(ctx, query)
	}

	today := s.now().Format(models.DateLayout)
	visible := make([]models.InstrumentRecord, 0)
	for _, record := range s.store.GetAll(ctx) {
		if record.DeletedTodayRecord {
			continue
		}
		if datePart(record.OutboundTime) == today || datePart(record.InboundTime) == today {
			visible = append(visible, record)
			continue
		}
		if withinDisplayWindow(record.DisplayUntil, today) {
			visible = append(visible, record)
		}
	}
	return visible
}

// Sweep performs the daily reset: records checked out and back in (or used)
// today get their in/out timestamps cleared and are hidden from the daily
// view. Persists only when at least one record changed. Returns the number
// of records swept.
func (s *LifecycleService) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	today := now.Format(models.DateLayout)

	records := s.store.GetAll(ctx)
	changed := 0
	for i := range records {
		record := &records[i]
		if record.OutboundTime == models.EmptyTimeMarker {
			continue
		}
		if record.InboundTime == models.EmptyTimeMarker && record.UsedTime == models.EmptyTimeMarker {
			continue
		}
		if datePart(record.InboundTime) != today {
			continue
		}
		record.OutboundTime = models.EmptyTimeMarker
		record.InboundTime = models.EmptyTimeMarker
		record.DeletedTodayRecord = true
		record.RefreshedAt = now.Format(models.DateTimeLayout)
		changed++
	}

	if changed == 0 {
		return 0, nil
	}
	if err := s.store.SaveAll(ctx, records); err != nil {
		return 0, err
	}
	if s.observer != nil {
		s.observer.ObserveSweep(changed)
	}
	s.logger.Sugar().Infow("daily sweep complete", "swept", changed)
	return changed, nil
}

// datePart extracts the calendar-day portion of a stored timestamp string,
// or empty when the value does not parse.
func datePart(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{models.DateTimeLayout, models.DateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	return ""
}

// withinDisplayWindow reports whether today is on or before the displayUntil
// date.
func withinDisplayWindow(displayUntil, today string) bool {
	if displayUntil == "" {
		return false
	}
	until, err := time.Parse(models.DateLayout, displayUntil)
	if err != nil {
		return false
	}
	day, err := time.Parse(models.DateLayout, today)
	if err != nil {
		return false
	}
	return !day.After(until)
}

// Sweeper drives the sweep from a recurring timer. The trigger window is
// approximate: the sweep fires on the first tick at or past the configured
// local wall-clock time, at most once per calendar day.
type Sweeper struct {
	svc      *LifecycleService
	interval time.Duration
	trigger  string
	logger   *zap.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastRun string
}

// NewSweeper builds a sweeper with the given tick interval and HH:MM
// trigger threshold.
func NewSweeper(svc *LifecycleService, interval time.Duration, trigger string, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if trigger == "" {
		trigger = "23:58"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{svc: svc, interval: interval, trigger: trigger, logger: logger}
}

// Start begins ticking. Safe to call once.
func (w *Sweeper) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
	w.started = true
	w.logger.Sugar().Infow("sweeper started", "interval", w.interval, "trigger", w.trigger)
}

// Stop cancels the ticker loop and waits for it to exit.
func (w *Sweeper) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.mu.Unlock()
	w.wg.Wait()
	w.logger.Sugar().Infow("sweeper stopped")
}

func (w *Sweeper) run(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Sweeper) tick(ctx context.Context) {
	now := w.svc.now()
	if now.Format("15:04") < w.trigger {
		return
	}
	today := now.Format(models.DateLayout)
	if w.lastRun == today {
		return
	}
	w.lastRun = today

	if _, err := w.svc.Sweep(ctx); err != nil {
		w.logger.Warn("daily sweep failed", zap.Error(err))
	}
}
