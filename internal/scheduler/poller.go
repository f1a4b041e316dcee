// Package scheduler runs the periodic portfolio poll: each cycle reads the
// ledger and price map, recomputes the snapshot and hands it to listeners.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjannette/trahn-stocks-backend/internal/ledger"
	"github.com/kjannette/trahn-stocks-backend/internal/logging"
	"github.com/kjannette/trahn-stocks-backend/internal/market"
	"github.com/kjannette/trahn-stocks-backend/internal/portfolio"
	"github.com/kjannette/trahn-stocks-backend/internal/risk"
)

// Notifier delivers operator messages (webhook sender in production).
type Notifier interface {
	Send(ctx context.Context, msg string) error
}

// Cycle is the result of one poll. A new cycle replaces the previous one
// outright; nothing carries over between cycles.
type Cycle struct {
	At       time.Time           `json:"at"`
	Session  market.Session      `json:"session"`
	Snapshot *portfolio.Snapshot `json:"snapshot"`
	// Breaker is the tripped breaker kind ("stop-loss" or "take-profit");
	// BreakerDetail carries the formatted message with the live return.
	Breaker       string `json:"breaker,omitempty"`
	BreakerDetail string `json:"breaker_detail,omitempty"`
	Error         string `json:"error,omitempty"`

	Err error `json:"-"`
}

type PollerConfig struct {
	Interval time.Duration // e.g. 60*time.Second
	Timeout  time.Duration // per-cycle bound on store reads
	OnCycle  func(Cycle)
}

type Poller struct {
	store      *ledger.Store
	classifier *market.Classifier
	analyzer   *portfolio.Analyzer
	guardian   *risk.Guardian
	notifier   Notifier
	log        *zap.Logger
	cfg        PollerConfig

	// runMu serializes cycles so a manual poll cannot interleave with a
	// scheduled one.
	runMu sync.Mutex

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}

	latest      *Cycle
	failing     bool
	lastBreaker string
}

func NewPoller(store *ledger.Store, classifier *market.Classifier, analyzer *portfolio.Analyzer,
	guardian *risk.Guardian, notifier Notifier, log *zap.Logger, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	log = logging.OrNop(log)
	return &Poller{
		store:      store,
		classifier: classifier,
		analyzer:   analyzer,
		guardian:   guardian,
		notifier:   notifier,
		log:        log.Named("poller"),
		cfg:        cfg,
	}
}

func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		p.log.Warn("already running")
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	stopCh, done := p.stopCh, p.done
	p.mu.Unlock()

	go func() {
		defer close(done)

		p.poll()

		ticker := time.NewTicker(p.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				p.poll()
			}
		}
	}()

	p.log.Info("started", zap.Duration("interval", p.cfg.Interval))
}

// Stop halts the ticker and waits for an in-flight cycle to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.running = false
	done := p.done
	p.mu.Unlock()

	<-done
	p.log.Info("stopped")
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Latest returns the most recent cycle, or false before the first poll.
func (p *Poller) Latest() (Cycle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return Cycle{}, false
	}
	return *p.latest, true
}

// FetchNow runs one cycle outside the schedule and returns it.
func (p *Poller) FetchNow(ctx context.Context) Cycle {
	p.log.Info("manual poll triggered")
	return p.run(ctx)
}

func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	defer cancel()
	p.run(ctx)
}

func (p *Poller) run(ctx context.Context) Cycle {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	c := p.compute(ctx)

	p.mu.Lock()
	p.latest = &c
	wasFailing := p.failing
	p.failing = c.Err != nil
	prevBreaker := p.lastBreaker
	p.lastBreaker = c.Breaker
	p.mu.Unlock()

	switch {
	case c.Err != nil:
		p.log.Error("poll failed", zap.Error(c.Err))
		if !wasFailing {
			p.notify(ctx, fmt.Sprintf("Portfolio poll failing: %v", c.Err))
		}
	case wasFailing:
		p.log.Info("poll recovered")
		p.notify(ctx, "Portfolio poll recovered")
	}

	if c.Breaker != "" && c.Breaker != prevBreaker {
		p.log.Warn("risk breaker tripped", zap.String("breaker", c.Breaker), zap.String("detail", c.BreakerDetail))
		p.notify(ctx, c.BreakerDetail)
	}

	if c.Snapshot != nil {
		p.log.Debug("cycle",
			zap.String("session", string(c.Session)),
			zap.Float64("balance", c.Snapshot.Balance.Balance),
			zap.Int("open", c.Snapshot.OpenPositions))
	}

	if p.cfg.OnCycle != nil {
		p.cfg.OnCycle(c)
	}
	return c
}

func (p *Poller) compute(ctx context.Context) Cycle {
	c := Cycle{
		At:      p.classifier.Time(),
		Session: p.classifier.Current(),
	}

	trades, prices, err := ledger.Snapshot(ctx, p.store.Trades, p.store.Prices)
	if err != nil {
		c.Err = err
		c.Error = err.Error()
		return c
	}

	snap := p.analyzer.Compute(trades, prices)
	c.Snapshot = &snap

	if p.guardian != nil {
		if err := p.guardian.Check(&snap); err != nil {
			if kind := risk.Kind(err); kind != "" {
				c.Breaker = kind
				c.BreakerDetail = err.Error()
			}
		}
	}
	return c
}

func (p *Poller) notify(ctx context.Context, msg string) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Send(ctx, msg); err != nil {
		p.log.Warn("notification not delivered", zap.Error(err))
	}
}
