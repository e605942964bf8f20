/*
scheduler.go - Periodic summary publisher

PURPOSE:
  Keeps the roster gauges (employee count, dependent count, combined yearly
  cost) fresh for Prometheus scrapes. Mutations already invalidate the
  cached summary; the publisher reads it on a fixed interval and logs the
  headline figures.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Publishes once immediately on Start
  - Stop waits for the goroutine to exit

USAGE:
  publisher := NewSummaryPublisher(roster, metrics, logger)
  publisher.Interval = cfg.SummaryInterval
  publisher.Start()
  // ... later
  publisher.Stop()

SEE ALSO:
  - obs/metrics.go: RosterMetrics gauges
  - benefits/roster.go: Summary cache
*/
package api

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/benefits-engine/benefits"
	"github.com/warp/benefits-engine/obs"
)

// SummaryPublisher refreshes summary metrics on a ticker.
type SummaryPublisher struct {
	Roster   *benefits.Roster
	Metrics  *obs.RosterMetrics
	Logger   zerolog.Logger
	Interval time.Duration
	Enabled  bool

	// now is replaced in tests.
	now func() time.Time

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewSummaryPublisher creates a publisher with a one minute interval.
func NewSummaryPublisher(roster *benefits.Roster, metrics *obs.RosterMetrics, logger zerolog.Logger) *SummaryPublisher {
	return &SummaryPublisher{
		Roster:   roster,
		Metrics:  metrics,
		Logger:   logger,
		Interval: time.Minute,
		Enabled:  true,
		now:      time.Now,
	}
}

// Start begins publishing. Calling Start on a running publisher is a no-op.
func (sp *SummaryPublisher) Start() {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if !sp.Enabled {
		sp.Logger.Info().Msg("summary publisher disabled, not starting")
		return
	}
	if sp.running {
		return
	}

	sp.ticker = time.NewTicker(sp.Interval)
	sp.stop = make(chan struct{})
	sp.running = true
	sp.wg.Add(1)

	go sp.run()

	sp.Logger.Info().Dur("interval", sp.Interval).Msg("summary publisher started")
}

// Stop stops the publisher and waits for it to exit.
func (sp *SummaryPublisher) Stop() {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if !sp.running {
		return
	}
	sp.ticker.Stop()
	close(sp.stop)
	sp.wg.Wait()
	sp.running = false
	sp.Logger.Info().Msg("summary publisher stopped")
}

func (sp *SummaryPublisher) run() {
	defer sp.wg.Done()

	// Publish immediately on start
	sp.Publish()

	for {
		select {
		case <-sp.ticker.C:
			sp.Publish()
		case <-sp.stop:
			return
		}
	}
}

// Publish reads the current summary and updates the gauges.
func (sp *SummaryPublisher) Publish() {
	totals, ok := sp.Roster.Summary()
	now := time.Now
	if sp.now != nil {
		now = sp.now
	}
	sp.Metrics.Publish(totals, ok, now())

	if !ok {
		sp.Logger.Debug().Msg("summary published: no data")
		return
	}
	sp.Logger.Debug().
		Int("employees", totals.EmployeeCount).
		Int("dependents", totals.DependentCount).
		Float64("combined_yearly", totals.CombinedYearlyTotal).
		Msg("summary published")
}
