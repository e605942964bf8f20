package api

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefits-engine/benefits"
	"github.com/warp/benefits-engine/benefits/store"
	"github.com/warp/benefits-engine/obs"
)

func newTestPublisher(t *testing.T) (*SummaryPublisher, *benefits.Roster, *obs.RosterMetrics) {
	t.Helper()
	roster, err := benefits.OpenRoster(context.Background(), store.NewMemory("employees"), benefits.DefaultRates(), aliceAndBob)
	require.NoError(t, err)
	metrics := obs.NewRosterMetrics("benefits", prometheus.NewRegistry())
	sp := NewSummaryPublisher(roster, metrics, zerolog.Nop())
	sp.now = func() time.Time { return time.Unix(1700000000, 0) }
	return sp, roster, metrics
}

func TestSummaryPublisher_Publish(t *testing.T) {
	// GIVEN: Alice and Bob (+Carl)
	sp, roster, metrics := newTestPublisher(t)

	// WHEN: Publishing
	sp.Publish()

	// THEN: Gauges carry the summary
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Employees))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Dependents))
	assert.InDelta(t, 2400, testutil.ToFloat64(metrics.CombinedYearly), 1e-9)
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(metrics.LastPublished))

	// Mutations show up on the next publish.
	require.NoError(t, roster.Remove(context.Background(), "e2"))
	sp.Publish()
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Employees))
	assert.InDelta(t, 900, testutil.ToFloat64(metrics.CombinedYearly), 1e-9)
}

func TestSummaryPublisher_StartPublishesImmediately(t *testing.T) {
	sp, _, metrics := newTestPublisher(t)
	sp.Interval = time.Hour

	sp.Start()
	defer sp.Stop()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.Employees) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestSummaryPublisher_StopIsIdempotent(t *testing.T) {
	sp, _, _ := newTestPublisher(t)
	sp.Interval = 10 * time.Millisecond

	sp.Start()
	sp.Start()
	sp.Stop()
	sp.Stop()
}

func TestSummaryPublisher_Disabled(t *testing.T) {
	sp, _, metrics := newTestPublisher(t)
	sp.Enabled = false

	sp.Start()
	sp.Stop()

	assert.Zero(t, testutil.ToFloat64(metrics.Employees))
}
