package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := NewBatch(reg)

	start := time.Unix(1_700_000_000, 0)
	b.Observe(Observation{Read: 10, Loaded: 8, Duplicates: 2, Matched: 5, Unmatched: 1, Started: start, Finished: start.Add(time.Second)})
	b.Observe(Observation{Outcome: OutcomeSourceError, Started: start, Finished: start})

	assert.Equal(t, 1.0, testutil.ToFloat64(b.runs.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.runs.WithLabelValues(OutcomeSourceError)))
	assert.Equal(t, 10.0, testutil.ToFloat64(b.rowsRead))
	assert.Equal(t, 8.0, testutil.ToFloat64(b.rowsLoaded))
	assert.Equal(t, 2.0, testutil.ToFloat64(b.duplicates))
	assert.Equal(t, 5.0, testutil.ToFloat64(b.tokens.WithLabelValues("matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.tokens.WithLabelValues("unmatched")))
	assert.Equal(t, float64(start.Add(time.Second).Unix()), testutil.ToFloat64(b.lastSuccess))

	n, err := testutil.GatherAndCount(reg, namespace+"_batch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBatch_NilIsNoop(t *testing.T) {
	var b *Batch
	assert.NotPanics(t, func() { b.Observe(Observation{Read: 1}) })
}

func TestNewBatch_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewBatch(prometheus.NewRegistry())
		NewBatch(prometheus.NewRegistry())
	})
}
