// Package metrics holds the prometheus collectors of the import batch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hackathon_etl"

// Batch outcomes used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeSourceError = "source_error"
	OutcomeStoreError  = "store_error"
)

// Batch collects per-import counters. Collectors are registered on the
// registry handed to NewBatch, never on the default one.
type Batch struct {
	runs        *prometheus.CounterVec
	rowsRead    prometheus.Counter
	rowsLoaded  prometheus.Counter
	duplicates  prometheus.Counter
	tokens      *prometheus.CounterVec
	lastSuccess prometheus.Gauge
	duration    prometheus.Histogram
}

func NewBatch(reg prometheus.Registerer) *Batch {
	f := promauto.With(reg)
	return &Batch{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Import batches by outcome.",
		}, []string{"outcome"}),
		rowsRead: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Rows read from registration sources.",
		}),
		rowsLoaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Cleaned rows written to the registrations table.",
		}),
		duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_total",
			Help:      "Rows dropped because their email was already seen in the batch.",
		}),
		tokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "technology_tokens_total",
			Help:      "Technology tokens by fuzzy resolution result.",
		}, []string{"result"}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful import.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of import batches.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Observation is what one batch reports, whatever its outcome.
type Observation struct {
	Outcome    string
	Read       int
	Loaded     int
	Duplicates int
	Matched    int
	Unmatched  int
	Started    time.Time
	Finished   time.Time
}

func (b *Batch) Observe(o Observation) {
	if b == nil {
		return
	}
	if o.Outcome == "" {
		o.Outcome = OutcomeSuccess
	}
	b.runs.WithLabelValues(o.Outcome).Inc()
	b.rowsRead.Add(float64(o.Read))
	b.rowsLoaded.Add(float64(o.Loaded))
	b.duplicates.Add(float64(o.Duplicates))
	b.tokens.WithLabelValues("matched").Add(float64(o.Matched))
	b.tokens.WithLabelValues("unmatched").Add(float64(o.Unmatched))
	if !o.Started.IsZero() && o.Finished.After(o.Started) {
		b.duration.Observe(o.Finished.Sub(o.Started).Seconds())
	}
	if o.Outcome == OutcomeSuccess {
		b.lastSuccess.Set(float64(o.Finished.Unix()))
	}
}
