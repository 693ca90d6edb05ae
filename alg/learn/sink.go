package learn

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sink receives training events. Implementations must not modify the stats.
type Sink interface {
	Item(stats *ItemStats)
	Epoch(stats *EpochStats)
}

// LogSink writes events with the standard logger
type LogSink struct {
	Items bool
}

var _ Sink = &LogSink{}

func (s *LogSink) Item(stats *ItemStats) {
	if s.Items {
		log.Println(stats)
	}
}

func (s *LogSink) Epoch(stats *EpochStats) {
	log.Println(stats)
}

type MultiSink []Sink

func (m MultiSink) Item(stats *ItemStats) {
	for _, sink := range m {
		sink.Item(stats)
	}
}

func (m MultiSink) Epoch(stats *EpochStats) {
	for _, sink := range m {
		sink.Epoch(stats)
	}
}

// PromSink exports training events as prometheus metrics
type PromSink struct {
	items      *prometheus.CounterVec
	newEntries prometheus.Counter
	parseTime  prometheus.Histogram
	epoch      prometheus.Gauge
	accuracy   prometheus.Gauge
}

var _ Sink = &PromSink{}

// NewPromSink registers the training metrics with reg, the default registerer if nil
func NewPromSink(reg prometheus.Registerer) *PromSink {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &PromSink{
		items: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spf",
			Subsystem: "learn",
			Name:      "items_total",
			Help:      "Training items by outcome",
		}, []string{"outcome"}),
		newEntries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "spf",
			Subsystem: "learn",
			Name:      "lexical_entries_total",
			Help:      "Lexical entries added to the model",
		}),
		parseTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spf",
			Subsystem: "learn",
			Name:      "parse_seconds",
			Help:      "Model parse time per item",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		epoch: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "spf",
			Subsystem: "learn",
			Name:      "epoch",
			Help:      "Last completed epoch",
		}),
		accuracy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "spf",
			Subsystem: "learn",
			Name:      "gold_optimal_ratio",
			Help:      "Share of processed items whose single best parse was correct in the last epoch",
		}),
	}
}

func (s *PromSink) Item(stats *ItemStats) {
	switch {
	case stats.Skipped == TooLong:
		s.items.WithLabelValues("too_long").Inc()
		return
	case stats.Skipped == NoParse:
		s.items.WithLabelValues("no_parse").Inc()
	case stats.TriggeredUpdate:
		s.items.WithLabelValues("update").Inc()
	default:
		s.items.WithLabelValues("no_update").Inc()
	}
	if stats.GoldOptimal {
		s.items.WithLabelValues("gold_optimal").Inc()
	}
	s.newEntries.Add(float64(stats.NewLexicalEntries))
	s.parseTime.Observe(stats.ParseTime.Seconds())
}

func (s *PromSink) Epoch(stats *EpochStats) {
	s.epoch.Set(float64(stats.Epoch))
	if stats.Processed > 0 {
		s.accuracy.Set(float64(stats.GoldOptimal) / float64(stats.Processed))
	}
}
