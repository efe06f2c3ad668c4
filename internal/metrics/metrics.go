package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pickwise/internal/logging"
	"pickwise/internal/picker"
	"pickwise/internal/prefs"
)

var (
	optionSuccessDesc = prometheus.NewDesc(
		"pickwise_option_accepts_total",
		"Times an option was accepted",
		[]string{"title"},
		nil,
	)
	optionFailureDesc = prometheus.NewDesc(
		"pickwise_option_skips_total",
		"Times an option was skipped",
		[]string{"title"},
		nil,
	)
	optionScoreDesc = prometheus.NewDesc(
		"pickwise_option_score",
		"Beta-mean preference score of an option",
		[]string{"title"},
		nil,
	)

	picksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickwise_picks_total",
		Help: "Final picks by adventurousness band",
	}, []string{"band"})

	outcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickwise_outcomes_total",
		Help: "Accept and skip actions",
	}, []string{"outcome"})
)

const collectTimeout = 5 * time.Second

// OptionCollector is a custom Prometheus collector that reads option stats
// from the preference store on each scrape.
type OptionCollector struct {
	store prefs.Store
}

// NewOptionCollector returns a collector over store.
func NewOptionCollector(store prefs.Store) *OptionCollector {
	return &OptionCollector{store: store}
}

// Describe sends the metric descriptors to the channel.
func (c *OptionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- optionSuccessDesc
	ch <- optionFailureDesc
	ch <- optionScoreDesc
}

// Collect lists every option stat and emits its counts and score.
func (c *OptionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	stats, err := c.store.ListStats(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("failed to collect option metrics")
		return
	}
	for _, s := range stats {
		ch <- prometheus.MustNewConstMetric(optionSuccessDesc, prometheus.CounterValue, float64(s.SuccessCount), s.Title)
		ch <- prometheus.MustNewConstMetric(optionFailureDesc, prometheus.CounterValue, float64(s.FailureCount), s.Title)
		ch <- prometheus.MustNewConstMetric(optionScoreDesc, prometheus.GaugeValue, picker.BetaMean(s.SuccessCount, s.FailureCount), s.Title)
	}
}

// Register adds the option collector and the action counters to reg.
func Register(reg prometheus.Registerer, store prefs.Store) error {
	for _, c := range []prometheus.Collector{NewOptionCollector(store), picksTotal, outcomesTotal} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

var initOnce sync.Once

// Init registers everything with the default registry.
// Must be called once at startup.
func Init(store prefs.Store) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewOptionCollector(store), picksTotal, outcomesTotal)
	})
}

// RecordPick counts a final pick under its adventurousness band.
func RecordPick(adventure float64) {
	picksTotal.WithLabelValues(picker.AdventureLabel(adventure)).Inc()
}

// RecordOutcome counts an accept or skip.
func RecordOutcome(outcome string) {
	outcomesTotal.WithLabelValues(outcome).Inc()
}
