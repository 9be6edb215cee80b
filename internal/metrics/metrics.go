package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "influencer_fetch_total",
		Help: "Upstream fetches by kind and outcome",
	}, []string{"kind", "outcome"})

	profilesRanked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "influencer_profiles_ranked_total",
		Help: "Profiles that passed every filter and were scored",
	})

	profilesFiltered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "influencer_profiles_filtered_total",
		Help: "Profiles excluded from a ranking, by rejecting predicate",
	}, []string{"reason"})

	pipelineDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "influencer_pipeline_duration_seconds",
		Help:    "Wall time of a fetch-and-rank run",
		Buckets: []float64{1, 5, 10, 20, 30, 60, 120},
	}, []string{"mode"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "influencer_cache_lookups_total",
		Help: "Profile cache lookups by result",
	}, []string{"result"})

	upstreamUpDesc = prometheus.NewDesc(
		"influencer_upstream_up",
		"Whether the last upstream probe succeeded (1) or failed (0)",
		nil,
		nil,
	)
)

// StatusSource reports the latest upstream probe result. checked is false
// until the first probe has run.
type StatusSource interface {
	UpstreamStatus() (up bool, checked bool)
}

// UpstreamCollector exposes the probe status on each scrape.
type UpstreamCollector struct {
	src StatusSource
}

// Describe sends the metric descriptor to the channel.
func (c *UpstreamCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upstreamUpDesc
}

// Collect emits the gauge once a probe has completed.
func (c *UpstreamCollector) Collect(ch chan<- prometheus.Metric) {
	up, checked := c.src.UpstreamStatus()
	if !checked {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	ch <- prometheus.MustNewConstMetric(upstreamUpDesc, prometheus.GaugeValue, v)
}

var initOnce sync.Once

// Init registers every collector with the default registry.
// src may be nil when no upstream probe runs. Must be called once at startup.
func Init(src StatusSource) {
	initOnce.Do(func() {
		prometheus.MustRegister(fetchTotal, profilesRanked, profilesFiltered, pipelineDuration, cacheLookups)
		if src != nil {
			prometheus.MustRegister(&UpstreamCollector{src: src})
		}
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFetch counts one upstream fetch. kind is "profile" or "hashtag".
func RecordFetch(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	fetchTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordRanked counts profiles that made it into a ranking.
func RecordRanked(n int) {
	profilesRanked.Add(float64(n))
}

// RecordFiltered counts one profile rejected by the named predicate.
func RecordFiltered(reason string) {
	profilesFiltered.WithLabelValues(reason).Inc()
}

// ObservePipeline records the duration of a run.
func ObservePipeline(mode string, d time.Duration) {
	pipelineDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// RecordCacheLookup counts a profile cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}
