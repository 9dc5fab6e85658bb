// Package metrics exports merger cache statistics and HTTP request counts
// to Prometheus.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/vango-cn/pkg/cn"
)

const namespace = "vango_cn"

// StatsSource reports cache statistics. *cn.Merger implements it.
type StatsSource interface {
	Stats() cn.CacheStats
}

// CacheCollector reads cache statistics from a StatsSource on every scrape.
type CacheCollector struct {
	source  StatsSource
	hits    *prometheus.Desc
	misses  *prometheus.Desc
	flips   *prometheus.Desc
	entries *prometheus.Desc
}

// NewCacheCollector returns a collector for source.
func NewCacheCollector(source StatsSource) *CacheCollector {
	return &CacheCollector{
		source: source,
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "hits_total"),
			"Merge calls answered from the result cache.", nil, nil),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "misses_total"),
			"Merge calls that had to resolve conflicts.", nil, nil),
		flips: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "flips_total"),
			"Cache generation flips.", nil, nil),
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Distinct inputs resident in either cache generation.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.flips
	ch <- c.entries
}

// Collect implements prometheus.Collector.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.flips, prometheus.CounterValue, float64(s.Flips))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Entries))
}

// Metrics groups the collectors registered by the service.
type Metrics struct {
	Registry *prometheus.Registry
	Requests *prometheus.CounterVec
	Merges   *prometheus.CounterVec
}

// New registers the cache collector for source, the Go and process
// collectors, and the request counters on a fresh registry.
func New(source StatsSource) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		Merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Merge operations by operation and transport.",
		}, []string{"op", "transport"}),
	}
	m.Registry.MustRegister(
		NewCacheCollector(source),
		m.Requests,
		m.Merges,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware counts requests by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	return h.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
