// Package metrics provides Prometheus metrics for pagetree.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagetree_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pagetree_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Tree metrics
	treeBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagetree_tree_builds_total",
			Help: "Total number of tree rebuilds",
		},
		[]string{"status"},
	)

	treeBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pagetree_tree_build_duration_seconds",
			Help:    "Time to fetch a listing and rebuild both trees",
			Buckets: prometheus.DefBuckets,
		},
	)

	orphansDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pagetree_orphans_dropped_total",
			Help: "Listing entries dropped because their parent was missing",
		},
	)

	pageCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pagetree_pages",
			Help: "Number of pages in the current page tree",
		},
	)

	fileCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pagetree_files",
			Help: "Number of nodes in the current file tree",
		},
	)

	// Source metrics
	contentFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagetree_content_fetches_total",
			Help: "Total page body fetches",
		},
		[]string{"status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordBuild records a rebuild attempt.
func RecordBuild(duration time.Duration, success bool) {
	treeBuildDuration.Observe(duration.Seconds())
	treeBuildsTotal.WithLabelValues(status(success)).Inc()
}

// RecordTreeSize records the size of a freshly built snapshot.
func RecordTreeSize(files, pages, orphans int) {
	fileCount.Set(float64(files))
	pageCount.Set(float64(pages))
	orphansDropped.Add(float64(orphans))
}

// RecordContentFetch records a page body fetch.
func RecordContentFetch(success bool) {
	contentFetchesTotal.WithLabelValues(status(success)).Inc()
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
