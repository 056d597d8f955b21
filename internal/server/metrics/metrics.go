// Package metrics provides Prometheus metrics for the gophdrive server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload results used as the "result" label.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultBusy     = "busy"
	ResultFailed   = "failed"

	// ResultDropped marks a mirror job discarded because the queue was full.
	ResultDropped = "dropped"
	// ResultSuperseded marks a mirror job whose file was replaced by a later
	// upload before the worker got to it.
	ResultSuperseded = "superseded"
)

var (
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophdrive_uploads_total",
			Help: "Total number of finished uploads",
		},
		[]string{"result"},
	)

	uploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gophdrive_upload_bytes_total",
			Help: "Total payload bytes stored by completed uploads",
		},
	)

	lockConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gophdrive_lock_conflicts_total",
			Help: "Uploads rejected because the destination was being written",
		},
	)

	activeUploads = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gophdrive_active_uploads",
			Help: "Number of upload streams currently open",
		},
	)

	listRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophdrive_list_requests_total",
			Help: "Total directory listings by status code",
		},
		[]string{"code"},
	)

	mirrorObjectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophdrive_mirror_objects_total",
			Help: "Completed uploads copied to object storage, by result",
		},
		[]string{"result"},
	)

	journalErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gophdrive_journal_errors_total",
			Help: "Upload journal writes that failed",
		},
	)

	grpcRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gophdrive_grpc_request_duration_seconds",
			Help:    "gRPC call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// UploadStarted marks a new upload stream; the returned func marks its end.
func UploadStarted() func() {
	activeUploads.Inc()
	return activeUploads.Dec
}

// RecordUpload records a finished upload.
func RecordUpload(result string, bytes int64) {
	uploadsTotal.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		uploadBytesTotal.Add(float64(bytes))
	}
	if result == ResultBusy {
		lockConflictsTotal.Inc()
	}
}

// RecordList records a directory listing.
func RecordList(code string) {
	listRequestsTotal.WithLabelValues(code).Inc()
}

// RecordGRPCRequest records the duration of a gRPC call.
func RecordGRPCRequest(method, code string, duration time.Duration) {
	grpcRequestDuration.WithLabelValues(method, code).Observe(duration.Seconds())
}

// RecordMirror records the outcome of one object storage copy.
func RecordMirror(result string) {
	mirrorObjectsTotal.WithLabelValues(result).Inc()
}

// RecordJournalError counts a failed journal write.
func RecordJournalError() {
	journalErrorsTotal.Inc()
}
