// internal/app/system/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contacthub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contacthub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contacthub_login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contacthub_import_rows_total",
		Help: "CSV import rows by result (created, updated, skipped, failed)",
	}, []string{"result"})

	importRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contacthub_import_runs_total",
		Help: "CSV import runs by result",
	}, []string{"result"})

	exportRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contacthub_export_rows_total",
		Help: "Contacts written to CSV exports",
	})

	contactWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contacthub_contact_writes_total",
		Help: "Contact create, update and delete operations",
	}, []string{"op"})
)

// Login outcomes.
const (
	LoginSuccess     = "success"
	LoginFailed      = "failed"
	LoginDisabled    = "disabled"
	LoginRateLimited = "rate_limited"
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveLogin counts one login attempt.
func ObserveLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveImport records the row counts of one finished import. ok is false
// when the file was rejected as a whole.
func ObserveImport(ok bool, created, updated, skipped, failed int) {
	if !ok {
		importRuns.WithLabelValues("rejected").Inc()
		return
	}
	importRuns.WithLabelValues("ok").Inc()
	importRows.WithLabelValues("created").Add(float64(created))
	importRows.WithLabelValues("updated").Add(float64(updated))
	importRows.WithLabelValues("skipped").Add(float64(skipped))
	importRows.WithLabelValues("failed").Add(float64(failed))
}

// ObserveExport counts rows written to one export.
func ObserveExport(rows int) {
	exportRows.Add(float64(rows))
}

// ObserveContactWrite counts a contact create, update or delete.
func ObserveContactWrite(op string) {
	contactWrites.WithLabelValues(op).Inc()
}

// Middleware records request count and latency labelled by the matched chi
// route pattern, so /contacts/17 and /contacts/18 share one series.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ObserveHTTPRequest(r.Method, routePattern(r), strconv.Itoa(status), time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
