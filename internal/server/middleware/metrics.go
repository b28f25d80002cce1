package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RequestMetrics returns middleware that records a request counter and
// duration histogram on the given meter. If meter is nil the middleware is a
// pass-through.
func RequestMetrics(meter metric.Meter) func(http.Handler) http.Handler {
	if meter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	counter, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Count of handled HTTP requests"))
	if err != nil {
		return func(next http.Handler) http.Handler { return next }
	}
	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			attrs := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.Int("http.status_code", ww.Status()),
			)
			counter.Add(r.Context(), 1, attrs)
			duration.Record(r.Context(), float64(time.Since(start).Milliseconds()), attrs)
		})
	}
}
