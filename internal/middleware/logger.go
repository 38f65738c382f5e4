package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/PauloHFS/blog/internal/logging"
	"github.com/PauloHFS/blog/internal/metrics"
	"github.com/google/uuid"
)

type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx, event := logging.NewEventContext(r.Context())

		event.Add(
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
		)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r.WithContext(ctx))

		duration := time.Since(start)

		event.Add(
			slog.Int("status", rw.status),
			slog.Int("size", rw.size),
			duration_ms(duration),
		)

		// Prometheus Metrics. O pattern do mux evita uma série por id de post.
		status := strconv.Itoa(rw.status)
		metrics.HttpRequestsTotal.WithLabelValues(routePattern(event), r.Method, status).Inc()
		metrics.HttpRequestDuration.WithLabelValues(r.Method, status).Observe(duration.Seconds())

		level := slog.LevelInfo
		if rw.status >= 500 {
			level = slog.LevelError
		}

		logging.Get().Log(ctx, level, "request completed", event.Attrs()...)
	})
}

func routePattern(event *logging.Event) string {
	if route := event.Route(); route != "" {
		return route
	}
	return "unmatched"
}

// Route registra o pattern do mux no evento da requisição. Envolve
// handlers registrados fora do web.Handle (assets, métricas).
func Route(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.SetRoute(r.Context(), r.Pattern)
		next.ServeHTTP(w, r)
	})
}

func duration_ms(d time.Duration) slog.Attr {
	return slog.Float64("duration_ms", float64(d.Nanoseconds())/1e6)
}
