package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rshade/ecoshopper/internal/logging"
)

// TraceHeader carries the trace id in both directions.
const TraceHeader = "X-Trace-Id"

// traceLogger attaches a trace id and a request-scoped logger to the context
// and logs each request once it completes.
func (s *Server) traceLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(TraceHeader); id != "" {
			ctx = logging.ContextWithTraceID(ctx, id)
		}
		traceID := logging.GetOrGenerateTraceID(ctx)
		ctx = logging.ContextWithTraceID(ctx, traceID)

		logger := s.logger.With().
			Str("request_id", middleware.GetReqID(ctx)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		ctx = logger.WithContext(ctx)

		w.Header().Set(TraceHeader, traceID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Ctx(ctx).
			Str("operation", "http_request").
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}
