package envelope

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/faaskit/fn-observation/metrics"
	"github.com/faaskit/fn-observation/tracing"
)

// httpEnvelopeHandler instruments inbound HTTP requests.
type httpEnvelopeHandler struct {
	in   *Instrument
	next http.Handler
}

// Middleware wraps next with the full observability flow for HTTP triggers:
// trace-context extraction from the request headers, a server root span
// named after the method and normalized route, business-context setup from
// the same headers, request/response/invocation enrichment, an access log
// line, and outcome metrics. The store and span are torn down on every path.
func (in *Instrument) Middleware(next http.Handler) http.Handler {
	return &httpEnvelopeHandler{in: in, next: next}
}

// ServeHTTP implements the http.Handler interface.
func (h *httpEnvelopeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	carrier := tracing.CarrierFromHTTPHeader(r.Header)
	spanName := r.Method + " " + tracing.NormalizeRoute(r.URL.Path)

	inv := h.in.begin(r.Context(), carrier, spanName, trace.SpanKindServer)
	defer inv.end()

	h.in.enricher.HTTPRequest(inv.span, r)

	rw := tracing.NewHTTPResponseWriter(w)
	h.next.ServeHTTP(rw, r.WithContext(inv.ctx))
	duration := time.Since(inv.start)

	h.in.enricher.HTTPResponse(inv.span, rw.StatusCode(), rw.ResponseBytes())

	outcome := metrics.OutcomeSuccess
	if rw.StatusCode() >= 500 {
		outcome = metrics.OutcomeFailed
	}
	h.in.record("http", outcome, metrics.StatusClass(rw.StatusCode()), duration)

	inv.logger.Info("Handled request",
		"method", r.Method,
		"code", rw.StatusCode(),
		"responseBytes", rw.ResponseBytes(),
		"durationMS", fmt.Sprintf("%0.3f", duration.Seconds()*1000),
		"path", r.URL.Path,
		"rawQuery", r.URL.RawQuery)
}
