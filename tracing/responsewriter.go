package tracing

import (
	"net/http"
)

// HTTPResponseWriter implements the http.ResponseWriter interface.
// It is used to capture the response status code and size for span
// enrichment and access logging.
type HTTPResponseWriter struct {
	w             http.ResponseWriter
	responseBytes uint64
	statusCode    int
}

func NewHTTPResponseWriter(w http.ResponseWriter) *HTTPResponseWriter {
	return &HTTPResponseWriter{w: w}
}

// Implements http.ResponseWriter
func (r *HTTPResponseWriter) Write(b []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	r.responseBytes += uint64(len(b))
	return r.w.Write(b)
}

// Implements http.ResponseWriter
func (r *HTTPResponseWriter) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.w.WriteHeader(statusCode)
}

// Implements http.ResponseWriter
func (r *HTTPResponseWriter) Header() http.Header {
	return r.w.Header()
}

func (r *HTTPResponseWriter) ResponseBytes() uint64 {
	return r.responseBytes
}

// StatusCode returns the captured status code. If the handler never wrote a
// header or a body, http.StatusOK is reported, matching net/http behavior.
func (r *HTTPResponseWriter) StatusCode() int {
	if r.statusCode == 0 {
		return http.StatusOK
	}
	return r.statusCode
}
