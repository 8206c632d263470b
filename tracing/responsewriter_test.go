package tracing

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPResponseWriterCapturesStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewHTTPResponseWriter(rec)

	rw.WriteHeader(404)
	n, err := rw.Write([]byte("not found"))

	assert.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, 404, rw.StatusCode())
	assert.Equal(t, uint64(9), rw.ResponseBytes())
	assert.Equal(t, 404, rec.Code)
}

func TestHTTPResponseWriterDefaultsToOK(t *testing.T) {
	rw := NewHTTPResponseWriter(httptest.NewRecorder())
	assert.Equal(t, 200, rw.StatusCode())

	rw = NewHTTPResponseWriter(httptest.NewRecorder())
	rw.Write([]byte("implicit 200"))
	assert.Equal(t, 200, rw.StatusCode())
}
