package tracing

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestCarrierFromHTTPHeader(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-Business-ID", "abc")
	h.Add("Accept", "application/json")
	h.Add("Accept", "text/plain")

	carrier := CarrierFromHTTPHeader(h)

	assert.Equal(t, "abc", carrier.Get("X-Business-ID"))
	// first value wins for multi-valued headers
	assert.Equal(t, "application/json", carrier.Get("Accept"))
}

func TestCarrierFromHTTPHeaderNil(t *testing.T) {
	carrier := CarrierFromHTTPHeader(nil)
	assert.Empty(t, carrier.Keys())
}

func TestCarrierGetTriesCasingVariants(t *testing.T) {
	carrier := Carrier{"x-tenant-id": "acme"}
	assert.Equal(t, "acme", carrier.Get("X-Tenant-ID"))

	carrier = Carrier{"X-Tenant-Id": "acme"}
	assert.Equal(t, "acme", carrier.Get("x-tenant-id"))
}

func TestCarrierSetIgnoresEmpty(t *testing.T) {
	carrier := make(Carrier)
	carrier.Set("", "value")
	carrier.Set("key", "")
	assert.Empty(t, carrier.Keys())

	carrier.Set("key", "value")
	assert.Equal(t, "value", carrier.Get("key"))
}

func TestCarrierFromMessageAttributes(t *testing.T) {
	attrs := map[string]MessageAttribute{
		"X-Correlation-ID": {DataType: "String", StringValue: strptr("corr-1")},
		"payload-digest":   {DataType: "Binary", BinaryValue: []byte{0x01, 0x02}},
		"empty":            {DataType: "String", StringValue: strptr("")},
	}

	carrier := CarrierFromMessageAttributes(attrs)

	assert.Equal(t, "corr-1", carrier.Get("X-Correlation-ID"))
	assert.Len(t, carrier.Keys(), 1, "binary and empty attributes must be ignored")
}

func TestCarrierFromRecordHeadersLastWriteWins(t *testing.T) {
	groups := []map[string][]byte{
		{"X-Tenant-ID": []byte("acme"), "X-Operation": []byte("create")},
		{"X-Tenant-ID": []byte("globex")},
	}

	carrier := CarrierFromRecordHeaders(groups)

	assert.Equal(t, "globex", carrier.Get("X-Tenant-ID"))
	assert.Equal(t, "create", carrier.Get("X-Operation"))
}

func TestCarrierFromRecordHeadersSkipsInvalidUTF8(t *testing.T) {
	groups := []map[string][]byte{
		{"binary": {0xff, 0xfe}, "text": []byte("ok")},
	}

	carrier := CarrierFromRecordHeaders(groups)

	assert.Equal(t, "ok", carrier.Get("text"))
	assert.Len(t, carrier.Keys(), 1)
}

func TestCarrierFromRecordHeadersNil(t *testing.T) {
	assert.Empty(t, CarrierFromRecordHeaders(nil).Keys())
}
