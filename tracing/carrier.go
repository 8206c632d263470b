package tracing

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

// A Carrier is a flat string-keyed map used to move trace-context and
// business-context fields across a transport boundary. It implements the
// OpenTelemetry TextMapCarrier interface so it can be handed directly to a
// propagator.
type Carrier map[string]string

// Get returns the value for key. Because intermediary gateways vary header
// casing, the lookup tries the key as given, then its canonical MIME form,
// then its lower-cased form.
func (c Carrier) Get(key string) string {
	if v, ok := c[key]; ok {
		return v
	}
	if v, ok := c[http.CanonicalHeaderKey(key)]; ok {
		return v
	}
	return c[strings.ToLower(key)]
}

// Set stores the key-value pair. Empty keys and values are ignored so that
// injection never writes null entries into the target carrier.
func (c Carrier) Set(key, value string) {
	if key == "" || value == "" {
		return
	}
	c[key] = value
}

// Keys lists the keys stored in the carrier.
func (c Carrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// A MessageAttribute is a queue message attribute value. Only attributes
// carrying a string value participate in context propagation; binary
// attributes are ignored.
type MessageAttribute struct {
	DataType    string
	StringValue *string
	BinaryValue []byte
}

// CarrierFromHTTPHeader normalizes HTTP headers into a Carrier. Keys keep the
// case they arrived with; for multi-valued headers the first value wins.
// A nil header yields an empty carrier.
func CarrierFromHTTPHeader(h http.Header) Carrier {
	carrier := make(Carrier, len(h))
	for k, vs := range h {
		if len(vs) > 0 {
			carrier[k] = vs[0]
		}
	}
	return carrier
}

// CarrierFromMessageAttributes normalizes queue message attributes into a
// Carrier, keeping only attributes with a present string value. A nil map
// yields an empty carrier.
func CarrierFromMessageAttributes(attrs map[string]MessageAttribute) Carrier {
	carrier := make(Carrier, len(attrs))
	for k, a := range attrs {
		if a.StringValue != nil && *a.StringValue != "" {
			carrier[k] = *a.StringValue
		}
	}
	return carrier
}

// CarrierFromRecordHeaders normalizes stream record headers into a Carrier.
// Record headers arrive as a sequence of header groups, each mapping a key to
// raw bytes; every value is decoded as UTF-8 and the groups are merged flat.
// If the same key appears in multiple groups the last one encountered wins.
// Values that are not valid UTF-8 are skipped. A nil slice yields an empty
// carrier.
func CarrierFromRecordHeaders(groups []map[string][]byte) Carrier {
	carrier := make(Carrier)
	for _, group := range groups {
		for k, raw := range group {
			if k == "" || len(raw) == 0 {
				continue
			}
			if !utf8.Valid(raw) {
				continue
			}
			carrier[k] = string(raw)
		}
	}
	return carrier
}
