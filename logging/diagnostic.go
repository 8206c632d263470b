package logging

import (
	"sort"
	"strings"
	"sync"
)

// A DiagnosticContext is a mutable key/value store scoped to one invocation.
// Loggers bound to it (see Logger.WithDiagnostics) append its entries to every
// record they emit, so correlation fields reach each log line without
// threading them through call signatures.
//
// All methods are safe for concurrent use. The zero value is not usable; call
// NewDiagnosticContext.
type DiagnosticContext struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewDiagnosticContext returns an empty diagnostic context.
func NewDiagnosticContext() *DiagnosticContext {
	return &DiagnosticContext{values: make(map[string]string)}
}

// Set stores value under key, replacing any previous value.
func (dc *DiagnosticContext) Set(key, value string) {
	dc.mu.Lock()
	dc.values[key] = value
	dc.mu.Unlock()
}

// Delete removes key. Deleting an absent key is a no-op.
func (dc *DiagnosticContext) Delete(key string) {
	dc.mu.Lock()
	delete(dc.values, key)
	dc.mu.Unlock()
}

// DeletePrefix removes every key that starts with prefix.
func (dc *DiagnosticContext) DeletePrefix(prefix string) {
	dc.mu.Lock()
	for k := range dc.values {
		if strings.HasPrefix(k, prefix) {
			delete(dc.values, k)
		}
	}
	dc.mu.Unlock()
}

// Get returns the value for key and whether it is present.
func (dc *DiagnosticContext) Get(key string) (string, bool) {
	dc.mu.RLock()
	v, ok := dc.values[key]
	dc.mu.RUnlock()
	return v, ok
}

// Keys returns the current keys in sorted order.
func (dc *DiagnosticContext) Keys() []string {
	dc.mu.RLock()
	keys := make([]string, 0, len(dc.values))
	for k := range dc.values {
		keys = append(keys, k)
	}
	dc.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the current entries.
func (dc *DiagnosticContext) Snapshot() map[string]string {
	dc.mu.RLock()
	m := make(map[string]string, len(dc.values))
	for k, v := range dc.values {
		m[k] = v
	}
	dc.mu.RUnlock()
	return m
}

// Clear removes all entries.
func (dc *DiagnosticContext) Clear() {
	dc.mu.Lock()
	dc.values = make(map[string]string)
	dc.mu.Unlock()
}

// Len returns the number of entries.
func (dc *DiagnosticContext) Len() int {
	dc.mu.RLock()
	n := len(dc.values)
	dc.mu.RUnlock()
	return n
}

// appendFields appends the entries as key-value pairs in sorted key order so
// that repeated records serialize deterministically.
func (dc *DiagnosticContext) appendFields(fields []interface{}) []interface{} {
	dc.mu.RLock()
	keys := make([]string, 0, len(dc.values))
	for k := range dc.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, k, dc.values[k])
	}
	dc.mu.RUnlock()
	return fields
}
