package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusClass(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{100, "1xx"},
		{204, "2xx"},
		{302, "3xx"},
		{404, "4xx"},
		{500, "5xx"},
		{599, "5xx"},
		{99, "unknown"},
		{600, "unknown"},
		{0, "unknown"},
		{-1, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusClass(tt.code), "StatusClass(%d)", tt.code)
	}
}

func TestLatencyBucket(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, UltraFast},
		{9 * time.Millisecond, UltraFast},
		{10 * time.Millisecond, Fast},
		{49 * time.Millisecond, Fast},
		{50 * time.Millisecond, Normal},
		{199 * time.Millisecond, Normal},
		{200 * time.Millisecond, Slow},
		{499 * time.Millisecond, Slow},
		{500 * time.Millisecond, VerySlow},
		{730 * time.Millisecond, VerySlow},
		{999 * time.Millisecond, VerySlow},
		{time.Second, ExtremelySlow},
		{5 * time.Second, ExtremelySlow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LatencyBucket(tt.d), "LatencyBucket(%v)", tt.d)
	}
}

func TestSLAWithin(t *testing.T) {
	assert.True(t, SLAWithin(150*time.Millisecond, 200*time.Millisecond))
	assert.True(t, SLAWithin(200*time.Millisecond, 200*time.Millisecond))
	assert.False(t, SLAWithin(201*time.Millisecond, 200*time.Millisecond))
}
