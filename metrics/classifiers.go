package metrics

import (
	"strconv"
	"time"
)

// Latency class names returned by LatencyBucket.
const (
	UltraFast     = "ultra_fast"
	Fast          = "fast"
	Normal        = "normal"
	Slow          = "slow"
	VerySlow      = "very_slow"
	ExtremelySlow = "extremely_slow"
)

// StatusClass buckets an HTTP status code into its class ("2xx", "4xx", ...).
// Codes outside 100-599 return "unknown" to keep the label set bounded.
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// LatencyBucket classifies a duration into a fixed latency class. Categorical
// classes keep the cardinality of exported metrics bounded where raw
// millisecond values would not.
func LatencyBucket(d time.Duration) string {
	ms := d.Milliseconds()
	switch {
	case ms < 10:
		return UltraFast
	case ms < 50:
		return Fast
	case ms < 200:
		return Normal
	case ms < 500:
		return Slow
	case ms < 1000:
		return VerySlow
	default:
		return ExtremelySlow
	}
}

// SLAWithin reports whether the duration met the given SLA threshold.
func SLAWithin(d, threshold time.Duration) bool {
	return d <= threshold
}
