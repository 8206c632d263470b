package tracing

import (
	"regexp"
	"strings"
)

// The two rewrite rules for route normalization. Numeric segments collapse to
// {id} and UUID-shaped segments to {uuid} so that span route attributes stay
// low cardinality.
var (
	numericSegment = regexp.MustCompile(`^\d+$`)
	uuidSegment    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// NormalizeRoute rewrites variable path segments to placeholders:
// /users/123/orders/9f1c2b3a-58cc-4372-a567-0e02b2c3d479 becomes
// /users/{id}/orders/{uuid}.
func NormalizeRoute(path string) string {
	if path == "" || !strings.Contains(path, "/") {
		return path
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		switch {
		case uuidSegment.MatchString(seg):
			segments[i] = "{uuid}"
		case numericSegment.MatchString(seg):
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}
