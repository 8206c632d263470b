package tracing

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/faaskit/fn-observation/logging"
)

// QueueMessageInfo is the transport metadata of an inbound queue message
// needed for span enrichment.
type QueueMessageInfo struct {
	Destination string
	MessageID   string
	Carrier     Carrier
}

// StreamRecordInfo is the transport metadata of an inbound stream record
// needed for span enrichment.
type StreamRecordInfo struct {
	StreamName string
	Partition  string
	Sequence   string
	RecordID   string
	Carrier    Carrier
}

// InvocationMetadata is the platform-supplied metadata of the current
// invocation. It is sourced from the serverless runtime, never computed.
type InvocationMetadata struct {
	InvocationID    string
	FunctionName    string
	FunctionVersion string
	MemoryLimitMB   int
	RemainingTime   time.Duration
	ColdStart       bool
}

// An Enricher stamps the fixed attribute vocabulary onto spans. Every method
// is defensive: a nil span or source is a no-op and a failure while stamping
// one attribute is logged and does not prevent the remaining attributes from
// being stamped. Enrichment never propagates an error to the caller.
type Enricher struct {
	logger *logging.Logger
}

// NewEnricher constructs an Enricher. If logger is nil the global logger is
// used.
func NewEnricher(logger *logging.Logger) *Enricher {
	if logger == nil {
		logger = logging.Global()
	}
	return &Enricher{logger: logger}
}

// HTTPRequest stamps method, normalized route, user agent, and any
// correlation/user identity headers onto span.
func (e *Enricher) HTTPRequest(span trace.Span, r *http.Request) {
	if span == nil || r == nil {
		return
	}
	e.stamp(span, HTTPMethodAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(HTTPMethodAttr, r.Method), r.Method != ""
	})
	e.stamp(span, HTTPRouteAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(HTTPRouteAttr, NormalizeRoute(r.URL.Path)), r.URL != nil
	})
	e.stamp(span, HTTPUserAgentAttr, func() (attribute.KeyValue, bool) {
		ua := r.UserAgent()
		return attribute.String(HTTPUserAgentAttr, ua), ua != ""
	})
	e.carrierIdentity(span, CarrierFromHTTPHeader(r.Header))
}

// HTTPResponse stamps the status code and response size onto span and maps
// the status code onto a span status. Client errors (4xx) are expected
// application behavior, not system failure, so they keep the OK status and
// are tagged with an error type instead; only 5xx marks the span as failed.
func (e *Enricher) HTTPResponse(span trace.Span, statusCode int, responseBytes uint64) {
	if span == nil {
		return
	}
	e.stamp(span, HTTPStatusCodeAttr, func() (attribute.KeyValue, bool) {
		return attribute.Int(HTTPStatusCodeAttr, statusCode), true
	})
	e.stamp(span, HTTPResponseSizeAttr, func() (attribute.KeyValue, bool) {
		return attribute.Int64(HTTPResponseSizeAttr, int64(responseBytes)), true
	})
	switch {
	case statusCode >= 500:
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
	case statusCode >= 400:
		span.SetStatus(codes.Ok, "")
		span.SetAttributes(attribute.String(ErrorTypeAttr, "client_error"))
	default:
		span.SetStatus(codes.Ok, "")
	}
}

// QueueMessage stamps the queue transport identifiers and any
// correlation/user attributes present in the message carrier onto span.
func (e *Enricher) QueueMessage(span trace.Span, msg *QueueMessageInfo) {
	if span == nil || msg == nil {
		return
	}
	e.stamp(span, MessagingDestinationAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(MessagingDestinationAttr, msg.Destination), msg.Destination != ""
	})
	e.stamp(span, MessagingMessageIDAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(MessagingMessageIDAttr, msg.MessageID), msg.MessageID != ""
	})
	e.carrierIdentity(span, msg.Carrier)
}

// StreamRecord stamps the stream transport identifiers and any
// correlation/user attributes present in the record carrier onto span.
func (e *Enricher) StreamRecord(span trace.Span, rec *StreamRecordInfo) {
	if span == nil || rec == nil {
		return
	}
	e.stamp(span, StreamNameAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(StreamNameAttr, rec.StreamName), rec.StreamName != ""
	})
	e.stamp(span, StreamPartitionAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(StreamPartitionAttr, rec.Partition), rec.Partition != ""
	})
	e.stamp(span, StreamSequenceAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(StreamSequenceAttr, rec.Sequence), rec.Sequence != ""
	})
	e.stamp(span, MessagingMessageIDAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(MessagingMessageIDAttr, rec.RecordID), rec.RecordID != ""
	})
	e.carrierIdentity(span, rec.Carrier)
}

// Invocation stamps the platform identifiers of the current invocation onto
// span.
func (e *Enricher) Invocation(span trace.Span, meta *InvocationMetadata) {
	if span == nil || meta == nil {
		return
	}
	e.stamp(span, FaaSInvocationIDAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(FaaSInvocationIDAttr, meta.InvocationID), meta.InvocationID != ""
	})
	e.stamp(span, FaaSNameAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(FaaSNameAttr, meta.FunctionName), meta.FunctionName != ""
	})
	e.stamp(span, FaaSVersionAttr, func() (attribute.KeyValue, bool) {
		return attribute.String(FaaSVersionAttr, meta.FunctionVersion), meta.FunctionVersion != ""
	})
	e.stamp(span, FaaSMemoryLimitAttr, func() (attribute.KeyValue, bool) {
		return attribute.Int(FaaSMemoryLimitAttr, meta.MemoryLimitMB), meta.MemoryLimitMB > 0
	})
	e.stamp(span, FaaSRemainingTimeAttr, func() (attribute.KeyValue, bool) {
		return attribute.Int64(FaaSRemainingTimeAttr, meta.RemainingTime.Milliseconds()), meta.RemainingTime > 0
	})
	e.stamp(span, FaaSColdStartAttr, func() (attribute.KeyValue, bool) {
		return attribute.Bool(FaaSColdStartAttr, meta.ColdStart), true
	})
}

// carrierIdentity stamps correlation id and user id from the carrier when
// present.
func (e *Enricher) carrierIdentity(span trace.Span, carrier Carrier) {
	if carrier == nil {
		return
	}
	e.stamp(span, CorrelationIDAttr, func() (attribute.KeyValue, bool) {
		v := firstHeader(carrier, CorrelationIDHeaders)
		return attribute.String(CorrelationIDAttr, v), v != ""
	})
	e.stamp(span, UserIDAttr, func() (attribute.KeyValue, bool) {
		v := firstHeader(carrier, UserIDHeaders)
		return attribute.String(UserIDAttr, v), v != ""
	})
}

// stamp computes and sets a single attribute, isolating any failure so the
// remaining attributes still get stamped.
func (e *Enricher) stamp(span trace.Span, name string, compute func() (attribute.KeyValue, bool)) {
	defer func() {
		if r := recover(); r != nil && e.logger != nil {
			e.logger.Warn("Skipped span attribute", "attribute", name, "cause", fmt.Sprint(r))
		}
	}()
	if kv, ok := compute(); ok {
		span.SetAttributes(kv)
	}
}

// firstHeader returns the value of the first alias present in carrier.
func firstHeader(carrier Carrier, aliases []string) string {
	for _, name := range aliases {
		if v := carrier.Get(name); v != "" {
			return v
		}
	}
	return ""
}
