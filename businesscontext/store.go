package businesscontext

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/faaskit/fn-observation/logging"
	"github.com/faaskit/fn-observation/tracing"
)

// Diagnostic-context key names written by the Store. These names are fixed
// for cross-tool log correlation and must match exactly what downstream log
// tooling indexes.
const (
	TraceIDKey       = "traceId"
	SpanIDKey        = "spanId"
	TraceSampledKey  = "traceSampled"
	BusinessIDKey    = "businessId"
	UserIDKey        = "userId"
	TenantIDKey      = "tenantId"
	CorrelationIDKey = "correlationId"
	TransactionIDKey = "transactionId"
	ExecutionIDKey   = "executionId"
	OperationKey     = "operation"
	ComponentKey     = "component"
	SessionIDKey     = "sessionId"

	// CustomKeyPrefix namespaces mirrored custom attributes so they can be
	// enumerated and scrubbed without touching unrelated keys.
	CustomKeyPrefix = "custom."
)

// A Store holds the business context of one invocation and keeps it
// synchronized with the invocation's diagnostic context. Each invocation owns
// exactly one Store, created by the envelope at the start of handling and
// cleared unconditionally at the end; the platform reuses workers across
// invocations, so a skipped Clear leaks context into the next request's logs.
//
// Every mutation re-derives the trace and span ids from the span that is
// active in the supplied ctx, then mirrors all present business fields into
// the diagnostic context under fixed key names, deleting keys whose fields
// are absent. Present fields are also stamped onto the active span as
// attributes (business.id, tenant.id, ...) so spans can be correlated to the
// business transaction they served.
type Store struct {
	mu      sync.Mutex
	current *BusinessContext
	diag    *logging.DiagnosticContext
}

// NewStore constructs a Store mirroring into diag. A nil diag gets a
// detached diagnostic context so call sites never have to nil-check.
func NewStore(diag *logging.DiagnosticContext) *Store {
	if diag == nil {
		diag = logging.NewDiagnosticContext()
	}
	return &Store{diag: diag}
}

// Set replaces the whole business-context record.
func (s *Store) Set(ctx context.Context, bc BusinessContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &bc
	s.mirror(ctx)
}

// SetFromHeaders builds a BusinessContext from the recognized header aliases
// present in carrier and stores it. Per field, the first alias with a
// non-empty value wins; see the alias lists in the tracing package.
func (s *Store) SetFromHeaders(ctx context.Context, carrier tracing.Carrier) {
	b := NewBuilder()
	if v := firstAlias(carrier, tracing.BusinessIDHeaders); v != "" {
		b.BusinessID(v)
	}
	if v := firstAlias(carrier, tracing.UserIDHeaders); v != "" {
		b.UserID(v)
	}
	if v := firstAlias(carrier, tracing.TenantIDHeaders); v != "" {
		b.TenantID(v)
	}
	if v := firstAlias(carrier, tracing.CorrelationIDHeaders); v != "" {
		b.CorrelationID(v)
	}
	if v := firstAlias(carrier, tracing.OperationHeaders); v != "" {
		b.Operation(v)
	}
	s.Set(ctx, b.Build())
}

// SetQuickContext stores the common three-field context.
func (s *Store) SetQuickContext(ctx context.Context, businessID, userID, operation string) {
	s.Set(ctx, NewBuilder().
		BusinessID(businessID).
		UserID(userID).
		Operation(operation).
		Build())
}

// Current returns the stored record, or ok=false when none is set.
func (s *Store) Current() (BusinessContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return BusinessContext{}, false
	}
	return *s.current, true
}

// Clear removes the record and scrubs every mirrored diagnostic key,
// including all custom-attribute keys.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	for _, key := range fieldKeys {
		s.diag.Delete(key)
	}
	s.diag.Delete(TraceIDKey)
	s.diag.Delete(SpanIDKey)
	s.diag.Delete(TraceSampledKey)
	s.diag.DeletePrefix(CustomKeyPrefix)
}

// Diagnostics returns the diagnostic context the store mirrors into.
func (s *Store) Diagnostics() *logging.DiagnosticContext {
	return s.diag
}

func (s *Store) UpdateBusinessID(ctx context.Context, v string) {
	s.update(ctx, func(b *Builder) { b.BusinessID(v) })
}

func (s *Store) UpdateUserID(ctx context.Context, v string) {
	s.update(ctx, func(b *Builder) { b.UserID(v) })
}

func (s *Store) UpdateTenantID(ctx context.Context, v string) {
	s.update(ctx, func(b *Builder) { b.TenantID(v) })
}

func (s *Store) UpdateCorrelationID(ctx context.Context, v string) {
	s.update(ctx, func(b *Builder) { b.CorrelationID(v) })
}

func (s *Store) UpdateTransactionID(ctx context.Context, v string) {
	s.update(ctx, func(b *Builder) { b.TransactionID(v) })
}

func (s *Store) UpdateExecutionID(ctx context.Context, v string) {
	s.update(ctx, func(b *Builder) { b.ExecutionID(v) })
}

func (s *Store) UpdateOperation(ctx context.Context, v string) {
	s.update(ctx, func(b *Builder) { b.Operation(v) })
}

func (s *Store) UpdateComponent(ctx context.Context, v string) {
	s.update(ctx, func(b *Builder) { b.Component(v) })
}

func (s *Store) UpdateSessionID(ctx context.Context, v string) {
	s.update(ctx, func(b *Builder) { b.SessionID(v) })
}

// PutCustomAttribute sets one custom attribute, mirrored as custom.<key>.
func (s *Store) PutCustomAttribute(ctx context.Context, key, value string) {
	s.update(ctx, func(b *Builder) { b.CustomAttribute(key, value) })
}

// update applies a single-field mutation as read-modify-replace. The record
// swap and the diagnostic-context mirror happen inside one critical section.
func (s *Store) update(ctx context.Context, mutate func(*Builder)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b *Builder
	if s.current != nil {
		b = s.current.ToBuilder()
	} else {
		b = NewBuilder()
	}
	mutate(b)
	bc := b.Build()
	s.current = &bc
	s.mirror(ctx)
}

var fieldKeys = []string{
	BusinessIDKey, UserIDKey, TenantIDKey, CorrelationIDKey,
	TransactionIDKey, ExecutionIDKey, OperationKey, ComponentKey, SessionIDKey,
}

// mirror synchronizes the diagnostic context with the stored record plus the
// identifiers of the currently active span, and stamps the present business
// fields onto that span under the fixed attribute names. Absent fields are
// never written to either destination. Callers hold s.mu.
func (s *Store) mirror(ctx context.Context) {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		s.diag.Set(TraceIDKey, sc.TraceID().String())
		s.diag.Set(SpanIDKey, sc.SpanID().String())
		if sc.IsSampled() {
			s.diag.Set(TraceSampledKey, "true")
		} else {
			s.diag.Set(TraceSampledKey, "false")
		}
	} else {
		s.diag.Delete(TraceIDKey)
		s.diag.Delete(SpanIDKey)
		s.diag.Delete(TraceSampledKey)
	}

	bc := s.current
	values := map[string]string{}
	if bc != nil {
		values[BusinessIDKey] = bc.businessID
		values[UserIDKey] = bc.userID
		values[TenantIDKey] = bc.tenantID
		values[CorrelationIDKey] = bc.correlationID
		values[TransactionIDKey] = bc.transactionID
		values[ExecutionIDKey] = bc.executionID
		values[OperationKey] = bc.operation
		values[ComponentKey] = bc.component
		values[SessionIDKey] = bc.sessionID
	}
	for _, key := range fieldKeys {
		if v := values[key]; v != "" {
			s.diag.Set(key, v)
		} else {
			s.diag.Delete(key)
		}
	}

	s.diag.DeletePrefix(CustomKeyPrefix)
	if bc != nil {
		for k, v := range bc.custom {
			if v != "" {
				s.diag.Set(CustomKeyPrefix+k, v)
			}
		}
	}

	if span := trace.SpanFromContext(ctx); bc != nil && span.IsRecording() {
		spanFields := []struct {
			name  string
			value string
		}{
			{tracing.BusinessIDAttr, bc.businessID},
			{tracing.UserIDAttr, bc.userID},
			{tracing.TenantIDAttr, bc.tenantID},
			{tracing.CorrelationIDAttr, bc.correlationID},
			{tracing.TransactionIDAttr, bc.transactionID},
			{tracing.ExecutionIDAttr, bc.executionID},
			{tracing.OperationAttr, bc.operation},
			{tracing.SessionIDAttr, bc.sessionID},
		}
		var attrs []attribute.KeyValue
		for _, f := range spanFields {
			if f.value != "" {
				attrs = append(attrs, attribute.String(f.name, f.value))
			}
		}
		if len(attrs) > 0 {
			span.SetAttributes(attrs...)
		}
	}
}

func firstAlias(carrier tracing.Carrier, aliases []string) string {
	if carrier == nil {
		return ""
	}
	for _, name := range aliases {
		if v := carrier.Get(name); v != "" {
			return v
		}
	}
	return ""
}
