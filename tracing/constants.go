package tracing

// Span attribute names for the business-context vocabulary. These names are
// fixed for cross-service correlation and must not be changed.
const (
	BusinessIDAttr    = "business.id"
	TransactionIDAttr = "transaction.id"
	ExecutionIDAttr   = "execution.id"
	OperationAttr     = "business.operation"
	UserIDAttr        = "user.id"
	TenantIDAttr      = "tenant.id"
	SessionIDAttr     = "session.id"
	CorrelationIDAttr = "correlation.id"

	OperationDurationAttr = "operation.duration_ms"
	OperationNameAttr     = "operation.name"
	OperationStatusAttr   = "operation.status"
	ErrorTypeAttr         = "error.type"
)

// Span attribute names for transport and platform metadata.
const (
	HTTPMethodAttr       = "http.method"
	HTTPRouteAttr        = "http.route"
	HTTPStatusCodeAttr   = "http.status_code"
	HTTPResponseSizeAttr = "http.response_size"
	HTTPUserAgentAttr    = "http.user_agent"

	MessagingDestinationAttr = "messaging.destination"
	MessagingMessageIDAttr   = "messaging.message_id"

	StreamNameAttr      = "stream.name"
	StreamPartitionAttr = "stream.partition"
	StreamSequenceAttr  = "stream.sequence"

	FaaSInvocationIDAttr  = "faas.invocation_id"
	FaaSNameAttr          = "faas.name"
	FaaSVersionAttr       = "faas.version"
	FaaSMemoryLimitAttr   = "faas.memory_limit_mb"
	FaaSRemainingTimeAttr = "faas.remaining_time_ms"
	FaaSColdStartAttr     = "faas.coldstart"
)

// Business-context header names recognized on inbound carriers. Per field the
// aliases are checked in the listed order and the first non-empty match wins.
var (
	BusinessIDHeaders    = []string{"X-Business-ID", "x-business-id", "Business-ID"}
	UserIDHeaders        = []string{"X-User-ID", "x-user-id", "User-ID"}
	TenantIDHeaders      = []string{"X-Tenant-ID", "x-tenant-id", "Tenant-ID"}
	CorrelationIDHeaders = []string{"X-Correlation-ID", "x-correlation-id", "Correlation-ID", "X-Request-ID", "x-request-id"}
	OperationHeaders     = []string{"X-Operation", "x-operation", "Operation"}
)
