/*
Package logging provides structured leveled logging for instrumented function
handlers. It wraps a more complicated logging package (zap) and exposes just
the APIs needed to emit correlated JSON logs: request and component loggers,
logger-in-context helpers, and a per-invocation DiagnosticContext that stamps
trace and business correlation fields on every record. Handlers should not
take any dependencies on zap APIs.
*/
package logging
