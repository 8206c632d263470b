/*
Package tracing provides the transport-agnostic pieces of distributed tracing
for instrumented function handlers: the Carrier that normalizes HTTP headers,
queue message attributes and stream record headers into one flat map, the W3C
trace-context Propagator over that carrier, span enrichment for each source
kind, and route normalization.

All propagation and enrichment here is best effort. A malformed traceparent,
a nil span, or a failure while stamping a single attribute degrades to a log
line; it never changes the outcome of the wrapped request.
*/
package tracing
