/*
Package envelope wraps function handlers in the full observability flow. One
Instrument serves three trigger adapters, an HTTP middleware and wrappers for
queue messages and stream records; the adapters only differ in how they
produce a propagation carrier and which transport attributes they stamp.
Everything else, trace-context extraction, root span creation, the
business-context store and its diagnostic-context mirror, enrichment, outcome
metrics and the unconditional teardown, is shared.
*/
package envelope
