/*
Package businesscontext holds the caller-supplied correlation fields of one
invocation (tenant, user, operation, correlation identifiers) and keeps them
synchronized with the invocation's logging diagnostic context. The Store is
created per invocation, bound into the request context, and must be cleared
at the end of every invocation because workers are pooled and reused.
*/
package businesscontext
