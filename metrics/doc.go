/*
Package metrics provides outcome classification and prometheus recording for
instrumented invocations. Durations and status codes are bucketed into fixed
categorical classes before export to keep metric cardinality bounded.
*/
package metrics
