/*
Package operation runs arbitrary units of work inside child spans with
standardized timing, lifecycle events and error classification. A failed
operation's error is recorded on the span and returned to the caller
unchanged; the executor never swallows or rewraps business errors.
*/
package operation
