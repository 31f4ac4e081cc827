// Package retry provides fixed-interval polling and bounded retry logic.
//
// [Poll] waits for a condition at a fixed interval, optionally bounded by a
// timeout or an attempt cap; with neither it blocks until the condition holds
// or the context is cancelled. [Do] retries a failing operation up to a
// configurable number of attempts. Both are used for the readiness and
// shared-folder waits against the instance tool.
package retry
