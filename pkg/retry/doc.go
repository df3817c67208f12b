// Package retry provides a bounded retry combinator with pluggable backoff
// strategies. The Zoom Phone client uses it with a constant one second delay
// for rate-limited requests; the sleep function is injectable so retry
// behavior is testable without real delays.
package retry
