package model

import "time"

// FailureReason classifies why a Target could not be fetched.
type FailureReason string

const (
	// ReasonNone marks a successful fetch.
	ReasonNone FailureReason = ""
	// ReasonTimeout indicates the per-request timeout elapsed.
	ReasonTimeout FailureReason = "timeout"
	// ReasonTLSError indicates a TLS handshake or certificate validation failure.
	ReasonTLSError FailureReason = "tls_error"
	// ReasonConnectionError covers DNS, dial, reset and other transport failures.
	ReasonConnectionError FailureReason = "connection_error"
	// ReasonHTTPError indicates a status code outside 2xx/3xx.
	ReasonHTTPError FailureReason = "http_error"
	// ReasonTooLarge indicates the body exceeded the configured size cap.
	ReasonTooLarge FailureReason = "too_large"
)

// FailureReasons lists every failure reason in reporting order.
var FailureReasons = []FailureReason{
	ReasonTimeout,
	ReasonTLSError,
	ReasonConnectionError,
	ReasonHTTPError,
	ReasonTooLarge,
}

// String returns the reason label, or "ok" for ReasonNone.
func (r FailureReason) String() string {
	if r == ReasonNone {
		return "ok"
	}
	return string(r)
}

// FetchOutcome is the tagged result of fetching one Target.
// Exactly one of the two shapes is populated: a success carries the
// status code, body and content type; a failure carries Reason and Err.
type FetchOutcome struct {
	// StatusCode is the HTTP status of the response.
	// It is also set for ReasonHTTPError and ReasonTooLarge failures.
	StatusCode int

	// Content is the response body. Always nil for failures.
	Content []byte

	// ContentType is the raw Content-Type response header.
	ContentType string

	// Reason is ReasonNone on success.
	Reason FailureReason

	// Err is the underlying error for failures, kept for diagnostics.
	Err error
}

// Success builds a successful outcome.
func Success(statusCode int, content []byte, contentType string) FetchOutcome {
	return FetchOutcome{
		StatusCode:  statusCode,
		Content:     content,
		ContentType: contentType,
	}
}

// Failure builds a failed outcome.
func Failure(reason FailureReason, err error) FetchOutcome {
	return FetchOutcome{Reason: reason, Err: err}
}

// OK reports whether the outcome is a success.
func (o FetchOutcome) OK() bool {
	return o.Reason == ReasonNone
}

// FetchResult correlates an outcome with the Target it belongs to.
type FetchResult struct {
	Target  Target
	Outcome FetchOutcome
	Elapsed time.Duration
}
