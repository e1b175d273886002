package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"

	"github.com/nao1215/wordlist3r/internal/model"
)

var (
	// ErrUnexpectedStatus is wrapped by http_error failures.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrBodyTooLarge is wrapped by too_large failures.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrInvalidProxy is returned by NewHTTPClient for malformed or
	// unsupported proxy URLs.
	ErrInvalidProxy = errors.New("invalid proxy URL")
)

// classifyError maps a transport error to a FailureReason.
// Timeouts are checked first, so a TLS handshake that times out is a timeout.
func classifyError(err error) model.FailureReason {
	if err == nil {
		return model.ReasonNone
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return model.ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.ReasonTimeout
	}

	if isTLSError(err) {
		return model.ReasonTLSError
	}

	return model.ReasonConnectionError
}

// isTLSError reports whether err originates from the TLS handshake or
// certificate verification.
func isTLSError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		unknownAuth  x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		certInvalid  x509.CertificateInvalidError
		systemRoots  x509.SystemRootsError
		constraints  x509.ConstraintViolationError
		unhandledErr x509.UnhandledCriticalExtension
	)

	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr),
		errors.As(err, &unknownAuth),
		errors.As(err, &hostnameErr),
		errors.As(err, &certInvalid),
		errors.As(err, &systemRoots),
		errors.As(err, &constraints),
		errors.As(err, &unhandledErr):
		return true
	}

	// Some handshake failures only surface as formatted strings.
	msg := err.Error()
	return strings.Contains(msg, "tls:") || strings.Contains(msg, "x509:")
}
