package crawl

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/fwojciec/harvest"
)

// Classify maps a fetch failure to the retry policy applied to it.
// Failures that are not recognized are fatal.
func Classify(err error) harvest.ErrorClass {
	if err == nil {
		return harvest.ClassMoveOn
	}

	var ce *harvest.ClassError
	if errors.As(err, &ce) {
		return ce.Class
	}

	var se *harvest.StatusError
	if errors.As(err, &se) {
		return harvest.ClassLimitedRetry
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound && !dnsErr.IsTemporary {
			return harvest.ClassLimitedRetry
		}
		return harvest.ClassRetry
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE):
		return harvest.ClassRetry
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return harvest.ClassRetry
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return harvest.ClassRetry
	}

	return harvest.ClassFatal
}

// RedirectTarget returns the URL to repair when err is a redirect defect:
// the final hop of a followed redirect, or requested when there was none.
func RedirectTarget(err error, requested string) (string, bool) {
	if !IsRedirectDefect(err) {
		return "", false
	}
	var se *harvest.StatusError
	if errors.As(err, &se) && se.FinalURL != "" {
		return se.FinalURL, true
	}
	return requested, true
}

// IsRedirectDefect reports whether err is the status a server answers with
// when it was sent to a URL whose non-ASCII characters were mangled by a
// redirect.
func IsRedirectDefect(err error) bool {
	var se *harvest.StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusBadRequest || se.StatusCode == http.StatusBadGateway
}
