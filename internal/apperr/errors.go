// Package apperr defines the error taxonomy shared by the tapo-chatter
// commands, the discovery engine and the hub monitor.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// Kind represents the category of error that occurred
type Kind int

const (
	// KindConfiguration indicates missing or malformed credentials or address
	KindConfiguration Kind = iota
	// KindUsage indicates a malformed flag value or flag combination
	KindUsage
	// KindProbe indicates a transport failure while probing one host
	KindProbe
	// KindClassification indicates a device-control failure for one host
	KindClassification
	// KindScanFatal indicates the device-control session could not be created
	KindScanFatal
	// KindInterrupt indicates the operator aborted the run
	KindInterrupt
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "Configuration Error"
	case KindUsage:
		return "Usage Error"
	case KindProbe:
		return "Probe Failure"
	case KindClassification:
		return "Classification Failure"
	case KindScanFatal:
		return "Scan Error"
	case KindInterrupt:
		return "Interrupted"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// NetworkCause narrows a probe failure down to its transport cause
type NetworkCause int

const (
	CauseGeneral NetworkCause = iota
	CauseTimeout
	CauseConnectionRefused
	CauseDNS
	CauseHostUnreachable
	CauseNetworkUnreachable
	CauseCanceled
)

// String returns a short name for the cause
func (c NetworkCause) String() string {
	switch c {
	case CauseTimeout:
		return "timeout"
	case CauseConnectionRefused:
		return "connection refused"
	case CauseDNS:
		return "dns"
	case CauseHostUnreachable:
		return "host unreachable"
	case CauseNetworkUnreachable:
		return "network unreachable"
	case CauseCanceled:
		return "canceled"
	default:
		return "network"
	}
}

// Error is the error type returned across package boundaries
type Error struct {
	Kind    Kind         // Category of error
	Message string       // Human-readable error message
	Field   string       // Offending variable or flag (e.g. "TAPO_IP_ADDRESS", "--range")
	Example string       // Example of a correct value
	Host    string       // Host the error relates to (probe/classification)
	Cause   NetworkCause // Transport cause for probe failures
	Err     error        // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a configuration error for one variable
func NewConfigurationError(field, message, example string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: message,
		Field:   field,
		Example: example,
	}
}

// NewUsageError creates a usage error for one flag
func NewUsageError(field, message, example string) *Error {
	return &Error{
		Kind:    KindUsage,
		Message: message,
		Field:   field,
		Example: example,
	}
}

// NewClassificationError creates a classification failure for one host
func NewClassificationError(host string, err error) *Error {
	return &Error{
		Kind:    KindClassification,
		Message: fmt.Sprintf("%s is not a responsive Tapo device", host),
		Host:    host,
		Err:     err,
	}
}

// NewScanFatalError creates the error that aborts a whole scan
func NewScanFatalError(message string, err error) *Error {
	return &Error{
		Kind:    KindScanFatal,
		Message: message,
		Err:     err,
	}
}

// NewInterruptError records an operator abort
func NewInterruptError(message string) *Error {
	return &Error{
		Kind:    KindInterrupt,
		Message: message,
		Err:     context.Canceled,
	}
}

// ClassifyNetworkError converts a dial error into a probe failure with its cause
func ClassifyNetworkError(err error, host string) *Error {
	if err == nil {
		return nil
	}

	probe := &Error{
		Kind:    KindProbe,
		Message: fmt.Sprintf("%s did not accept a connection", host),
		Host:    host,
		Cause:   CauseGeneral,
		Err:     err,
	}

	if errors.Is(err, context.Canceled) {
		probe.Cause = CauseCanceled
		return probe
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		probe.Cause = CauseTimeout
		return probe
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		probe.Cause = CauseDNS
		return probe
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		probe.Cause = CauseConnectionRefused
	case errors.Is(err, syscall.EHOSTUNREACH):
		probe.Cause = CauseHostUnreachable
	case errors.Is(err, syscall.ENETUNREACH):
		probe.Cause = CauseNetworkUnreachable
	}

	return probe
}

// KindOf returns the kind of an apperr.Error in the chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func isKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	return isKind(err, KindConfiguration)
}

// IsUsageError checks if an error is a usage error
func IsUsageError(err error) bool {
	return isKind(err, KindUsage)
}

// IsClassificationError checks if an error is a classification failure
func IsClassificationError(err error) bool {
	return isKind(err, KindClassification)
}

// IsScanFatalError checks if an error aborted a scan
func IsScanFatalError(err error) bool {
	return isKind(err, KindScanFatal)
}

// IsInterrupt reports operator aborts, including a bare context cancellation
func IsInterrupt(err error) bool {
	return isKind(err, KindInterrupt) || errors.Is(err, context.Canceled)
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil || IsInterrupt(err) {
		return 0
	}
	return 1
}
