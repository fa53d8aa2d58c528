// Package apierr defines the failure taxonomy of spec §7: four error kinds
// (transient input noise, transient network error, configuration error,
// fatal hardware error), each with a fixed classification so callers switch
// on kind rather than matching error strings.
package apierr

// Code classifies a beacon error into one of the kinds spec §4.3/§7 describes.
type Code string

const (
	// CodeNotReady means transport was asked to publish while the network
	// link is not associated; no I/O is attempted (spec §4.3).
	CodeNotReady Code = "NOT_READY"
	// CodeTimeout means the HTTP POST exceeded its 10-second total timeout.
	CodeTimeout Code = "TIMEOUT"
	// CodeServerError means the server responded with a status other than
	// 200 or 201.
	CodeServerError Code = "SERVER_ERROR"
	// CodeTransportError means a socket/TLS-level error occurred.
	CodeTransportError Code = "TRANSPORT_ERROR"
	// CodeValidation means a config Set() call was rejected as out of range
	// (spec §4.5, §7 "configuration error").
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeFatalHardware means an unrecoverable driver/peripheral failure at
	// boot; the device halts and needs a physical reset (spec §7).
	CodeFatalHardware Code = "FATAL_HARDWARE"
)

// Retryable reports whether the supervisor should treat this class of
// failure as transient (Error state for 5s, then resume) versus fatal
// (halt). Only CodeFatalHardware is non-retryable.
func (c Code) Retryable() bool {
	return c != CodeFatalHardware
}
