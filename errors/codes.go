package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeNotFound indicates no route or resource matched the request.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeMethodNotAllowed indicates the route exists but not for this method.
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
)

const (
	// ErrCodeInvalidConfig indicates a configuration value is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeExporterUnavailable indicates a telemetry exporter could not be created.
	ErrCodeExporterUnavailable ErrorCode = "EXPORTER_UNAVAILABLE"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeExporterUnavailable: true,
}

func isRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
