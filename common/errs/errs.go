package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// SomethingWentWrong is returned when an unexpected error occurred.
	SomethingWentWrong = ErrorKind("Something went wrong")

	// InternalError is returned when an invariant of the system is broken.
	InternalError = ErrorKind("Internal Error")

	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when an argument or configuration value is invalid.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unsupported is returned when a feature or option is not supported.
	Unsupported = ErrorKind("Unsupported")

	// Timeout is returned when an operation exceeded its deadline.
	Timeout = ErrorKind("Timeout")

	// Closed is returned when sending to a closed resource (e.g. subscription).
	Closed = ErrorKind("Closed")

	// ConflictSetting is returned when the persisted state conflicts with the configuration.
	ConflictSetting = ErrorKind("Conflict Setting")

	OverflowUint128 = ErrorKind("overflow uint128")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
