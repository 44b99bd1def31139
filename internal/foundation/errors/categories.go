package errors

// ErrorCategory decides the exit code and HTTP status an error maps to.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryBuild represents export and rendering errors.
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

	// CategoryRuntime represents server and infrastructure errors.
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity tells the adapters whether an error ends the command.
type ErrorSeverity string

const (
	SeverityFatal ErrorSeverity = "fatal" // stops the command
	SeverityError ErrorSeverity = "error" // fails one request or page
)

// ErrorContext holds the structured fields logged next to an error.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}
