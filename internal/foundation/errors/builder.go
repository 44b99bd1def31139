package errors

// ErrorBuilder assembles a ClassifiedError step by step.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

func newBuilder(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError starts a non-fatal error of the given category around err.
// Call Fatal to make the CLI stop on it.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := newBuilder(category, message)
	b.cause = err
	return b
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal marks the error as one that ends the command.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	b.severity = SeverityFatal
	return b
}

func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// ConfigError reports bad configuration or operator input.
func ConfigError(message string) *ErrorBuilder {
	return newBuilder(CategoryConfig, message).Fatal()
}

// ValidationError reports content that breaks a blog invariant.
func ValidationError(message string) *ErrorBuilder {
	return newBuilder(CategoryValidation, message).Fatal()
}

// NotFoundError reports a missing content root, post or route.
func NotFoundError(message string) *ErrorBuilder {
	return newBuilder(CategoryNotFound, message).Fatal()
}

// BuildError reports a page that could not be rendered or exported.
func BuildError(message string) *ErrorBuilder {
	return newBuilder(CategoryBuild, message).Fatal()
}

// FileSystemError reports a failed read or write under the content or output root.
func FileSystemError(message string) *ErrorBuilder {
	return newBuilder(CategoryFileSystem, message).Fatal()
}

// RuntimeError reports a server failure.
func RuntimeError(message string) *ErrorBuilder {
	return newBuilder(CategoryRuntime, message).Fatal()
}

// InternalError reports a bug.
func InternalError(message string) *ErrorBuilder {
	return newBuilder(CategoryInternal, message).Fatal()
}
