package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *BuildError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Manifest and render errors

func ManifestError(path string, cause error) *BuildError {
	return Wrap(cause, CategoryManifest, SeverityFatal, "manifest could not be loaded").
		WithContext("path", path)
}

func RenderFailed(target string, cause error) *BuildError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page render failed").
		WithContext("target", target)
}

// Filesystem errors

// NotFound reports a path that must exist but does not.
func NotFound(path string, cause error) *BuildError {
	return Wrap(cause, CategoryNotFound, SeverityError, "path does not exist").
		WithContext("path", path)
}

// IOFailure reports a failed filesystem operation (mkdir, open, read, write).
func IOFailure(operation, path string, cause error) *BuildError {
	return Wrap(cause, CategoryIO, SeverityError, operation+" failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
