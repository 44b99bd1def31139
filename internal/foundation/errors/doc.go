// Package errors provides the classified error primitives used across blogpress.
//
// Every failure that reaches the operator (a missing content root, a duplicate route in
// the resource catalog, a page that cannot be rendered during export) is represented as a
// ClassifiedError carrying a category, a severity and structured context. The CLI and
// HTTP adapters turn those classifications into exit codes and status codes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryBuild, "render failed").
//		Fatal().
//		WithContext("route", "/Blog/first-post").
//		Build()
package errors
