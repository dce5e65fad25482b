// Package errs defines the error types shared across the logistics service.
//
// Each error kind pairs a sentinel (for errors.Is classification at the HTTP
// boundary) with a concrete struct carrying the parameter name and optional
// cause. Constructors come in plain and WithCause variants, and every message
// is collapsed to a single line so it stays readable in logs and responses.
package errs
