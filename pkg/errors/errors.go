// Package errors provides custom error types for the boxcat system.
// These errors enable programmatic error checking with errors.Is and
// carry enough context (file path, offending value) to make a failed
// catalog rebuild diagnosable from the log line alone.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the boxcat system
var (
	// ErrNotFound indicates that a requested box was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse indicates that a description file could not be decoded
	ErrParse = errors.New("parse failure")

	// ErrVersionParse indicates that a version string is not valid semver
	ErrVersionParse = errors.New("version parse failure")
)

// ParseError represents a description file that could not be read or
// decoded. It aborts the catalog rebuild that encountered it.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("parsing %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(path, message string, err error) *ParseError {
	return &ParseError{Path: path, Message: message, Err: err}
}

// VersionParseError represents a version field that does not parse as a
// semantic version. Like ParseError it is fatal to the rebuild.
type VersionParseError struct {
	Path    string
	Version string
	Err     error
}

// Error implements the error interface
func (e *VersionParseError) Error() string {
	return fmt.Sprintf("parsing version %q in %s: %v", e.Version, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *VersionParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *VersionParseError) Is(target error) bool {
	return target == ErrVersionParse
}

// NewVersionParseError creates a new VersionParseError
func NewVersionParseError(path, version string, err error) *VersionParseError {
	return &VersionParseError{Path: path, Version: version, Err: err}
}

// Helper wrapping functions for common patterns

// WrapParse wraps an error as a ParseError
func WrapParse(path string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(path, "", err)
}

// WrapVersion wraps an error as a VersionParseError
func WrapVersion(path, version string, err error) error {
	if err == nil {
		return nil
	}
	return NewVersionParseError(path, version, err)
}
