// Package errors provides standardized error handling for cialist.
// It defines the error kinds used by the listing pipeline, the typed errors
// carrying them, and helpers for creating, wrapping and classifying errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Request kinds: the populate call is refused before any task runs
	InvalidArgument
	ListBusy
	WorkerLaunchFailed
	// Scan kinds: the running task stops and reports once
	DirectoryOpenFailed
	DirectoryReadFailed
	OutOfMemory
	// Entry kinds: never reported, the entry degrades instead
	FileOpenFailed
	PackageInvalid
	MetadataInvalid
	// Config kinds
	InvalidConfig
	ConfigNotFound
)

var kindNames = map[ErrorKind]string{
	Unknown:             "unknown",
	InvalidArgument:     "invalid_argument",
	ListBusy:            "list_busy",
	WorkerLaunchFailed:  "worker_launch_failed",
	DirectoryOpenFailed: "directory_open_failed",
	DirectoryReadFailed: "directory_read_failed",
	OutOfMemory:         "out_of_memory",
	FileOpenFailed:      "file_open_failed",
	PackageInvalid:      "package_invalid",
	MetadataInvalid:     "metadata_invalid",
	InvalidConfig:       "invalid_config",
	ConfigNotFound:      "config_not_found",
}

// String returns the snake_case name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error constants for frequently occurring errors
var (
	ErrInvalidArgument = &ApplicationError{msg: "invalid argument", kind: InvalidArgument}
	ErrListBusy        = &ApplicationError{msg: "list is owned by a running scan", kind: ListBusy}
	ErrOutOfMemory     = &ApplicationError{msg: "out of memory", kind: OutOfMemory}
	ErrInvalidConfig   = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// Is matches sentinel application errors by kind alone, so
// errors.Is(NewKind(ListBusy, "any message", nil), ErrListBusy) holds.
// Errors of kind Unknown only match themselves.
func (e *ApplicationError) Is(target error) bool {
	t, ok := target.(*ApplicationError)
	if !ok || t.kind == Unknown {
		return false
	}
	return t.kind == e.kind
}

// FileError represents errors related to a path on a volume
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// NewKind creates an error of the given kind, optionally wrapping err
func NewKind(kind ErrorKind, msg string, err error) error {
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: kind,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// kinded is satisfied by every error type in this package
type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first typed error in err's chain,
// skipping Unknown wrappers.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsKind reports whether err's chain carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsFatalToScan reports whether err stops a running scan
func IsFatalToScan(err error) bool {
	switch KindOf(err) {
	case DirectoryOpenFailed, DirectoryReadFailed, OutOfMemory:
		return true
	}
	return false
}
