// Package errors provides standardized error handling for copymedia.
// It defines the error kinds the rest of the application reports on:
// fatal configuration problems detected at startup, and per-file
// relocation failures that the batch survives.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package functions re-exported for convenience
var (
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileOperationFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	MissingScanSource
	MissingDestination
	// Rule error kinds
	InvalidRule
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// ConfigError represents a fatal configuration problem. It is raised
// during the setup phase, before any file is touched, and aborts the run.
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

// FileError represents a per-file relocation failure. These are logged
// and recorded but never abort the remaining batch.
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

// RuleError represents errors related to configured series rules
type RuleError struct {
	ApplicationError
	ruleName string
}

// NewRuleError creates a new rule error
func NewRuleError(msg string, ruleName string, kind ErrorKind, err error) *RuleError {
	return &RuleError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		ruleName: ruleName,
	}
}

func (e *RuleError) Error() string {
	if e.ruleName != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.ruleName, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.ruleName)
	}
	return e.ApplicationError.Error()
}

// RuleName returns the rule name associated with the error
func (e *RuleError) RuleName() string {
	return e.ruleName
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

// IsConfigError checks if the error is any fatal configuration error
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsInvalidRule checks if the error is an invalid rule error
func IsInvalidRule(err error) bool {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Kind() == InvalidRule
	}
	return false
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}
