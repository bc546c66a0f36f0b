// Package errors defines stable error codes for indexing failure modes.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ResolveFailed indicates the semantic engine could not resolve an occurrence
	ResolveFailed ErrorCode = "RESOLVE_FAILED"
	// DescriptorMissing indicates no build descriptor was found for a dependency
	DescriptorMissing ErrorCode = "DESCRIPTOR_MISSING"
	// EmitFailed indicates the graph emitter rejected an element
	EmitFailed ErrorCode = "EMIT_FAILED"
	// InvalidConfig indicates configuration could not be loaded or validated
	InvalidConfig ErrorCode = "INVALID_CONFIG"
	// SourceUnreadable indicates a source document could not be read
	SourceUnreadable ErrorCode = "SOURCE_UNREADABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Command     string `json:"command,omitempty"`
	Safe        bool   `json:"safe,omitempty"`
	Description string `json:"description,omitempty"`
}

// XrefError represents an indexing error with code, message, and suggestions
type XrefError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a new XrefError
func New(code ErrorCode, message string, cause error) *XrefError {
	return &XrefError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes[code],
	}
}

// Error implements the error interface
func (e *XrefError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *XrefError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *XrefError) WithDetails(details interface{}) *XrefError {
	e.Details = details
	return e
}

var suggestedFixes = map[ErrorCode][]FixAction{
	InvalidConfig: {
		{
			Command:     "jxref init",
			Safe:        true,
			Description: "Regenerate a default .jxref/config.json",
		},
	},
	DescriptorMissing: {
		{
			Command:     "mvn dependency:resolve -Dclassifier=sources",
			Safe:        true,
			Description: "Populate the local repository so descriptors can be found",
		},
	},
}
