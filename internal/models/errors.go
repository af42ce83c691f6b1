package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes reported under extensions.code on GraphQL error entries.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeBadUserInput      = "BAD_USER_INPUT"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
	CodeStoreWriteError   = "STORE_WRITE_ERROR"
	CodeSchemaConformance = "SCHEMA_CONFORMANCE"
	CodeInternal          = "INTERNAL_ERROR"
)

// ErrorEntry is one element of a GraphQL "errors" array.
type ErrorEntry struct {
	Message    string            `json:"message"`
	Extensions map[string]string `json:"extensions,omitempty"`
}

// ErrorResponse is the body written when a request never reaches the executor.
type ErrorResponse struct {
	Errors []ErrorEntry `json:"errors"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Extensions is picked up by the GraphQL executor and copied onto the error entry.
func (e *AppError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// CodeOf returns the AppError code carried by err, or CodeInternal.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewIndexOutOfRangeError reports a positional lookup past the end of a snapshot.
func NewIndexOutOfRangeError(resource string, index, size int) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s index %d out of range: %d loaded", resource, index, size),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeBadUserInput,
		Message: message,
	}
}

func NewStoreUnavailableError(err error) *AppError {
	return &AppError{
		Code:    CodeStoreUnavailable,
		Message: "Store unavailable",
		Err:     err,
	}
}

func NewStoreWriteError(table string, err error) *AppError {
	return &AppError{
		Code:    CodeStoreWriteError,
		Message: fmt.Sprintf("Insert into %s failed", table),
		Err:     err,
	}
}

// NewSchemaConformanceError reports a non-null field that has no value to serve.
func NewSchemaConformanceError(typeName, field string) *AppError {
	return &AppError{
		Code:    CodeSchemaConformance,
		Message: fmt.Sprintf("%s.%s is non-null but the store returned no value", typeName, field),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError writes a GraphQL-shaped error body with the given HTTP status.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	entry := ErrorEntry{Message: err.Error()}

	var appErr *AppError
	if errors.As(err, &appErr) {
		entry.Message = appErr.Error()
		entry.Extensions = map[string]string{"code": appErr.Code}
	}

	return c.Status(status).JSON(ErrorResponse{Errors: []ErrorEntry{entry}})
}
