package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the classified form of a lower-layer error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies repository/database errors into the response
// taxonomy. Sensitive detail stays out of the message; the context string
// (e.g. "create franchise") steers the wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "an internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Unique constraint violation (postgres 23505, sqlite "UNIQUE constraint failed")
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "referenced data is missing or still in use",
		}
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "a required field is missing",
		}
	}

	// Network errors from outbound calls
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "failed to reach an external service, please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "email is already in use",
		}
	}
	if strings.Contains(errLower, "franchises") || strings.Contains(errLower, "idx_franchises_name") {
		return ErrorInfo{
			Code:    FranchiseNameExists,
			Message: "a franchise with that name already exists",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "the data already exists",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "user"):
		return "user not found"
	case strings.Contains(contextLower, "franchise"):
		return "franchise not found"
	case strings.Contains(contextLower, "store"):
		return "store not found"
	case strings.Contains(contextLower, "menu"):
		return "menu item not found"
	case strings.Contains(contextLower, "order"):
		return "order not found"
	}
	return "requested data not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "creation failed, please try again later"
	case strings.Contains(contextLower, "update"):
		return "update failed, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "deletion failed, please try again later"
	}
	return "an internal error occurred, please try again later"
}

// ParseAndRespond classifies an error and writes the failure response.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
