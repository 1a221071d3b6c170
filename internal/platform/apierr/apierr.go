// Package apierr is the error model shared by every feature package.
// Business rule violations are returned as *APIError values carrying a Code;
// storage faults are wrapped with Code PERSISTENCE_FAILURE.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
)

type Code string

const (
	CodeInvalidSelection     Code = "INVALID_SELECTION"
	CodeFinesBlocked         Code = "FINES_BLOCKED"
	CodeLoanLimitReached     Code = "LOAN_LIMIT_REACHED"
	CodeNoCopyAvailable      Code = "NO_COPY_AVAILABLE"
	CodeNotFound             Code = "NOT_FOUND"
	CodeAlreadyReturned      Code = "ALREADY_RETURNED"
	CodeDuplicateReservation Code = "DUPLICATE_RESERVATION"
	CodePersistenceFailure   Code = "PERSISTENCE_FAILURE"

	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeConflict        Code = "CONFLICT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func New(code Code, msg string) *APIError { return &APIError{Code: code, Message: msg} }

func ErrInvalid(msg string) *APIError      { return New(CodeInvalidArgument, msg) }
func ErrNotFound(msg string) *APIError     { return New(CodeNotFound, msg) }
func ErrConflict(msg string) *APIError     { return New(CodeConflict, msg) }
func ErrUnauthorized(msg string) *APIError { return New(CodeUnauthorized, msg) }
func ErrForbidden(msg string) *APIError    { return New(CodeForbidden, msg) }
func ErrInternal(msg string) *APIError     { return New(CodeInternal, msg) }

// Persistence wraps a storage-layer fault.
func Persistence(err error) *APIError {
	return &APIError{Code: CodePersistenceFailure, Message: "storage failure", Err: err}
}

// FromStore passes *APIError values through and wraps everything else as a
// persistence failure. nil stays nil.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	var api *APIError
	if errors.As(err, &api) {
		return api
	}
	return Persistence(err)
}

// CodeOf returns the code of err, or "" when err is not an *APIError.
func CodeOf(err error) Code {
	var api *APIError
	if errors.As(err, &api) {
		return api.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool { return CodeOf(err) == code }

func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}

func IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1452
	}
	return false
}

func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArgument, CodeInvalidSelection:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeAlreadyReturned, CodeDuplicateReservation, CodeNoCopyAvailable:
		return http.StatusConflict
	case CodeFinesBlocked, CodeLoanLimitReached:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorDTO struct {
	Success bool `json:"success"`
	Error   struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

// BodyFromErr never leaks the wrapped storage cause to the client.
func BodyFromErr(err error) errorDTO {
	var api *APIError
	if errors.As(err, &api) {
		return Body(api.Code, api.Message)
	}
	return Body(CodeInternal, "internal error")
}

// Respond writes err as the JSON error envelope.
func Respond(c *gin.Context, err error) {
	c.JSON(ToHTTPStatus(err), BodyFromErr(err))
}
