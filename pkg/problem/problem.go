// Package problem defines the discriminated failure type shared by every
// layer of the request pipeline. Services and the HTTP boundary return
// *problem.Error instead of raising ad-hoc errors; the responder in
// pkg/platform/httputil performs the single table-driven translation to an
// RFC 7807 payload.
//
// Each failure category has exactly one constructor, so the status code,
// category label, and Problem shape for a given failure kind are decided in
// one place.
package problem

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Category labels surfaced as the "detail" member of the problem payload.
const (
	DetailFailedValidation    = "Failed validation"
	DetailYoungAge            = "Young Age"
	DetailUserNotFound        = "User is not found"
	DetailIllegalArguments    = "Illegal arguments"
	DetailConstraintViolation = "Constraint violation"
	DetailWrongParameter      = "Wrong input parameter"
)

// Problem describes a single cause of a failed request. Field is empty for
// request-global causes; WrongValue is empty when the offending value was
// itself absent.
type Problem struct {
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	WrongValue string `json:"wrongValue,omitempty"`
}

// Error is a terminal pipeline failure: an HTTP status, a category label,
// and an ordered list of Problems. It satisfies the error interface so it
// can travel through ordinary error returns up to the responder.
type Error struct {
	Status   int
	Detail   string
	Problems []Problem

	cause error
}

func (e *Error) Error() string {
	if len(e.Problems) == 0 {
		return e.Detail
	}
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Message
	}
	return fmt.Sprintf("%s: %s", e.Detail, strings.Join(msgs, "; "))
}

// Unwrap exposes the originating error for store-level failures so callers
// can still match sentinel errors with errors.Is.
func (e *Error) Unwrap() error {
	return e.cause
}

// FailedValidation reports one or more structural field violations.
func FailedValidation(problems ...Problem) *Error {
	return &Error{
		Status:   http.StatusBadRequest,
		Detail:   DetailFailedValidation,
		Problems: problems,
	}
}

// YoungAge reports a creation request whose subject is below the configured
// minimum age. The birth date is echoed in both the message and the Problem.
func YoungAge(birthDate string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Detail: DetailYoungAge,
		Problems: []Problem{{
			Message:    fmt.Sprintf("You are too young to register. Your birthday is at '%s'", birthDate),
			Field:      "birthDate",
			WrongValue: birthDate,
		}},
	}
}

// UserNotFound reports an update or delete against an identifier the store
// does not hold.
func UserNotFound(id int64) *Error {
	return &Error{
		Status: http.StatusNotFound,
		Detail: DetailUserNotFound,
		Problems: []Problem{{
			Message:    fmt.Sprintf("User with id='%d' can not be found", id),
			Field:      "User id",
			WrongValue: strconv.FormatInt(id, 10),
		}},
	}
}

// IllegalRange reports a birth-date search whose `from` bound is not
// strictly before its `to` bound. Both bounds are echoed verbatim; the
// Problem is request-global so it names no field.
func IllegalRange(from, to string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Detail: DetailIllegalArguments,
		Problems: []Problem{{
			Message: fmt.Sprintf("Date `to`-'%s' is before date `from`-'%s'.", to, from),
		}},
	}
}

// ConstraintViolation reports a store-level integrity conflict, carrying the
// underlying cause's message through to the caller.
func ConstraintViolation(cause error) *Error {
	return &Error{
		Status:   http.StatusBadRequest,
		Detail:   DetailConstraintViolation,
		Problems: []Problem{{Message: cause.Error()}},
		cause:    cause,
	}
}

// WrongParameter reports a path or query parameter that failed type
// coercion at the boundary.
func WrongParameter(field, requiredType, wrongValue string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Detail: DetailWrongParameter,
		Problems: []Problem{{
			Message:    fmt.Sprintf("The field '%s' must have a valid type of '%s'", field, requiredType),
			Field:      field,
			WrongValue: wrongValue,
		}},
	}
}
