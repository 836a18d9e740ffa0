// Package validation is the structural constraint pipeline for inbound user
// requests. Constraints live in one inspectable rule table and are evaluated
// uniformly: every violation is collected before the outcome is decided, so
// a caller sees all of their mistakes at once instead of the first one.
package validation

import (
	"regexp"
	"time"
	"unicode/utf8"

	"clearusers/internal/user/models"
	"clearusers/pkg/problem"
)

// requiredMessage is reported when a required field is absent on creation.
const requiredMessage = "must not be null"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+[0-9]{3}\s?[0-9]{2}\s?[0-9]{3}\s?[0-9]{4}$`)
)

// Rule is one structural constraint on a single input field.
type Rule struct {
	// Field is the input field name as it appears in violation reports.
	Field string
	// Message is the constraint-specific violation text.
	Message string
	// Required marks the field mandatory on creation. Absent optional
	// fields are simply skipped.
	Required bool
	// CreateOnly restricts the rule to creation requests; partial updates
	// never evaluate it even when the field is supplied.
	CreateOnly bool
	// Check reports whether a present value satisfies the constraint.
	Check func(value string, now time.Time) bool
}

// Rules is the complete constraint set, in report order.
var Rules = []Rule{
	{
		Field:    "firstName",
		Message:  "The first name must be more than 2 letters.",
		Required: true,
		Check:    minLength(2),
	},
	{
		Field:    "lastName",
		Message:  "The last name must be more than 2 letters.",
		Required: true,
		Check:    minLength(2),
	},
	{
		Field:    "email",
		Message:  "Wrong email format.",
		Required: true,
		Check: func(value string, _ time.Time) bool {
			return emailPattern.MatchString(value)
		},
	},
	{
		Field:    "birthDate",
		Message:  "The date must have a valid format of 'YYYY-MM-DD'.",
		Required: true,
		Check: func(value string, _ time.Time) bool {
			_, err := models.ParseDate(value)
			return err == nil
		},
	},
	{
		Field:      "birthDate",
		Message:    "The date must be in the past.",
		CreateOnly: true,
		Check: func(value string, now time.Time) bool {
			parsed, err := models.ParseDate(value)
			if err != nil {
				// Unparseable values are reported by the format rule.
				return true
			}
			return parsed.Before(models.DateOf(now))
		},
	},
	{
		Field:   "address",
		Message: "The address is too long.",
		Check:   maxLength(500),
	},
	{
		Field:   "phoneNumber",
		Message: "Invalid phone number. Valid format is +380 93 123 4567 or without spaces +380931234567",
		Check: func(value string, _ time.Time) bool {
			return value == "" || phonePattern.MatchString(value)
		},
	},
}

// ValidateCreate evaluates every creation constraint and returns all
// violations, one Problem per violated field constraint.
func ValidateCreate(req models.CreateUserRequest, now time.Time) []problem.Problem {
	return evaluate(func(field string) *string {
		switch field {
		case "firstName":
			return req.FirstName
		case "lastName":
			return req.LastName
		case "email":
			return req.Email
		case "birthDate":
			return req.BirthDate
		case "address":
			return req.Address
		case "phoneNumber":
			return req.PhoneNumber
		}
		return nil
	}, true, now)
}

// ValidateUpdate evaluates the constraint set against the fields present in
// a partial update. No field is required, and create-only rules are skipped.
func ValidateUpdate(req models.UpdateUserRequest, now time.Time) []problem.Problem {
	return evaluate(func(field string) *string {
		switch field {
		case "firstName":
			return req.FirstName
		case "lastName":
			return req.LastName
		case "email":
			return req.Email
		case "birthDate":
			return req.BirthDate
		case "address":
			return req.Address
		case "phoneNumber":
			return req.PhoneNumber
		}
		return nil
	}, false, now)
}

func evaluate(value func(field string) *string, create bool, now time.Time) []problem.Problem {
	var problems []problem.Problem
	for _, rule := range Rules {
		if rule.CreateOnly && !create {
			continue
		}

		v := value(rule.Field)
		if v == nil {
			if create && rule.Required {
				problems = append(problems, problem.Problem{
					Message: requiredMessage,
					Field:   rule.Field,
				})
			}
			continue
		}

		if !rule.Check(*v, now) {
			problems = append(problems, problem.Problem{
				Message:    rule.Message,
				Field:      rule.Field,
				WrongValue: *v,
			})
		}
	}
	return problems
}

func minLength(n int) func(string, time.Time) bool {
	return func(value string, _ time.Time) bool {
		return utf8.RuneCountInString(value) >= n
	}
}

func maxLength(n int) func(string, time.Time) bool {
	return func(value string, _ time.Time) bool {
		return utf8.RuneCountInString(value) <= n
	}
}
