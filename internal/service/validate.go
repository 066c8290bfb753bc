package service

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 6
	dateLayout        = "2006-01-02"
)

// Column widths of the users table, counted in characters.
const (
	maxNameLength  = 255
	maxEmailLength = 255
	maxPhoneLength = 20
)

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func validPassword(password string) bool {
	return len(password) >= minPasswordLength
}

// checkLength rejects a sanitized value wider than its column. Escaping
// lengthens values, so it runs after sanitize.
func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return invalid(fmt.Sprintf("Field '%s' is too long", field))
	}
	return nil
}

// parseDate parses an optional YYYY-MM-DD value. Empty input yields nil.
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, invalid("Invalid " + field + " (expected YYYY-MM-DD)")
	}
	return &t, nil
}
