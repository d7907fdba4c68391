package validation

import (
	"errors"
	"fmt"
	"strings"
)

// MaxFieldLen ограничивает длину строковых полей пользователя (VARCHAR(255) в схеме)
const MaxFieldLen = 255

var (
	// ErrMissingField indicates that a required field is absent or empty
	ErrMissingField = errors.New("missing required field")

	// ErrFieldTooLong indicates that a field exceeds MaxFieldLen
	ErrFieldTooLong = errors.New("field too long")
)

// Field is a named value checked by Required and MaxLen.
type Field struct {
	Name  string
	Value string
}

// Required возвращает ErrMissingField со списком всех пустых полей
func Required(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	return nil
}

// MaxLen returns ErrFieldTooLong for the first field longer than MaxFieldLen.
func MaxLen(fields ...Field) error {
	for _, f := range fields {
		if len(f.Value) > MaxFieldLen {
			return fmt.Errorf("%w: %s must not exceed %d characters", ErrFieldTooLong, f.Name, MaxFieldLen)
		}
	}
	return nil
}

// ValidateNewUser checks a create request: username, password, email and role
// are all required.
func ValidateNewUser(username, password, email, role string) error {
	fields := []Field{
		{Name: "username", Value: username},
		{Name: "password", Value: password},
		{Name: "email", Value: email},
		{Name: "role", Value: role},
	}

	if err := Required(fields...); err != nil {
		return err
	}

	return MaxLen(fields...)
}
