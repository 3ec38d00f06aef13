package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validationMessage turns validator output into one line a user can act on
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " is required"
	case "min", "max":
		if fe.Kind().String() == "string" {
			return field + " cannot be empty"
		}
		return fmt.Sprintf("%s must be between 1 and 5", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func fieldLabel(name string) string {
	switch name {
	case "SpotID":
		return "spot"
	case "UserID":
		return "user"
	case "CrowdLevel":
		return "crowd level"
	default:
		return strings.ToLower(name)
	}
}
