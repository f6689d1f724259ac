package library

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NewBookInput is the validated shape of a catalog addition.
type NewBookInput struct {
	ISBN        string `validate:"required"`
	Title       string `validate:"required"`
	Author      string `validate:"required"`
	PublishedOn string `validate:"omitempty,datetime=2006-01-02"`
}

// NewMemberInput is the validated shape of a member registration.
type NewMemberInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Tier     string `validate:"required"`
	Password string `validate:"required"`
}

// ValidateInput runs struct validation and flattens failures into one
// readable error.
func ValidateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(e.Field())))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", strings.ToLower(e.Field())))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a date in YYYY-MM-DD form", strings.ToLower(e.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", strings.ToLower(e.Field())))
		}
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}
