package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GregMSThompson/transactions-backend/internal/errs"
)

var validate = validator.New()

// validateArgs reports the first failing field as "Invalid <field> parameter."
// using the query parameter spelling of the field name.
func validateArgs(args any) error {
	err := validate.Struct(args)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewValidationError(err.Error())
	}
	return errs.NewValidationError("Invalid " + paramName(fieldErrs[0].Field()) + " parameter.")
}

func paramName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
