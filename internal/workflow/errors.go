package workflow

import (
	"errors"

	"github.com/roach88/graphsmith/internal/params"
)

// ErrCodeUnknownRecipe is reported for lookups of unregistered recipes.
const ErrCodeUnknownRecipe = "E401"

// Code implements the coded error convention.
func (e *UnknownRecipeError) Code() string {
	return ErrCodeUnknownRecipe
}

// ErrorCode returns the stable code carried by err, or "" when it has none.
// For validation failures this is the code of the first rejected field.
func ErrorCode(err error) string {
	if errs, ok := params.AsValidationErrors(err); ok && len(errs) > 0 {
		return errs[0].Code
	}
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}
