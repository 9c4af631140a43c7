package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type credentialsForm struct {
	Name     string `validate:"max=150"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type profileForm struct {
	Height string `validate:"omitempty,numeric"`
	Weight string `validate:"omitempty,numeric"`
	Age    string `validate:"omitempty,number"`
	Gender string `validate:"max=32"`
}

type workoutForm struct {
	Type      string `validate:"required,max=64"`
	Duration  string `validate:"required,number"`
	Intensity string `validate:"required,oneof=low medium high"`
	Notes     string `validate:"max=500"`
}

// formError turns validator output into one readable line.
func formError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}

// parseAmount reads an optional number. Empty input means "keep". rule is a
// validator tag applied to the parsed value.
func parseAmount(field, raw, rule string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid input: %s: not a number", field)
	}
	if err := validate.Var(v, rule); err != nil {
		return nil, fmt.Errorf("invalid input: %s: must satisfy %s", field, rule)
	}
	return &v, nil
}

// optional returns nil for empty input so a patch leaves the field alone.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
