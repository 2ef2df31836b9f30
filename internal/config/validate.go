package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/stagegraph/internal/stageid"
)

// ErrInvalidModel is returned for models that fail validation.
var ErrInvalidModel = errors.New("invalid task model")

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("stagename", func(fl validator.FieldLevel) bool {
		return stageid.ValidName(fl.Field().String())
	})
}

// Validate checks the loaded model before it is built.
func Validate(m *Model) error {
	if m == nil {
		return fmt.Errorf("%w: model is nil", ErrInvalidModel)
	}
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidModel, describe(err))
	}
	return validateTree(m.Task.Root)
}

func validateTree(s *StageSpec) error {
	if s.IsContainer() {
		if len(s.Children) == 0 {
			return fmt.Errorf("%w: %s %q has no children", ErrInvalidModel, s.Kind, s.Name)
		}
		if s.Kind == KindWrapper && len(s.Children) > 1 {
			return fmt.Errorf("%w: wrapper %q has %d children, expected one", ErrInvalidModel, s.Name, len(s.Children))
		}
	} else if len(s.Children) > 0 {
		return fmt.Errorf("%w: stage %q of kind %q cannot have children", ErrInvalidModel, s.Name, s.Kind)
	}
	for _, c := range s.Children {
		if err := validateTree(c); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStruct runs the struct tag rules on decoded stage arguments.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return errors.New(describe(err))
	}
	return nil
}

// describe turns validator errors into one line per offending field.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}
