package professional

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input carries the editable fields of a directory entry.
type Input struct {
	Name         string       `json:"name" validate:"required,min=2,max=100"`
	Specialty    string       `json:"specialty" validate:"required,min=2,max=100"`
	Phone        string       `json:"phone" validate:"required,phone"`
	Email        string       `json:"email" validate:"required,email,max=255"`
	Department   string       `json:"department" validate:"required,min=2,max=100"`
	Availability Availability `json:"availability,omitempty" validate:"omitempty,availability"`
	Status       Status       `json:"status,omitempty" validate:"omitempty,status"`
}

// ValidationError describes why an Input was rejected.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var phonePattern = regexp.MustCompile(`^[\d\s+\-()]{10,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("availability", func(fl validator.FieldLevel) bool {
		return Availability(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

// Normalize trims surrounding whitespace from every field.
func (in Input) Normalize() Input {
	return Input{
		Name:         strings.TrimSpace(in.Name),
		Specialty:    strings.TrimSpace(in.Specialty),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Department:   strings.TrimSpace(in.Department),
		Availability: Availability(strings.TrimSpace(string(in.Availability))),
		Status:       Status(strings.TrimSpace(string(in.Status))),
	}
}

// Validate checks a normalized Input. Missing required fields are reported
// together; otherwise the first failing rule in ruleOrder is reported.
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var missing []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Message: "Missing required fields: " + strings.Join(missing, ", "),
			Fields:  missing,
		}
	}

	fe := fieldErrs[0]
	for _, candidate := range fieldErrs[1:] {
		if ruleOrder[candidate.Field()] < ruleOrder[fe.Field()] {
			fe = candidate
		}
	}
	return &ValidationError{Message: describe(fe), Fields: []string{fe.Field()}}
}

// ruleOrder is the order in which per-field rules are reported; missing
// fields are listed in declaration order instead.
var ruleOrder = map[string]int{
	"name":         0,
	"email":        1,
	"phone":        2,
	"specialty":    3,
	"department":   4,
	"availability": 5,
	"status":       6,
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "Invalid email address"
	case "phone":
		return "Invalid phone number format"
	case "availability":
		return "Availability must be one of Available, Busy, On Call, Off Duty"
	case "status":
		return "Status must be active or inactive"
	case "min", "max":
		field := fe.Field()
		if field == "email" {
			return "Email address too long (maximum 255 characters)"
		}
		return fmt.Sprintf("%s must be between 2 and 100 characters", strings.ToUpper(field[:1])+field[1:])
	default:
		return fmt.Sprintf("Invalid value for %s", fe.Field())
	}
}
