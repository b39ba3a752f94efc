// Package forms validates user input before any request is made.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nutrigen/nutri/internal/api"
)

// Choices offered by the registration form.
var (
	GenderOptions        = []string{"Male", "Female", "Other"}
	DietOptions          = []string{"Vegetarian", "Vegan", "Non-Vegetarian", "Keto"}
	GoalOptions          = []string{"Weight Loss", "Maintenance", "Muscle Gain"}
	ActivityLevelOptions = []string{"Sedentary", "Lightly Active", "Moderately Active", "Very Active", "Super Active"}
	AllergyOptions       = []string{"Gluten", "Dairy", "Nuts", "Soy", "Eggs", "None"}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return strings.ToLower(fld.Name)
	})
	return v
}

// Login is the sign-in form.
type Login struct {
	Email    string `validate:"required,email" label:"email"`
	Password string `validate:"required" label:"password"`
}

// Register is the sign-up form. Numeric health fields stay text, as typed.
type Register struct {
	Name            string   `validate:"required" label:"name"`
	Email           string   `validate:"required,email" label:"email"`
	Password        string   `validate:"required" label:"password"`
	ConfirmPassword string   `validate:"eqfield=Password" label:"password confirmation"`
	Age             string   `validate:"omitempty,number" label:"age"`
	Gender          string   `validate:"omitempty,oneof=Male Female Other" label:"gender"`
	Height          string   `validate:"omitempty,numeric" label:"height"`
	Weight          string   `validate:"omitempty,numeric" label:"weight"`
	DietPreference  string   `validate:"omitempty,oneof=Vegetarian Vegan Non-Vegetarian Keto" label:"diet preference"`
	Goal            string   `validate:"omitempty,oneof='Weight Loss' Maintenance 'Muscle Gain'" label:"goal"`
	ActivityLevel   string   `validate:"omitempty,oneof=Sedentary 'Lightly Active' 'Moderately Active' 'Very Active' 'Super Active'" label:"activity level"`
	Allergies       []string `label:"allergies"`
}

// Request converts the form into the registration request body. "None" is
// only sent alone, and stands for no selected allergy.
func (r Register) Request() api.RegisterRequest {
	var allergies api.Allergies
	for _, a := range r.Allergies {
		if a = strings.TrimSpace(a); a != "" && !strings.EqualFold(a, "None") {
			allergies = append(allergies, a)
		}
	}
	if len(allergies) == 0 {
		allergies = api.Allergies{"None"}
	}
	return api.RegisterRequest{
		Name:           strings.TrimSpace(r.Name),
		Email:          strings.TrimSpace(r.Email),
		Password:       r.Password,
		Age:            strings.TrimSpace(r.Age),
		Gender:         r.Gender,
		Height:         strings.TrimSpace(r.Height),
		Weight:         strings.TrimSpace(r.Weight),
		DietPreference: r.DietPreference,
		Goal:           r.Goal,
		ActivityLevel:  r.ActivityLevel,
		Allergies:      allergies,
	}
}

// Search is the food search query.
type Search struct {
	Query string `validate:"required" label:"search query"`
}

// Barcode is the scan input.
type Barcode struct {
	Code string `validate:"required,numeric,min=8,max=14" label:"barcode"`
}

// ValidationError lists every failed field of a form, in field order.
type ValidationError struct {
	Fields []FieldError
}

// FieldError is one failed field.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// For returns the message for field, or "".
func (e *ValidationError) For(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Validate checks form against its validation tags. Surrounding whitespace is
// ignored everywhere except passwords.
func Validate(form interface{}) error {
	switch f := form.(type) {
	case Login:
		f.Email = strings.TrimSpace(f.Email)
		form = f
	case Register:
		f.Email = strings.TrimSpace(f.Email)
		f.Name = strings.TrimSpace(f.Name)
		f.Age = strings.TrimSpace(f.Age)
		f.Height = strings.TrimSpace(f.Height)
		f.Weight = strings.TrimSpace(f.Weight)
		form = f
	case Search:
		f.Query = strings.TrimSpace(f.Query)
		form = f
	case Barcode:
		f.Code = strings.TrimSpace(f.Code)
		form = f
	}

	if err := validate.Struct(form); err != nil {
		return formatValidationError(err)
	}
	return nil
}

var oneOfSplit = regexp.MustCompile(`'[^']*'|\S+`)

// oneOfValues splits a oneof parameter the way the validator does.
func oneOfValues(param string) []string {
	values := oneOfSplit.FindAllString(param, -1)
	for i, v := range values {
		values[i] = strings.Trim(v, "'")
	}
	return values
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	out := &ValidationError{}
	for _, e := range validationErrors {
		out.Fields = append(out.Fields, FieldError{Field: e.Field(), Message: formatFieldError(e)})
	}
	return out
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email address"
	case "eqfield":
		return "Passwords do not match"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "number", "numeric":
		return fmt.Sprintf("%s must be a number", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(oneOfValues(e.Param()), ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
