// Package validation plugs request normalisation and the domain rule set into
// gin's binding layer and translates failures into the error taxonomy.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/types"
)

// Normalizer is implemented by request DTOs that trim or lowercase input
// before validation.
type Normalizer interface {
	Normalize()
}

var (
	personNameRe = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phoneRe      = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	slugRe       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// enumRules maps a binding tag to its accepted values.
var enumRules = map[string][]string{
	"role":          types.ValidRoles,
	"category":      types.ValidProjectCategories,
	"projectstatus": types.ValidProjectStatuses,
	"contactstatus": types.ValidContactStatuses,
	"priority":      types.ValidPriorities,
	"projecttype":   types.ValidProjectTypes,
	"budget":        types.ValidBudgets,
	"timeline":      types.ValidTimelines,
	"source":        types.ValidSources,
}

// Validator implements binding.StructValidator.
type Validator struct {
	once     sync.Once
	validate *validator.Validate
}

var _ binding.StructValidator = (*Validator)(nil)

func New() *Validator {
	v := &Validator{}
	v.lazyinit()
	return v
}

// Install makes v the validator gin uses for every ShouldBind call.
func Install() *Validator {
	v := New()
	binding.Validator = v
	return v
}

func (v *Validator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		mustRegister(v.validate, "personname", matches(personNameRe))
		mustRegister(v.validate, "phone", matches(phoneRe))
		mustRegister(v.validate, "slug", matches(slugRe))
		mustRegister(v.validate, "strongpassword", strongPassword)
		for tag, values := range enumRules {
			mustRegister(v.validate, tag, oneOf(values))
		}
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return types.IsValid(fl.Field().String(), values)
	}
}

func strongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// ValidateStruct normalises obj when it supports it, then runs the rules.
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		if n, ok := obj.(Normalizer); ok {
			n.Normalize()
		}
		if value.Elem().Kind() != reflect.Struct {
			return v.ValidateStruct(value.Elem().Interface())
		}
		return v.validateStruct(obj)
	case reflect.Struct:
		return v.validateStruct(obj)
	case reflect.Slice, reflect.Array:
		var errs binding.SliceValidationError
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) == 0 {
			return nil
		}
		return errs
	default:
		return nil
	}
}

func (v *Validator) validateStruct(obj any) error {
	v.lazyinit()
	return v.validate.Struct(obj)
}

// Engine exposes the underlying validator.
func (v *Validator) Engine() any {
	v.lazyinit()
	return v.validate
}

// ============================================
// Error translation
// ============================================

// Translate converts a bind or validation failure into a ValidationFailed
// error listing every failing field.
func Translate(err error) *apperror.Error {
	if err == nil {
		return nil
	}
	if ae, ok := apperror.As(err); ok {
		return ae
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError(fe))
		}
		return apperror.Validation(fields...)
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		numErr    *strconv.NumError
		timeErr   *time.ParseError
	)
	switch {
	case errors.Is(err, io.EOF):
		return apperror.Validation(apperror.FieldError{Field: "body", Message: "Request body is required"})
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.Validation(apperror.FieldError{Field: "body", Message: "Request body must be valid JSON"})
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return apperror.Validation(apperror.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be of type %s", field, typeErr.Type.String()),
		})
	case errors.As(err, &numErr):
		return apperror.Validation(apperror.FieldError{Field: "query", Message: fmt.Sprintf("Invalid value %q", numErr.Num)})
	case errors.As(err, &timeErr):
		return apperror.Validation(apperror.FieldError{Field: "date", Message: fmt.Sprintf("Invalid date %q", timeErr.Value)})
	}
	return apperror.Validation(apperror.FieldError{Field: "body", Message: err.Error()})
}

func fieldError(fe validator.FieldError) apperror.FieldError {
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	out := apperror.FieldError{Field: path, Message: message(fe, path)}
	if !strings.Contains(strings.ToLower(path), "password") {
		out.Value = fe.Value()
	}
	return out
}

func message(fe validator.FieldError, field string) string {
	label := field
	if fe.Field() != "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return "Please provide a valid email"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "personname":
		return fmt.Sprintf("%s can only contain letters and spaces", label)
	case "strongpassword":
		return "Password must contain at least one lowercase letter, one uppercase letter, and one number"
	case "phone":
		return "Please provide a valid phone number"
	case "slug":
		return "Slug can only contain lowercase letters, numbers, and hyphens"
	case "min", "max":
		return lengthMessage(fe, label)
	}
	if values, ok := enumRules[fe.Tag()]; ok {
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(values, ", "))
	}
	return fmt.Sprintf("%s is invalid", label)
}

func lengthMessage(fe validator.FieldError, label string) string {
	bound := "at least"
	if fe.Tag() == "max" {
		bound = "at most"
	}
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be %s %s characters", label, bound, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%s must contain %s %s items", label, bound, fe.Param())
	default:
		return fmt.Sprintf("%s must be %s %s", label, bound, fe.Param())
	}
}
