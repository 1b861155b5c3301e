package dto

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jsamuelsen/go-error-filters/internal/domain"
)

// jsonTagParts is the number of parts when splitting a JSON tag by comma.
// The first part is the field name, subsequent parts are options like "omitempty".
const jsonTagParts = 2

// Validation errors.
var (
	// ErrValidation indicates a validation failure occurred.
	ErrValidation = errors.New("validation failed")

	// ErrBinding indicates JSON or query binding failed.
	ErrBinding = errors.New("binding failed")
)

var (
	// validate is the singleton validator instance.
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the singleton validator instance.
// It initializes the validator with custom validations on first call.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use JSON tag names so descriptors name the fields clients sent
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", jsonTagParts)[0]
			if name == "-" {
				return ""
			}

			return name
		})

		_ = validate.RegisterValidation("uuid", validateUUID)
		_ = validate.RegisterValidation("notempty", validateNotEmpty)
	})

	return validate
}

// Validate validates a struct using the validator instance.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate binds JSON body to the struct and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	err := c.ShouldBindJSON(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

// ErrorDescriptors converts validator failures into request error descriptors.
// Fields are nested by their namespace, so "address.city" becomes a child of
// "address". Returns nil for errors that are not validation failures.
func ErrorDescriptors(err error) []domain.ErrorDescriptor {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	var roots []domain.ErrorDescriptor
	for _, fe := range validationErrs {
		path := strings.Split(fe.Namespace(), ".")
		// Drop the root struct name
		if len(path) > 1 {
			path = path[1:]
		}

		roots = insertDescriptor(roots, path, fe)
	}

	return roots
}

func insertDescriptor(
	nodes []domain.ErrorDescriptor,
	path []string,
	fe validator.FieldError,
) []domain.ErrorDescriptor {
	i := slices.IndexFunc(nodes, func(d domain.ErrorDescriptor) bool {
		return d.Property == path[0]
	})
	if i < 0 {
		nodes = append(nodes, domain.ErrorDescriptor{Property: path[0]})
		i = len(nodes) - 1
	}

	if len(path) > 1 {
		nodes[i].Children = insertDescriptor(nodes[i].Children, path[1:], fe)
		return nodes
	}

	node := &nodes[i]
	node.Value = fe.Value()
	node.Constraints = append(node.Constraints, fe.Tag())

	if fe.Param() != "" {
		if node.Params == nil {
			node.Params = make(map[string]string)
		}

		node.Params[fe.Tag()] = fe.Param()
	}

	return nodes
}

// validateUUID validates that a string is a valid UUID.
func validateUUID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Empty is ok, use 'required' tag if needed
	}

	_, err := uuid.Parse(value)

	return err == nil
}

// validateNotEmpty validates that a string is not empty after trimming whitespace.
func validateNotEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}
