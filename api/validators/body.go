package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
)

const maxBodyBytes = 1 << 20

var validate = func() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON name so messages match what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}()

var errBodyRequired = pkgerrors.New(pkgerrors.CodeValidation, "request body required")

// DecodeJSONBody decodes and validates a required JSON body. Unknown fields
// are ignored.
func DecodeJSONBody(r *http.Request, dest any) error {
	present, err := decode(r, dest)
	if err != nil {
		return err
	}
	if !present {
		return errBodyRequired
	}
	return check(dest)
}

// DecodeOptionalJSONBody accepts a missing or empty body and leaves dest as is.
func DecodeOptionalJSONBody(r *http.Request, dest any) error {
	present, err := decode(r, dest)
	if err != nil || !present {
		return err
	}
	return check(dest)
}

func decode(r *http.Request, dest any) (bool, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return false, nil
	}
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dest)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, io.EOF):
		return false, nil
	default:
		return false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}
}

// check runs validate tags and folds failures into one VALIDATION_ERROR whose
// message names the first failing field.
func check(dest any) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
	}
	first := fieldErrs[0].Field()
	return pkgerrors.New(pkgerrors.CodeValidation, first+" "+details[first]).WithDetails(details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "dive":
		return "contains an invalid entry"
	default:
		return "is invalid"
	}
}
