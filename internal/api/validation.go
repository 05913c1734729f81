package api

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/cookbook/backend/internal/apperrors"
)

var registerTagNames sync.Once

// useWireFieldNames makes validator report json/form names instead of Go
// field names, so details keys match what the client sent.
func useWireFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(wireName)
	})
}

func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.Split(fld.Tag.Get(tag), ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// bindError converts a gin binding failure into a validation error whose
// details map each offending field to the rule it broke.
func bindError(err error) error {
	details := map[string]any{}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var numErr *strconv.NumError

	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		details[field] = "type"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		details["body"] = "malformed json"
	case errors.Is(err, io.EOF):
		details["body"] = "required"
	case errors.As(err, &numErr):
		details["query"] = "integer"
	default:
		details["request"] = "invalid"
	}

	return apperrors.Validation("invalid request", details)
}
