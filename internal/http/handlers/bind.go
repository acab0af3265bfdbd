package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes and validates a JSON body. On failure it writes the 400
// envelope itself and reports false, with the per-field problems joined into
// one message ("field: msg1, msg2; field2: msg3") and kept structured under
// details.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		fields := bindErrorFields(err, out)

		RespondStatus(ctx, http.StatusBadRequest, joinFieldErrors(fields), gin.H{"fields": fields})

		return false
	}

	return true
}

func bindErrorFields(err error, out interface{}) map[string][]string {
	rootType := baseStructType(out)
	fields := make(map[string][]string)

	var validatorErrs validator.ValidationErrors

	if errors.As(err, &validatorErrs) {
		for _, fe := range validatorErrs {
			name := jsonFieldName(rootType, fe.StructField())
			fields[name] = append(fields[name], validationMessage(fe.Tag(), fe.Param()))
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError

	if errors.As(err, &typeErr) {
		name := typeErr.Field
		if name == "" {
			name = "body"
		}
		fields[name] = append(fields[name], "must be of type "+typeErr.Type.String())
		return fields
	}

	// syntax errors, truncated bodies, oversized bodies
	fields["body"] = append(fields["body"], "invalid JSON")
	return fields
}

func joinFieldErrors(fields map[string][]string) string {
	if len(fields) == 0 {
		return "Invalid request body."
	}

	names := make([]string, 0, len(fields))

	for name := range fields {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, 0, len(names))

	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(fields[name], ", "))
	}

	return strings.Join(parts, "; ")
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

// jsonFieldName maps a struct field back to its json tag; our request DTOs
// are flat, so one level is enough.
func jsonFieldName(rootType reflect.Type, structField string) string {
	if rootType == nil {
		return structField
	}

	sf, ok := rootType.FieldByName(structField)

	if !ok {
		return structField
	}

	tag := sf.Tag.Get("json")

	if tag == "" {
		return structField
	}

	name, _, _ := strings.Cut(tag, ",")

	if name == "" || name == "-" {
		return structField
	}

	return name
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return "failed " + rule + " validation (" + param + ")"
		}
		return "failed " + rule + " validation"
	}
}
