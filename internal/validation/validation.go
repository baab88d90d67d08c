// Package validation checks request payloads field by field and reports every
// offending field, not just the first. It owns no state beyond the configured
// validator instance.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/justsurfingit/job-application-tracker/internal/models"
)

// FieldError names one offending field and why it was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their JSON names so errors line up with what the
	// client actually sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// status must be a member of the enumerated set; no coercion.
	_ = validate.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).IsValid()
	})
}

// messages maps validation tags to reason templates.
var messages = map[string]string{
	"required":  "is required",
	"min":       "must be at least %s characters long",
	"max":       "must be no longer than %s characters",
	"url":       "must be a well-formed URL",
	"jobstatus": "must be one of: " + statusList(),
}

func statusList() string {
	parts := make([]string, len(models.AllStatuses))
	for i, s := range models.AllStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// Struct validates s and returns one FieldError per failing field. A nil
// result means the payload is acceptable. Pure: s is never mutated.
func Struct(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Reason: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Reason: reason(e)})
	}
	return out
}

func reason(e validator.FieldError) string {
	msg, ok := messages[e.Tag()]
	if !ok {
		return fmt.Sprintf("failed '%s' validation", e.Tag())
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, e.Param())
	}
	return msg
}
