package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/qri-io/jsonschema"
)

// bodySchema pins the shape of the request body. Presence and format checks are
// left to the struct tags on Input so every field is reported the same way
const bodySchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"email": {"type": "string"},
		"github_url": {"type": "string"},
		"linkedin_url": {"type": "string"},
		"twitter_url": {"type": "string"}
	}
}`

var (
	schema   *jsonschema.Schema
	validate *validator.Validate
)

func init() {
	schema = &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(bodySchema), schema); err != nil {
		panic(fmt.Sprintf("submission: invalid body schema: %v", err))
	}

	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// FieldError describes a single field that failed validation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field of a submission that failed validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid submission: " + strings.Join(msgs, "; ")
}

// Has reports whether the named field failed validation
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Parse decodes and validates a raw request body. It performs no I/O. Every
// failing field is reported, including fields that failed the type check
func Parse(ctx context.Context, body []byte) (Input, error) {
	if !json.Valid(body) {
		return Input{}, &ValidationError{Fields: []FieldError{{Field: "body", Message: "must be a valid JSON object"}}}
	}

	keyErrs, err := schema.ValidateBytes(ctx, body)
	if err != nil {
		return Input{}, &ValidationError{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}

	verr := &ValidationError{}
	for _, ke := range keyErrs {
		field := strings.TrimPrefix(ke.PropertyPath, "/")
		if field == "" {
			// The body itself is not an object
			return Input{}, &ValidationError{Fields: []FieldError{{Field: "body", Message: ke.Message}}}
		}
		if !verr.Has(field) {
			verr.Fields = append(verr.Fields, FieldError{Field: field, Message: ke.Message})
		}
	}

	// Keys are matched exactly; values of the wrong type read as empty
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Input{}, &ValidationError{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}

	in := Input{
		Name:        stringField(raw, "name"),
		Email:       stringField(raw, "email"),
		GithubURL:   stringField(raw, "github_url"),
		LinkedinURL: stringField(raw, "linkedin_url"),
		TwitterURL:  stringField(raw, "twitter_url"),
	}.trimmed()

	if err := in.Validate(); err != nil {
		var fieldErrs *ValidationError
		if !errors.As(err, &fieldErrs) {
			return Input{}, err
		}
		for _, fe := range fieldErrs.Fields {
			if !verr.Has(fe.Field) {
				verr.Fields = append(verr.Fields, fe)
			}
		}
	}

	if len(verr.Fields) > 0 {
		return Input{}, verr
	}
	return in, nil
}

// Validate checks every field of the input and reports all failures at once
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return verr
}

func (in Input) trimmed() Input {
	return Input{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		GithubURL:   strings.TrimSpace(in.GithubURL),
		LinkedinURL: strings.TrimSpace(in.LinkedinURL),
		TwitterURL:  strings.TrimSpace(in.TwitterURL),
	}
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "http_url":
		return "value is not a valid absolute http(s) URL"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
