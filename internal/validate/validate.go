// Package validate wraps go-playground/validator and turns its field errors
// into user-facing messages keyed by JSON field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is detected locally and blocks submission.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Messages maps "field.tag" (or just "field") to the message shown to users.
type Messages map[string]string

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return val
}

// Struct validates s; call OrNil on the result to get an error value.
func Struct(s any, msgs Messages) *ValidationError {
	err := v.Struct(s)
	if err == nil {
		return &ValidationError{}
	}
	out := &ValidationError{}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		out.Add("_", err.Error())
		return out
	}
	for _, fe := range fes {
		field := fe.Field()
		if m, ok := msgs[field+"."+fe.Tag()]; ok {
			out.Add(field, m)
			continue
		}
		if m, ok := msgs[field]; ok {
			out.Add(field, m)
			continue
		}
		out.Add(field, fmt.Sprintf("failed %s validation", fe.Tag()))
	}
	return out
}
