// Package schema validates the initial state data handed to Push against
// a per-graph schema. Graphs without a registered schema accept anything.
package schema

import (
	"fmt"
	"reflect"

	"github.com/courselets/trail/pkg/domain"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type.
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// Schema maps state-data field names to their expected types.
type Schema map[string]Type

// Validate checks data against the schema. All failures are collected
// into a single AggregateError.
func Validate(s Schema, data map[string]any) error {
	if len(s) == 0 {
		return nil
	}

	var errs []error
	for field, typ := range s {
		value, ok := data[field]
		if !ok {
			errs = append(errs, &ValidationError{Key: field, Reason: "required"})
			continue
		}
		if err := typ.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: field, Reason: err.Error(), Value: value})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

type stringType struct{}

func (stringType) Name() string { return "string" }
func (stringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

type intType struct{}

func (intType) Name() string { return "int" }
func (intType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		// Whole floats arrive from JSON decoding.
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got fractional float")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

type boolType struct{}

func (boolType) Name() string { return "bool" }
func (boolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

type sliceType struct {
	elem Type
}

func (t sliceType) Name() string { return "[" + t.elem.Name() + "]" }
func (t sliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type refType struct {
	label string
}

func (t refType) Name() string { return "ref:" + t.label }
func (t refType) Validate(value any) error {
	ref, ok := value.(domain.Ref)
	if !ok {
		return fmt.Errorf("expected %s reference, got %T", t.label, value)
	}
	if ref.Label != t.label {
		return fmt.Errorf("expected %s reference, got %s", t.label, ref.Label)
	}
	if ref.ID == "" {
		return fmt.Errorf("%s reference has empty id", t.label)
	}
	return nil
}

type customType struct {
	name     string
	validate func(any) error
}

func (t customType) Name() string             { return t.name }
func (t customType) Validate(value any) error { return t.validate(value) }

// String creates a string type validator.
func String() Type { return stringType{} }

// Int creates an integer type validator.
func Int() Type { return intType{} }

// Bool creates a boolean type validator.
func Bool() Type { return boolType{} }

// Slice creates a slice validator for elements of the given type.
func Slice(elem Type) Type { return sliceType{elem: elem} }

// Ref creates a validator for a domain.Ref with the given label.
func Ref(label string) Type { return refType{label: label} }

// Custom creates a validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return customType{name: name, validate: validate}
}
