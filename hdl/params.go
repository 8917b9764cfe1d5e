package hdl

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// BuildParams constructs a value of paramType from a cty object.
//
// For struct types, fields are matched by their `cty` tags; attributes
// missing from v keep the field's zero value, and unknown attributes are
// an error. For Dict, each attribute becomes a string, bool, int64 or
// float64 entry.
func BuildParams(paramType reflect.Type, v cty.Value) (any, error) {
	if v.IsNull() {
		return defaultParams(paramType), nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: parameter values must be known", ErrInvalidParams)
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("%w: expected an object, got %s", ErrInvalidParams, v.Type().FriendlyName())
	}

	switch {
	case paramType == dictType:
		return buildDict(v)
	case isParamClass(paramType):
		return buildStruct(paramType, v)
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidParamType, paramType)
}

func buildStruct(t reflect.Type, v cty.Value) (any, error) {
	zero := reflect.New(t)
	if t.NumField() == 0 {
		if names := slices.Sorted(maps.Keys(v.AsValueMap())); len(names) > 0 {
			return nil, fmt.Errorf("%w: unknown parameter %q for %v", ErrInvalidParams, names[0], t)
		}
		return zero.Elem().Interface(), nil
	}
	objType, err := gocty.ImpliedType(zero.Elem().Interface())
	if err != nil {
		return nil, fmt.Errorf("%w: %v has no cty mapping: %v", ErrInvalidParamType, t, err)
	}
	defaults, err := gocty.ToCtyValue(zero.Elem().Interface(), objType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	merged := defaults.AsValueMap()
	if merged == nil {
		merged = make(map[string]cty.Value)
	}
	for name, attr := range v.AsValueMap() {
		if !objType.HasAttribute(name) {
			return nil, fmt.Errorf("%w: unknown parameter %q for %v", ErrInvalidParams, name, t)
		}
		merged[name] = attr
	}

	full, err := convert.Convert(cty.ObjectVal(merged), objType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := gocty.FromCtyValue(full, zero.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return zero.Elem().Interface(), nil
}

func buildDict(v cty.Value) (Dict, error) {
	out := make(Dict)
	for name, attr := range v.AsValueMap() {
		native, err := ctyScalar(attr)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidParams, name, err)
		}
		out[name] = native
	}
	return out, nil
}

// ctyScalar converts a primitive cty value to its Go equivalent. Numbers
// become int64 when integral and float64 otherwise.
func ctyScalar(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	}
	return nil, fmt.Errorf("unsupported value of type %s", v.Type().FriendlyName())
}

// defaultParams returns the default value of a parameter type.
func defaultParams(t reflect.Type) any {
	if t == dictType {
		return Dict{}
	}
	return reflect.Zero(t).Interface()
}
