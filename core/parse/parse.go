package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/leofalp/jsonrescue/core/recovery"
	"github.com/leofalp/jsonrescue/internal/utils"
)

// ErrTypeMismatch is returned when a value is valid JSON but cannot be
// decoded into the requested type.
var ErrTypeMismatch = errors.New("jsonrescue: value does not match target type")

const mismatchExcerpt = 120

// RecoverAs recovers raw and decodes the recovered value into T.
// Recovery failures keep their *recovery.Error in the chain.
func RecoverAs[T any](raw recovery.RawResponse, opts ...recovery.Option) (T, error) {
	res, err := recovery.Recover(raw, opts...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("parse: %w", err)
	}
	return DecodeAs[T](res.Value)
}

// DecodeAs converts an untyped JSON tree into T. When the direct conversion
// fails, schema envelopes are unwrapped and the conversion is retried once.
//
//	v, _ := DecodeAs[Person](map[string]any{
//	    "name": map[string]any{"type": "string", "value": "John"},
//	})
//	// v.Name == "John"
func DecodeAs[T any](value any) (T, error) {
	var out T
	err := convert(value, &out)
	if err == nil {
		return out, nil
	}
	if unwrapped, changed := unwrapEnvelopes(value); changed {
		var retry T
		if convert(unwrapped, &retry) == nil {
			return retry, nil
		}
	}
	return out, fmt.Errorf("%w: %T: %w", ErrTypeMismatch, out, err)
}

func convert(value any, dst any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// ParseStringAs parses content into T.
//
// Strings, booleans and numbers are converted directly, accepting an
// enveloped value such as {"type": "integer", "value": 42}. Other targets
// are decoded strictly first and, failing that, recovered from the text the
// same way [RecoverAs] does, so fenced, truncated or prose-wrapped objects
// are accepted.
//
//	n, _ := ParseStringAs[int]("42")
//	p, _ := ParseStringAs[Person]("Here you go:\n```json\n{\"name\": \"John\",}\n```")
func ParseStringAs[T any](content string, opts ...recovery.Option) (T, error) {
	var out T
	target := reflect.ValueOf(&out).Elem()

	switch target.Kind() {
	case reflect.String:
		if strings.HasPrefix(strings.TrimSpace(content), "{") {
			if inner, ok := unwrapPrimitive(content); ok {
				target.SetString(inner)
				return out, nil
			}
		}
		target.SetString(content)
		return out, nil

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		err := setPrimitive(target, strings.TrimSpace(content))
		if err == nil {
			return out, nil
		}
		if inner, ok := unwrapPrimitive(content); ok && setPrimitive(target, inner) == nil {
			return out, nil
		}
		return out, fmt.Errorf("%w: %q as %s: %w", ErrTypeMismatch,
			utils.Excerpt(content, mismatchExcerpt), target.Kind(), err)
	}

	if json.Unmarshal([]byte(strings.TrimSpace(content)), &out) == nil {
		return out, nil
	}
	return RecoverAs[T](recovery.RawResponse{Text: content}, opts...)
}

func setPrimitive(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}

// unwrapPrimitive returns the textual form of value when content is a
// single {"type": ..., "value": ...} envelope.
func unwrapPrimitive(content string) (string, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &m); err != nil {
		return "", false
	}
	inner, ok := envelopeValue(m)
	if !ok {
		return "", false
	}
	switch v := inner.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case nil:
		return "", false
	}
	data, err := json.Marshal(inner)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// envelopeValue reports whether m is exactly {"type": ..., "value": ...}.
func envelopeValue(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, ok := m["type"]; !ok {
		return nil, false
	}
	v, ok := m["value"]
	return v, ok
}

// unwrapEnvelopes replaces every envelope in the tree with its value.
//
//	{"name": {"type": "string", "value": "John"}, "age": {"type": "integer", "value": 30}}
//
// becomes
//
//	{"name": "John", "age": 30}
func unwrapEnvelopes(node any) (any, bool) {
	switch v := node.(type) {
	case map[string]any:
		if inner, ok := envelopeValue(v); ok {
			out, _ := unwrapEnvelopes(inner)
			return out, true
		}
		out := make(map[string]any, len(v))
		changed := false
		for k, child := range v {
			c, ch := unwrapEnvelopes(child)
			out[k] = c
			changed = changed || ch
		}
		return out, changed
	case []any:
		out := make([]any, len(v))
		changed := false
		for i, child := range v {
			c, ch := unwrapEnvelopes(child)
			out[i] = c
			changed = changed || ch
		}
		return out, changed
	}
	return node, false
}
