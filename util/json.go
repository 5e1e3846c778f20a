// util/json.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
)

///////////////////////////////////////////////////////////////////////////
// JSON

func UnmarshalJSON[T any](r io.Reader, out *T) error {
	// We need the contents as an array of bytes so that we can issue
	// reasonable errors.
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return UnmarshalJSONBytes(b, out)
}

// UnmarshalJSONBytes unmarshals the bytes into the given type but goes
// through some efforts to return useful error messages when the JSON is
// invalid.
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	decodeOffset := func(offset int64) (line, char int) {
		line, char = 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return
	}

	switch jerr := err.(type) {
	case *json.SyntaxError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %v", line, char, jerr)

	case *json.UnmarshalTypeError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %s value for %s.%s invalid for type %s",
			line, char, jerr.Value, jerr.Struct, jerr.Field, jerr.Type.String())

	default:
		return err
	}
}

// CheckJSON checks whether the provided JSON is syntactically valid and
// then typechecks it with respect to the provided type T, reporting
// problems (including unknown, probably misspelled, keys) to e.
func CheckJSON[T any](contents []byte, e *ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	var items any
	if err := UnmarshalJSONBytes(contents, &items); err != nil {
		e.Error(err)
		return
	}

	ty := reflect.TypeOf((*T)(nil)).Elem()
	typeCheckJSON(items, ty, e)
}

func typeCheckJSON(json any, ty reflect.Type, e *ErrorLogger) {
	for ty.Kind() == reflect.Ptr {
		ty = ty.Elem()
	}

	mismatch := func() {
		e.ErrorString("unexpected data format provided for object: %s", reflect.TypeOf(json))
	}

	switch ty.Kind() {
	case reflect.Array, reflect.Slice:
		if array, ok := json.([]any); ok {
			for _, item := range array {
				typeCheckJSON(item, ty.Elem(), e)
			}
		} else {
			mismatch()
		}

	case reflect.Map:
		if m, ok := json.(map[string]any); ok {
			for k, v := range m {
				e.Push(k)
				typeCheckJSON(v, ty.Elem(), e)
				e.Pop()
			}
		} else {
			mismatch()
		}

	case reflect.Struct:
		items, ok := json.(map[string]any)
		if !ok {
			mismatch()
			return
		}

		fields := make(map[string]reflect.Type)
		for _, field := range reflect.VisibleFields(ty) {
			if jtag, ok := field.Tag.Lookup("json"); ok {
				name, _, _ := strings.Cut(jtag, ",")
				fields[name] = field.Type
			}
		}
		for item, values := range items {
			if fty, ok := fields[item]; ok {
				e.Push(item)
				typeCheckJSON(values, fty, e)
				e.Pop()
			} else {
				e.ErrorString("The entry %q is not an expected JSON object. Is it misspelled?", item)
			}
		}

	case reflect.Bool:
		if _, ok := json.(bool); !ok {
			mismatch()
		}

	case reflect.String:
		if _, ok := json.(string); !ok {
			mismatch()
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if _, ok := json.(float64); !ok {
			mismatch()
		}
	}
}
