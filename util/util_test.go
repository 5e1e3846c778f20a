// util/util_test.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() {
		t.Errorf("new ErrorLogger has errors")
	}

	e.ErrorString("top %d", 1)
	e.Push("polygon 3")
	e.Push("ring 1")
	e.Error(errors.New("bad vertex"))
	e.Pop()
	e.ErrorString("empty")
	e.Pop()

	expected := []string{"top 1", "polygon 3 / ring 1: bad vertex", "polygon 3: empty"}
	if got := e.Errors(); len(got) != len(expected) {
		t.Fatalf("got errors %v, expected %v", got, expected)
	}
	for i, msg := range e.Errors() {
		if msg != expected[i] {
			t.Errorf("error %d: got %q, expected %q", i, msg, expected[i])
		}
	}

	var buf bytes.Buffer
	e.PrintErrors(&buf, nil)
	if buf.String() != strings.Join(expected, "\n")+"\n" {
		t.Errorf("got printed errors %q", buf.String())
	}
	if e.String() != strings.Join(expected, "\n") {
		t.Errorf("got string %q", e.String())
	}

	var nilLogger *ErrorLogger
	if nilLogger.HaveErrors() || nilLogger.Errors() != nil || nilLogger.CurrentDepth() != 0 {
		t.Errorf("nil ErrorLogger misbehaves")
	}
}

func TestCheckDepth(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for unbalanced Push")
		}
	}()

	var e ErrorLogger
	func() {
		defer e.CheckDepth(e.CurrentDepth())
		e.Push("unbalanced")
	}()
}

type testConfig struct {
	Name    string             `json:"name"`
	Width   int                `json:"width"`
	Enabled bool               `json:"enabled"`
	Colors  []string           `json:"colors"`
	Scales  map[string]float64 `json:"scales"`
}

func TestCheckJSON(t *testing.T) {
	for _, tc := range []struct {
		json   string
		errors int
	}{
		{`{"name": "a", "width": 16, "enabled": true, "colors": ["#fff"], "scales": {"x": 2}}`, 0},
		{`{"nmae": "a"}`, 1},
		{`{"width": "16"}`, 1},
		{`{"colors": "red", "enabled": 1}`, 2},
		{`{"scales": {"x": "big", "y": 1}}`, 1},
		{`{"name": }`, 1},
	} {
		var e ErrorLogger
		CheckJSON[testConfig]([]byte(tc.json), &e)
		if n := len(e.Errors()); n != tc.errors {
			t.Errorf("%s: got %d errors, expected %d: %v", tc.json, n, tc.errors, e.Errors())
		}
	}
}

func TestUnmarshalJSONBytes(t *testing.T) {
	var c testConfig
	if err := UnmarshalJSONBytes([]byte(`{"name": "poly", "width": 32}`), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "poly" || c.Width != 32 {
		t.Errorf("got %+v", c)
	}

	err := UnmarshalJSONBytes([]byte("{\n  \"width\": \"wide\"\n}"), &c)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected error on line 2, got %v", err)
	}

	if err := UnmarshalJSON(strings.NewReader(`{"enabled": true}`), &c); err != nil || !c.Enabled {
		t.Errorf("UnmarshalJSON: got %+v, %v", c, err)
	}
}
