// util/error.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmp/polybuf/log"
)

// ErrorLogger accumulates errors found while validating input (polygon
// collections, configuration files). It tracks context about what is
// currently being validated so that each message says where the problem
// is, and it makes it possible to keep validating after the first error.
type ErrorLogger struct {
	// Tracked via Push()/Pop() calls to remember what we're looking at if
	// an error is found.
	hierarchy []string
	// Actual error messages to report.
	errors []string
}

func (e *ErrorLogger) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *ErrorLogger) Pop() {
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

func (e *ErrorLogger) ErrorString(s string, args ...any) {
	e.errors = append(e.errors, e.prefix()+fmt.Sprintf(s, args...))
}

func (e *ErrorLogger) Error(err error) {
	e.errors = append(e.errors, e.prefix()+err.Error())
}

func (e *ErrorLogger) prefix() string {
	if len(e.hierarchy) == 0 {
		return ""
	}
	return strings.Join(e.hierarchy, " / ") + ": "
}

func (e *ErrorLogger) HaveErrors() bool {
	return e != nil && len(e.errors) > 0
}

// Errors returns the accumulated messages, in the order they were
// reported.
func (e *ErrorLogger) Errors() []string {
	if e == nil {
		return nil
	}
	return e.errors
}

func (e *ErrorLogger) PrintErrors(w io.Writer, lg *log.Logger) {
	// Two loops so they aren't interleaved with logging to w
	if lg != nil {
		for _, err := range e.errors {
			lg.Errorf("%+v", err)
		}
	}
	for _, err := range e.errors {
		fmt.Fprintln(w, err)
	}
}

func (e *ErrorLogger) String() string {
	return strings.Join(e.errors, "\n")
}

// CheckDepth is intended to be deferred at the start of a validation
// routine with the depth at entry; it panics if the Push()/Pop() calls
// in between were unbalanced.
func (e *ErrorLogger) CheckDepth(d int) {
	if e == nil || e.CurrentDepth() == d {
		return
	}

	if r := recover(); r != nil {
		// Don't mask the original panic.
		panic(r)
	}
	panic(fmt.Sprintf("ErrorLogger: initial depth %d, final %d", d, e.CurrentDepth()))
}

func (e *ErrorLogger) CurrentDepth() int {
	if e == nil {
		return 0
	}
	return len(e.hierarchy)
}
