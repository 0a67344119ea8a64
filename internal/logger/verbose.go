// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
)

// fmtMismatch matches the markers fmt leaves behind when a template and its
// argument count disagree: %!d(MISSING), %!(EXTRA ...), %!(NOVERB).
var fmtMismatch = regexp.MustCompile(`%![a-zA-Z]?\(`)

// checkedArg stands in for a verbose argument while the template is
// validated. It writes nothing, so markers left in the result come from
// the template alone.
type checkedArg struct {
	value    any
	badVerbs *int
}

func (a checkedArg) Format(f fmt.State, verb rune) {
	out := fmt.Sprintf(fmt.FormatString(f, verb), a.value)
	if wrongVerb(a.value, verb, out) {
		*a.badVerbs++
	}
}

// wrongVerb reports whether out is fmt's bad-verb rendering of v, e.g.
// %!d(string=many).
func wrongVerb(v any, verb rune, out string) bool {
	if v == nil {
		return out == "%!"+string(verb)+"(<nil>)"
	}
	switch v.(type) {
	case fmt.Formatter:
		return false
	case string, []byte, error, fmt.Stringer:
		if strings.ContainsRune("sqvxX", verb) {
			return false
		}
	}
	return strings.HasPrefix(out, "%!"+string(verb)+"("+reflect.TypeOf(v).String()+"=")
}

// plainValue reports whether v renders without any caller-controlled text.
// Such values can be formatted as is, which keeps %*d widths working.
func plainValue(v any) bool {
	switch v.(type) {
	case fmt.Formatter, fmt.Stringer, error:
		return false
	}
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// matches reports whether format consumes exactly args with fitting verbs.
// Argument values never take part in the decision.
func matches(format string, args []any) bool {
	bad := 0
	checked := make([]any, len(args))
	for i, arg := range args {
		if plainValue(arg) {
			checked[i] = arg
			continue
		}
		checked[i] = checkedArg{value: arg, badVerbs: &bad}
	}
	skeleton := fmt.Sprintf(format, checked...)
	return bad == 0 && !fmtMismatch.MatchString(skeleton)
}

// FormatError reports a verbose message whose template does not match its
// arguments.
type FormatError struct {
	Format string
	Args   []any
	Output string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("verbose message format mismatch: %q %#v produced %q", e.Format, e.Args, e.Output)
}

type flusher interface {
	Flush() error
}

// Verbose writes timestamped diagnostic lines of the form
//
//	VERBOSE <seconds since begin, 2 decimals> <message>
//
// A nil *Verbose is valid and discards every call, which is how verbosity is
// disabled. Verbose is safe for concurrent use.
type Verbose struct {
	mu    sync.Mutex
	w     io.Writer
	begin time.Time
	now   func() time.Time
}

// NewVerbose returns a Verbose writing to w with elapsed times measured from
// begin.
func NewVerbose(w io.Writer, begin time.Time) *Verbose {
	return &Verbose{w: w, begin: begin, now: time.Now}
}

// Enabled reports whether calls produce output.
func (v *Verbose) Enabled() bool {
	return v != nil
}

// Verbosef formats and writes one diagnostic line, flushing w afterwards
// when it supports it.
//
// A template that does not match its arguments panics with a *FormatError
// naming both; the dispatcher reports it as an unexpected failure.
func (v *Verbose) Verbosef(format string, args ...any) {
	if v == nil {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if !matches(format, args) {
		panic(&FormatError{Format: format, Args: args, Output: msg})
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	elapsed := v.now().Sub(v.begin).Seconds()
	fmt.Fprintf(v.w, "VERBOSE %.2f %s\n", elapsed, msg)
	if f, ok := v.w.(flusher); ok {
		_ = f.Flush()
	}
}

// Func returns Verbosef as a plain callback for collaborators that accept a
// diagnostic function. The callback of a nil *Verbose is a no-op.
func (v *Verbose) Func() func(format string, args ...any) {
	return v.Verbosef
}
