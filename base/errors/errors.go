// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a set of error handling helpers,
// extending the standard library errors package.
// Errors produced by [Wrap] and [Errorf] carry the caller
// frames at the point of creation.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// Error is an error with a base error and the caller frames
// at which it was wrapped.
type Error struct {
	Base  error
	Stack []string
}

// Wrap wraps the given error into an [*Error] with the
// current caller frames. It returns nil if err is nil,
// and returns err unchanged if it is already an [*Error].
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Base: err, Stack: CallerInfo()}
}

// Errorf is the [fmt.Errorf] equivalent of [Wrap].
// %w verbs are supported.
func Errorf(format string, a ...any) error {
	return Wrap(fmt.Errorf(format, a...))
}

// Error returns the base error string. The stack is
// available through [Error.Stack] and [Error.Verbose].
func (e *Error) Error() string {
	return e.Base.Error()
}

// Verbose returns the error string followed by the caller frames.
func (e *Error) Verbose() string {
	if len(e.Stack) == 0 {
		return e.Base.Error()
	}
	return e.Base.Error() + " (" + strings.Join(e.Stack, " < ") + ")"
}

// Unwrap returns the underlying base error.
func (e *Error) Unwrap() error {
	return e.Base
}

// CallerInfo returns the caller frames of the function that
// called the function calling CallerInfo, as file:line strings,
// stopping at the runtime and testing packages.
func CallerInfo() []string {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(3, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	var res []string
	for {
		fr, more := frames.Next()
		if strings.Contains(fr.File, "runtime/") || strings.Contains(fr.File, "testing/") {
			break
		}
		fn := fr.File
		if i := strings.LastIndex(fn, "/"); i >= 0 {
			fn = fn[i+1:]
		}
		res = append(res, fn+":"+strconv.Itoa(fr.Line))
		if !more {
			break
		}
	}
	return res
}

// Log takes the given error and logs it if it is non-nil.
// The intended usage is:
//
//	errors.Log(MyFunc(v))
//	// or
//	return errors.Log(MyFunc(v))
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error())
	}
	return err
}

// Log1 takes the given value and error, logs the error if it is
// non-nil, and returns the value. The intended usage is:
//
//	a := errors.Log1(MyFunc(v))
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error())
	}
	return v
}

// Must takes the given error and panics if it is non-nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 takes the given value and error and returns the value if
// the error is nil, and panics if the error is non-nil.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// As is [errors.As].
func As(err error, target any) bool { return errors.As(err, target) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
