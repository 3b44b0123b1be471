// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow

import (
	"errors"
	"fmt"
	"io"
)

// ErrHighPrecision is returned when a Highp token is encountered while
// the decoder's HighpMode is HighpThrow. It corresponds to the
// original's UBJF_ERROR_HIGHP.
var ErrHighPrecision = errors.New("ubjflow: high-precision number encountered with HighpThrow mode")

// ErrAlloc is returned when Handler.OnStringAlloc returns a nil buffer.
// It corresponds to the original's UBJF_ERROR_ALLOC.
var ErrAlloc = errors.New("ubjflow: string allocator returned a nil buffer")

// ErrMaxDepth is returned when container nesting exceeds the Decoder's
// MaxDepth. There is no equivalent error code in the original C source
// (it lacks a depth guard on this path); this is the recursion-depth
// protection spec.md §9 recommends for an implementation "that must
// bound stack depth for hostile inputs."
var ErrMaxDepth = errors.New("ubjflow: maximum container nesting depth exceeded")

// ParseError records a structural grammar violation: an unknown token
// where a type was expected, a non-integer or negative length, a `$`
// preface without a following `#`, a missing container terminator, or
// an invalid element type in a strongly-typed container. It is the Go
// translation of UBJF_ERROR_BAD_DATA (spec.md §7), grounded directly on
// jibby's ParseError/parseError.
type ParseError struct {
	msg string
}

func (pe *ParseError) Error() string { return pe.msg }

func newParseError(format string, args ...interface{}) *ParseError {
	return &ParseError{msg: "ubjflow: " + fmt.Sprintf(format, args...)}
}

// newReadError turns a ByteSource failure into the package's EOF
// convention: a clean io.EOF is only valid between top-level values
// (spec.md §4.B); any read failure encountered mid-value is reported
// as io.ErrUnexpectedEOF wrapped with context. The io.EOF translation
// follows jibby's newReadError; any other source error is wrapped
// together with io.ErrUnexpectedEOF, so errors.Is matches both.
func newReadError(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("ubjflow: reading input: %w: %w", io.ErrUnexpectedEOF, err)
	}
	return fmt.Errorf("ubjflow: reading input: %w", err)
}
