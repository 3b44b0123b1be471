// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package ubjflow is a streaming, pull-style decoder for the Universal
// Binary JSON (UBJSON) wire format. It decodes one top-level value per
// call from a buffered byte source and emits structured events to a
// consumer-supplied Handler, minimizing allocation the way jibby
// decodes JSON into BSON without building an intermediate tree.
//
// ubjflow only decodes; it does not write UBJSON, and it does not know
// anything about JSON. The reference `dom` subpackage (and the
// `cmd/ubjfdump` / `cmd/ubjfview` programs built on it) show one way to
// consume the event stream; consumers are free to build their own.
package ubjflow

import "io"

// HighpMode controls how the decoder handles a Highp (arbitrary
// precision decimal) value, per spec.md §6.
type HighpMode int

const (
	// HighpThrow fails the parse with ErrHighPrecision.
	HighpThrow HighpMode = iota
	// HighpSkip reads the length and discards the bytes; no value
	// event is emitted for the Highp node.
	HighpSkip
	// HighpAsString decodes the payload like a String but tags the
	// Value Highp. This is the default (see NewDecoder): it is the
	// only mode that never discards or rejects valid input.
	HighpAsString
)

// defaultMaxDepth bounds worst-case recursion against hostile input,
// matching jibby.Decoder's own default MaxDepth of 200.
const defaultMaxDepth = 200

// Decoder decodes successive UBJSON top-level values from a byte
// source. Unlike decodeState (the per-call parse context of spec.md
// §3), a Decoder persists across calls to Next, the same way a
// jibby.Decoder persists across calls to Decode — this is what lets a
// stream of concatenated UBJSON values be read one at a time.
type Decoder struct {
	src       ByteSource
	handler   Handler
	highpMode HighpMode
	maxDepth  int
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithHighpMode sets the Decoder's HighpMode. The default is
// HighpAsString.
func WithHighpMode(mode HighpMode) Option {
	return func(d *Decoder) { d.highpMode = mode }
}

// WithMaxDepth sets the maximum allowed container nesting depth. The
// default is 200, matching jibby's MaxDepth default.
func WithMaxDepth(n int) Option {
	return func(d *Decoder) { d.maxDepth = n }
}

// NewDecoder returns a Decoder reading from src and delivering events to
// h. Both are long-lived for the Decoder's entire life; h may be the
// zero Handler{} to run in validate-only / count-only mode (spec.md
// §4.C).
func NewDecoder(src ByteSource, h Handler, opts ...Option) *Decoder {
	d := &Decoder{
		src:       src,
		handler:   h,
		highpMode: HighpAsString,
		maxDepth:  defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next decodes exactly one top-level node (a scalar, or a whole
// container including its children) and returns the number of nodes
// parsed — including on failure, where it is the count of nodes fully
// started before the error (spec.md §4.H, §7, §8 scenario S8).
//
// Next leaves the byte source positioned immediately after the node it
// parsed, so successive calls read a stream of concatenated top-level
// values; when the source is exhausted between values, Next returns
// io.EOF with a node count of 0 (spec.md §8 property 2).
func (d *Decoder) Next() (int, error) {
	state := &decodeState{
		src:       d.src,
		handler:   d.handler,
		highpMode: d.highpMode,
		maxDepth:  d.maxDepth,
	}

	if err := state.readTopLevelNode(); err != nil {
		return state.count, err
	}
	return state.count, nil
}

// decodeState is the per-call parse context of spec.md §3: created
// fresh by each call to Decoder.Next, never shared across parses, and
// holding the running node count that Next reports back to the caller.
type decodeState struct {
	src       ByteSource
	handler   Handler
	highpMode HighpMode
	maxDepth  int
	depth     int
	count     int
}

// readTopLevelNode is the driver's single entry point into the
// recursive grammar (component G/H). A clean end-of-stream here (no
// bytes at all before the first token) is reported as plain io.EOF,
// distinct from a truncation mid-value (spec.md §4.B, §8 property 2).
func (d *decodeState) readTopLevelNode() error {
	_, ok, err := d.src.Peek()
	if err != nil {
		return newReadError(err)
	}
	if !ok {
		return io.EOF
	}
	return d.readTypedNode()
}

// readTypedNode reads one type-tag byte, maps it to a Type, and
// dispatches — the node dispatcher of spec.md §4.G. An unrecognized
// byte where a type tag is expected is BAD_DATA.
func (d *decodeState) readTypedNode() error {
	tok, err := d.readToken()
	if err != nil {
		return err
	}
	typ := typeOf(tok)
	if typ == BadType {
		return newParseError("unrecognized token %q where a type tag was expected", byte(tok))
	}
	return d.parseNode(typ, boolValue(tok))
}

// parseNode routes a resolved Type to the scalar or container parser.
// boolVal is only meaningful when typ is Bool (see elementSpec).
func (d *decodeState) parseNode(typ Type, boolVal bool) error {
	switch {
	case typ.IsValueType():
		return d.parseValue(typ, boolVal)
	case typ.IsContainerType():
		return d.parseContainer(typ)
	default:
		return newParseError("unexpected type %s", typ)
	}
}

func (d *decodeState) readToken() (token, error) {
	b, err := readUint8(d)
	if err != nil {
		return 0, err
	}
	return token(b), nil
}
