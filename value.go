// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow

import "fmt"

// Value is a decoded scalar, or the begin/end marker of a container.
// The Type tag determines which payload field is meaningful, mirroring
// spec.md §3's invariant that "the tag uniquely determines which
// payload field is valid." Unlike the original C union, a Go Value
// simply carries all fields side by side; callers must not read a
// field whose Type doesn't correspond to it.
type Value struct {
	Type Type

	Bool    bool
	Char    byte
	Int8    int8
	Uint8   uint8
	Int16   int16
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64

	// Str holds the payload for String and, when HighpMode is
	// HighpAsString, Highp values. It is owned by whichever allocator
	// produced it (Handler.OnStringAlloc, or the default make([]byte,
	// n)) and is handed to the consumer with no further core-side
	// reference, per spec.md §3/§5.
	Str []byte
}

// String renders the value for diagnostics; it is not a wire
// serialization. Grounded on jibby's parseError formatting habit of
// always producing a readable excerpt rather than a raw struct dump.
func (v Value) String() string {
	switch v.Type {
	case Null, Noop:
		return v.Type.String()
	case Bool:
		return fmt.Sprintf("Bool(%v)", v.Bool)
	case Char:
		return fmt.Sprintf("Char(%q)", rune(v.Char))
	case Int8:
		return fmt.Sprintf("Int8(%d)", v.Int8)
	case Uint8:
		return fmt.Sprintf("Uint8(%d)", v.Uint8)
	case Int16:
		return fmt.Sprintf("Int16(%d)", v.Int16)
	case Int32:
		return fmt.Sprintf("Int32(%d)", v.Int32)
	case Int64:
		return fmt.Sprintf("Int64(%d)", v.Int64)
	case Float32:
		return fmt.Sprintf("Float32(%v)", v.Float32)
	case Float64:
		return fmt.Sprintf("Float64(%v)", v.Float64)
	case Highp:
		return fmt.Sprintf("Highp(%s)", v.Str)
	case String:
		return fmt.Sprintf("String(%q)", v.Str)
	default:
		return fmt.Sprintf("Value(type=%s)", v.Type)
	}
}
