// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow

// token is a single UBJSON tag byte, per spec.md §4.A.
type token byte

const (
	tokenNull            token = 'Z'
	tokenNoop            token = 'N'
	tokenFalse           token = 'F'
	tokenTrue            token = 'T'
	tokenInt8            token = 'i'
	tokenUint8           token = 'U'
	tokenInt16           token = 'I'
	tokenInt32           token = 'l'
	tokenInt64           token = 'L'
	tokenFloat32         token = 'd'
	tokenFloat64         token = 'D'
	tokenHighp           token = 'H'
	tokenChar            token = 'C'
	tokenString          token = 'S'
	tokenArrayStart      token = '['
	tokenArrayEnd        token = ']'
	tokenObjectStart     token = '{'
	tokenObjectEnd       token = '}'
	tokenContainerType   token = '$'
	tokenContainerLength token = '#'
)

// tokenType maps a wire token to the Type it denotes. Tokens with no
// entry (the default zero value in the map) resolve to BadType, which
// the callers treat as "unknown token where a type tag was expected."
//
// The original source folds true/false into the tag itself and
// recovers the value with a bit test (spec.md §9); here both tokenTrue
// and tokenFalse simply map to Bool and scalar.go carries the boolean
// payload as an explicit field, which spec.md §9 calls out as an
// equally valid translation.
var tokenTypeMap = map[token]Type{
	tokenNull:    Null,
	tokenNoop:    Noop,
	tokenFalse:   Bool,
	tokenTrue:    Bool,
	tokenInt8:    Int8,
	tokenUint8:   Uint8,
	tokenInt16:   Int16,
	tokenInt32:   Int32,
	tokenInt64:   Int64,
	tokenFloat32: Float32,
	tokenFloat64: Float64,
	tokenHighp:   Highp,
	tokenChar:    Char,
	tokenString:  String,
	tokenArrayStart:  Array,
	tokenObjectStart: Object,
}

// typeOf maps a raw tag byte read off the wire to its Type, returning
// BadType for anything not in the recognized token set (spec.md §4.A:
// "any other byte encountered where a type tag is expected is
// BAD_DATA").
func typeOf(tok token) Type {
	if t, ok := tokenTypeMap[tok]; ok {
		return t
	}
	return BadType
}

// boolValue recovers the literal boolean carried by a bool token. Only
// meaningful when tok is tokenTrue or tokenFalse.
func boolValue(tok token) bool {
	return tok == tokenTrue
}
