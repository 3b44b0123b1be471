// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"gotest.tools/v3/assert"
)

type recordedEvent struct {
	kind    string // "value", "begin", "end"
	value   Value
	ckind   Type
	length  int64
	elemTyp Type
}

func recordingHandler(events *[]recordedEvent) Handler {
	return Handler{
		OnValue: func(v Value) error {
			*events = append(*events, recordedEvent{kind: "value", value: v})
			return nil
		},
		OnContainerBegin: func(kind Type, length int64, elementType Type) error {
			*events = append(*events, recordedEvent{kind: "begin", ckind: kind, length: length, elemTyp: elementType})
			return nil
		},
		OnContainerEnd: func() error {
			*events = append(*events, recordedEvent{kind: "end"})
			return nil
		},
	}
}

func decodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	assert.NilError(t, err, "bad test hex %q", s)
	return b
}

func newTestDecoder(t *testing.T, hexInput string, events *[]recordedEvent, opts ...Option) *Decoder {
	t.Helper()
	src := NewReaderSource(bytes.NewReader(decodeHex(t, hexInput)))
	return NewDecoder(src, recordingHandler(events), opts...)
}

// S1 — null.
func TestDecodeNull(t *testing.T) {
	var events []recordedEvent
	dec := newTestDecoder(t, "5A", &events) // 'Z'

	n, err := dec.Next()
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	assert.Equal(t, len(events), 1)
	assert.Equal(t, events[0].kind, "value")
	assert.Equal(t, events[0].value.Type, Null)
}

// S2 — int32 42.
func TestDecodeInt32(t *testing.T) {
	var events []recordedEvent
	dec := newTestDecoder(t, "6C0000002A", &events) // 'l' + big-endian 42

	n, err := dec.Next()
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	assert.Equal(t, events[0].value.Type, Int32)
	assert.Equal(t, events[0].value.Int32, int32(42))
}

// S3 — string "hi".
func TestDecodeString(t *testing.T) {
	var events []recordedEvent
	dec := newTestDecoder(t, "5369026869", &events) // 'S' 'i' 0x02 'h' 'i'

	n, err := dec.Next()
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	v := events[0].value
	assert.Equal(t, v.Type, String)
	assert.Equal(t, string(v.Str), "hi")
}

// S4 — unbounded array [1,2,3].
func TestDecodeUnboundedArray(t *testing.T) {
	var events []recordedEvent
	dec := newTestDecoder(t, "5B6901690269035D", &events) // [ i1 i2 i3 ]

	n, err := dec.Next()
	assert.NilError(t, err)
	assert.Equal(t, n, 4)
	assert.Equal(t, len(events), 5, "begin+3 values+end")

	assert.Equal(t, events[0].kind, "begin")
	assert.Equal(t, events[0].ckind, Array)
	assert.Equal(t, events[0].length, int64(-1))
	assert.Equal(t, events[0].elemTyp, NoType)

	wantVals := []int8{1, 2, 3}
	for i, want := range wantVals {
		ev := events[i+1]
		assert.Equal(t, ev.kind, "value")
		assert.Equal(t, ev.value.Type, Int8)
		assert.Equal(t, ev.value.Int8, want)
	}
	assert.Equal(t, events[4].kind, "end")
}

// S5 — strongly-typed array of int8, length 3, values 10,20,30.
func TestDecodeTypedArray(t *testing.T) {
	var events []recordedEvent
	dec := newTestDecoder(t, "5B24692369030A141E", &events) // [ $ i # i 03 0A 14 1E

	n, err := dec.Next()
	assert.NilError(t, err)
	assert.Equal(t, n, 4)
	assert.Equal(t, events[0].kind, "begin")
	assert.Equal(t, events[0].length, int64(3))
	assert.Equal(t, events[0].elemTyp, Int8)

	wantVals := []int8{10, 20, 30}
	for i, want := range wantVals {
		ev := events[i+1]
		assert.Equal(t, ev.kind, "value")
		assert.Equal(t, ev.value.Type, Int8)
		assert.Equal(t, ev.value.Int8, want)
	}
	assert.Equal(t, events[4].kind, "end")
}

// S6 — object {"a":1}, unbounded form.
func TestDecodeObject(t *testing.T) {
	var events []recordedEvent
	dec := newTestDecoder(t, "7B69016169017D", &events) // { i1 'a' i1 }

	n, err := dec.Next()
	assert.NilError(t, err)
	assert.Equal(t, n, 3)

	assert.Equal(t, events[0].kind, "begin")
	assert.Equal(t, events[0].ckind, Object)
	assert.Equal(t, events[0].length, int64(-1))

	assert.Equal(t, events[1].kind, "value")
	assert.Equal(t, events[1].value.Type, String)
	assert.Equal(t, string(events[1].value.Str), "a")

	assert.Equal(t, events[2].kind, "value")
	assert.Equal(t, events[2].value.Type, Int8)
	assert.Equal(t, events[2].value.Int8, int8(1))

	assert.Equal(t, events[3].kind, "end")
}

// S7 — HIGHP under all three modes.
func TestDecodeHighp(t *testing.T) {
	const hexInput = "486903312E35" // 'H' 'i' 0x03 "1.5"

	t.Run("skip", func(t *testing.T) {
		var events []recordedEvent
		dec := newTestDecoder(t, hexInput, &events, WithHighpMode(HighpSkip))
		n, err := dec.Next()
		assert.NilError(t, err)
		assert.Equal(t, n, 1)
		assert.Equal(t, len(events), 0, "HighpSkip must emit no value event")
	})

	t.Run("as_string", func(t *testing.T) {
		var events []recordedEvent
		dec := newTestDecoder(t, hexInput, &events, WithHighpMode(HighpAsString))
		n, err := dec.Next()
		assert.NilError(t, err)
		assert.Equal(t, n, 1)
		assert.Equal(t, len(events), 1)
		assert.Equal(t, events[0].value.Type, Highp)
		assert.Equal(t, string(events[0].value.Str), "1.5")
	})

	t.Run("throw", func(t *testing.T) {
		var events []recordedEvent
		dec := newTestDecoder(t, hexInput, &events, WithHighpMode(HighpThrow))
		_, err := dec.Next()
		assert.Assert(t, errors.Is(err, ErrHighPrecision))
	})
}

// S8 — consumer abort mid-array: node count reflects the container and
// the first element, no container_end.
func TestDecodeConsumerAbort(t *testing.T) {
	abortErr := errors.New("boom")
	seen := 0

	h := Handler{
		OnValue: func(v Value) error {
			seen++
			if seen == 2 {
				return abortErr
			}
			return nil
		},
		OnContainerBegin: func(kind Type, length int64, elementType Type) error { return nil },
		OnContainerEnd: func() error {
			t.Fatal("container end must not be invoked after a failed body")
			return nil
		},
	}

	src := NewReaderSource(bytes.NewReader(decodeHex(t, "5B6901690269035D")))
	dec := NewDecoder(src, h)

	n, err := dec.Next()
	assert.Assert(t, errors.Is(err, abortErr))
	assert.Equal(t, n, 2)
}

// Truncated streams at any offset yield EOF, never a silent success.
func TestTruncatedStreamYieldsEOF(t *testing.T) {
	full := decodeHex(t, "5B6901690269035D")
	for cut := 1; cut < len(full); cut++ {
		cut := cut
		t.Run("", func(t *testing.T) {
			src := NewReaderSource(bytes.NewReader(full[:cut]))
			dec := NewDecoder(src, Handler{})
			_, err := dec.Next()
			assert.Assert(t, err != nil, "cut at %d: expected an error", cut)
			assert.Assert(t, errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF),
				"cut at %d: expected EOF-flavored error, got %v", cut, err)
		})
	}
}

// Concatenated values: N successful Next calls, then EOF.
func TestConcatenatedValues(t *testing.T) {
	// 5A (null) repeated 3 times
	src := NewReaderSource(bytes.NewReader(decodeHex(t, "5A5A5A")))
	dec := NewDecoder(src, Handler{})

	for i := 0; i < 3; i++ {
		n, err := dec.Next()
		assert.NilError(t, err, "value %d", i)
		assert.Equal(t, n, 1, "value %d", i)
	}

	_, err := dec.Next()
	assert.Assert(t, errors.Is(err, io.EOF))
}

func TestBadTokenIsParseError(t *testing.T) {
	src := NewReaderSource(bytes.NewReader([]byte{'!'}))
	dec := NewDecoder(src, Handler{})
	_, err := dec.Next()
	var pe *ParseError
	assert.Assert(t, errors.As(err, &pe), "expected *ParseError, got %v", err)
}

// WithMaxDepth must bound recursion against hostile, deeply-nested input.
func TestMaxDepthExceeded(t *testing.T) {
	// [ [ [ Z ] ] ]  nested three arrays deep.
	src := NewReaderSource(bytes.NewReader(decodeHex(t, "5B5B5B5A5D5D5D")))
	dec := NewDecoder(src, Handler{}, WithMaxDepth(2))

	_, err := dec.Next()
	assert.Assert(t, errors.Is(err, ErrMaxDepth))
}

// A nil, nil return from OnStringAlloc is a caller bug, not "allocate
// nothing": the decoder must report it rather than dereference a nil
// buffer.
func TestStringAllocNilBufferIsError(t *testing.T) {
	h := Handler{
		OnStringAlloc: func(size int) ([]byte, error) { return nil, nil },
	}

	src := NewReaderSource(bytes.NewReader(decodeHex(t, "5369026869"))) // 'S' 'i' 0x02 "hi"
	dec := NewDecoder(src, h)

	_, err := dec.Next()
	assert.Assert(t, errors.Is(err, ErrAlloc))
}

// The same nil-buffer failure must surface for HIGHP decoded in
// HighpAsString mode, since it is read through the same allocator path.
func TestStringAllocNilBufferOnHighp(t *testing.T) {
	h := Handler{
		OnStringAlloc: func(size int) ([]byte, error) { return nil, nil },
	}

	src := NewReaderSource(bytes.NewReader(decodeHex(t, "486903312E35"))) // 'H' 'i' 0x03 "1.5"
	dec := NewDecoder(src, h, WithHighpMode(HighpAsString))

	_, err := dec.Next()
	assert.Assert(t, errors.Is(err, ErrAlloc))
}

// A $type preface not immediately followed by a #length is malformed:
// the type-then-length ordering is mandatory, not merely conventional.
func TestContainerTypeWithoutLengthIsParseError(t *testing.T) {
	// [ $ i Z ...  -- '$' 'i' is followed by 'Z' instead of '#'.
	src := NewReaderSource(bytes.NewReader(decodeHex(t, "5B24695A")))
	dec := NewDecoder(src, Handler{})

	_, err := dec.Next()
	var pe *ParseError
	assert.Assert(t, errors.As(err, &pe), "expected *ParseError, got %v", err)
}
