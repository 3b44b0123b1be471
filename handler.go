// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow

// Handler is the consumer adapter of spec.md §4.C: a sink for decoded
// values, container begin/end notifications, and string-buffer
// allocation. Every field is optional, mirroring the original's
// "if not provided, events are silently dropped" rule — a zero-value
// Handler{} runs the decoder in validate-only / count-only mode.
//
// This is a struct of function fields rather than an interface because
// the original's ubjf_parse_event_info is itself a struct of function
// pointers; a Go interface would force implementers to provide every
// method even when most callbacks are meant to be absent.
type Handler struct {
	// OnValue delivers one decoded scalar. Returning a non-nil error
	// aborts the parse; that error is propagated to the caller of
	// Decoder.Next unchanged (spec.md §4.C, §7).
	OnValue func(Value) error

	// OnContainerBegin announces the start of an array or object.
	// length is -1 for an unbounded container; elementType is NoType
	// for a weakly-typed one.
	OnContainerBegin func(kind Type, length int64, elementType Type) error

	// OnContainerEnd is called exactly once per successful
	// OnContainerBegin, including for unbounded containers once their
	// terminator is seen. It is never called if the container body
	// fails partway through (spec.md §4.F, §8 property 4).
	OnContainerEnd func() error

	// OnStringAlloc returns a writable buffer of at least size bytes
	// for a String or Highp(AsString) payload. If nil, the decoder
	// allocates with make([]byte, size).
	OnStringAlloc func(size int) ([]byte, error)

	// OnStringRelease is called with a buffer previously returned by
	// OnStringAlloc when a failure occurs after allocation but before
	// the value reaches OnValue (spec.md §3/§5: "the core releases the
	// buffer using the same allocator that produced it"). In a garbage
	// collected runtime this is usually unnecessary, but a consumer
	// handing out buffers from a sync.Pool needs the chance to return
	// them; the default (nil) is a no-op.
	OnStringRelease func(buf []byte)
}

func (h Handler) invokeValue(v Value) error {
	if h.OnValue == nil {
		return nil
	}
	return h.OnValue(v)
}

func (h Handler) invokeContainerBegin(kind Type, length int64, elementType Type) error {
	if h.OnContainerBegin == nil {
		return nil
	}
	return h.OnContainerBegin(kind, length, elementType)
}

func (h Handler) invokeContainerEnd() error {
	if h.OnContainerEnd == nil {
		return nil
	}
	return h.OnContainerEnd()
}

func (h Handler) allocString(size int) ([]byte, error) {
	if h.OnStringAlloc == nil {
		return make([]byte, size), nil
	}
	buf, err := h.OnStringAlloc(size)
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, ErrAlloc
	}
	if len(buf) < size {
		return nil, newParseError("string allocator returned a short buffer: got %d, want %d", len(buf), size)
	}
	return buf, nil
}

func (h Handler) releaseString(buf []byte) {
	if h.OnStringRelease != nil {
		h.OnStringRelease(buf)
	}
}
