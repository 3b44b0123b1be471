// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow

import (
	"bufio"
	"io"
)

// ByteSource is the abstract byte-source adapter of spec.md §4.B: the
// parser never touches an io.Reader directly, only these three
// operations, so alternate backends (file, memory, socket) can be
// plugged in without the core knowing about them. Concrete non-default
// backends are an external collaborator (spec.md §1) — ubjflow ships
// only the bufio.Reader-backed implementation below.
type ByteSource interface {
	// Read fills dest entirely or returns an error; a short read is a
	// failure, never a partial success.
	Read(dest []byte) error
	// Peek returns the next byte without consuming it. ok is false at
	// end of stream.
	Peek() (b byte, ok bool, err error)
	// Bump advances the source by exactly n bytes.
	Bump(n int) error
}

// bufioSource is the default ByteSource, wrapping a *bufio.Reader the
// way jibby.Decoder wraps one directly. Peek uses the reader's own
// lookahead buffer, so Bump after a Peek never re-reads from the
// underlying io.Reader.
type bufioSource struct {
	r *bufio.Reader
}

// NewBufioSource adapts a *bufio.Reader to a ByteSource. If r's
// buffer is smaller than minSourceBufSize, it is rebuffered, mirroring
// jibby.NewDecoder's rebuffering of small readers so that Peek calls
// used for length/highp lookahead never fail solely because the
// buffer was undersized.
func NewBufioSource(r *bufio.Reader) ByteSource {
	if r.Size() < minSourceBufSize {
		r = bufio.NewReaderSize(r, minSourceBufSize)
	}
	return &bufioSource{r: r}
}

// minSourceBufSize is the smallest buffer NewBufioSource will accept
// before rebuffering.
const minSourceBufSize = 4096

func (s *bufioSource) Read(dest []byte) error {
	_, err := io.ReadFull(s.r, dest)
	return err
}

func (s *bufioSource) Peek() (byte, bool, error) {
	b, err := s.r.Peek(1)
	if err != nil {
		if err == io.EOF {
			return 0, false, nil
		}
		return 0, false, err
	}
	return b[0], true, nil
}

func (s *bufioSource) Bump(n int) error {
	discarded, err := s.r.Discard(n)
	if err != nil {
		return err
	}
	if discarded != n {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// NewReaderSource is a convenience wrapper for callers that only have a
// plain io.Reader, analogous to jibby.Unmarshal's internal use of
// bufio.NewReader over a bytes.Reader.
func NewReaderSource(r io.Reader) ByteSource {
	return NewBufioSource(bufio.NewReaderSize(r, minSourceBufSize))
}
