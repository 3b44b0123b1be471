// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow

import "io"

// parseContainer decodes an array or object, per spec.md §4.F: parse
// the preface, announce the begin, decode the body (sized or
// unbounded), and announce the end — but only if the body succeeded.
// If the body fails, OnContainerEnd is never invoked (spec.md §8
// property 4), and the error is returned unchanged.
func (d *decodeState) parseContainer(kind Type) error {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > d.maxDepth {
		return ErrMaxDepth
	}

	length, elem, err := d.parseContainerPreface()
	if err != nil {
		return err
	}

	if err := d.handler.invokeContainerBegin(kind, length, elem.typ); err != nil {
		return err
	}
	// The container itself counts as a node the moment its begin event
	// is accepted — it must count even if the body later fails, so
	// readers of the partial node count from Decoder.Next learn that a
	// container was at least entered (spec.md §4.G, scenario S8).
	d.count++

	if kind == Array {
		err = d.parseArrayBody(length, elem)
	} else {
		err = d.parseObjectBody(length, elem)
	}
	if err != nil {
		return err
	}

	return d.handler.invokeContainerEnd()
}

// parseContainerPreface reads the optional `$type` and/or `#length`
// sequence following a container start, per spec.md §4.F. It enforces
// that `$` is always followed by `#` (the "falls through" behavior the
// original implements via C switch fallthrough and spec.md §9 says must
// not be relaxed), without relying on fallthrough itself.
func (d *decodeState) parseContainerPreface() (length int64, elem elementSpec, err error) {
	length = -1
	elem = noElement

	b, ok, err := d.src.Peek()
	if err != nil {
		return 0, elementSpec{}, newReadError(err)
	}
	if !ok {
		return 0, elementSpec{}, newReadError(io.EOF)
	}

	switch token(b) {
	case tokenContainerType:
		if err := d.src.Bump(1); err != nil {
			return 0, elementSpec{}, newReadError(err)
		}

		tok, err := d.readToken()
		if err != nil {
			return 0, elementSpec{}, err
		}
		etyp := typeOf(tok)
		if etyp == BadType {
			return 0, elementSpec{}, newParseError("invalid element type %q in container preface", byte(tok))
		}
		elem = elementSpec{typ: etyp, boolVal: boolValue(tok)}

		nb, nok, err := d.src.Peek()
		if err != nil {
			return 0, elementSpec{}, newReadError(err)
		}
		if !nok || token(nb) != tokenContainerLength {
			return 0, elementSpec{}, newParseError("container $type preface must be followed by a #length")
		}
		if err := d.src.Bump(1); err != nil {
			return 0, elementSpec{}, newReadError(err)
		}
		length, err = d.parseLength()
		if err != nil {
			return 0, elementSpec{}, err
		}

	case tokenContainerLength:
		if err := d.src.Bump(1); err != nil {
			return 0, elementSpec{}, newReadError(err)
		}
		length, err = d.parseLength()
		if err != nil {
			return 0, elementSpec{}, err
		}
	}

	return length, elem, nil
}

// parseArrayBody decodes the elements of an array, given the length and
// element-type spec resolved by the preface. Sized bodies iterate
// exactly length times; unbounded bodies read until tokenArrayEnd,
// per spec.md §4.F.
func (d *decodeState) parseArrayBody(length int64, elem elementSpec) error {
	if length >= 0 {
		for i := int64(0); i < length; i++ {
			if err := d.parseContainerElement(elem); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		tok, err := d.readToken()
		if err != nil {
			return err
		}
		if tok == tokenArrayEnd {
			return nil
		}
		typ := typeOf(tok)
		if typ == BadType {
			return newParseError("unrecognized token %q where an array element was expected", byte(tok))
		}
		if err := d.parseNode(typ, boolValue(tok)); err != nil {
			return err
		}
	}
}

// parseObjectBody decodes the key/value pairs of an object. Keys are
// always strings without a preceding 'S' tag (spec.md §4.F) — they are
// read with the String length/payload machinery directly.
func (d *decodeState) parseObjectBody(length int64, elem elementSpec) error {
	if length >= 0 {
		for i := int64(0); i < length; i++ {
			if err := d.parseValue(String, false); err != nil {
				return err
			}
			if err := d.parseContainerElement(elem); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		b, ok, err := d.src.Peek()
		if err != nil {
			return newReadError(err)
		}
		if !ok {
			return newReadError(io.EOF)
		}
		if token(b) == tokenObjectEnd {
			if err := d.src.Bump(1); err != nil {
				return newReadError(err)
			}
			return nil
		}

		if err := d.parseValue(String, false); err != nil {
			return err
		}
		if err := d.readTypedNode(); err != nil {
			return err
		}
	}
}

// parseContainerElement decodes one element of a strongly-typed (or
// weakly-typed) container body. A strongly-typed element carries no
// tag byte on the wire — its type was already fixed by the preface —
// so it is dispatched directly; a weakly-typed element reads its own
// tag first.
func (d *decodeState) parseContainerElement(elem elementSpec) error {
	if elem.typ != NoType {
		return d.parseNode(elem.typ, elem.boolVal)
	}
	return d.readTypedNode()
}
