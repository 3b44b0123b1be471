// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow

// elementSpec describes the element type of a strongly-typed container,
// as captured by parseContainerPreface. It carries the boolean literal
// alongside the Type because UBJSON's bool tokens ('T'/'F') each imply
// a fixed value with zero payload bytes — a typed-bool container reads
// no bytes per element, just replays the declared literal length times
// (spec.md §9's "type tag with embedded boolean" note). The public
// Handler.OnContainerBegin callback only ever sees the plain Type, per
// spec.md §4.C's contract; boolVal is purely internal bookkeeping so
// parseValue can synthesize the right literal without a token to read.
type elementSpec struct {
	typ     Type
	boolVal bool
}

var noElement = elementSpec{typ: NoType}

// parseValue decodes the payload for a scalar type, per spec.md §4.E.
// boolVal is only meaningful when typ is Bool (see elementSpec). On
// success it invokes Handler.OnValue and, once that returns nil,
// increments the node counter; under HighpSkip a Highp value is
// counted without any OnValue call.
func (d *decodeState) parseValue(typ Type, boolVal bool) error {
	value := Value{Type: typ}

	switch {
	case typ == Bool:
		value.Bool = boolVal
	case typ.IsIntegerType():
		if err := readInteger(d, &value); err != nil {
			return err
		}
	case typ.IsFloatType():
		if err := readFloat(d, &value); err != nil {
			return err
		}
	case typ == Char:
		b, err := readUint8(d)
		if err != nil {
			return err
		}
		value.Char = b
	case typ == String:
		if err := d.readString(&value); err != nil {
			return err
		}
	case typ == Highp:
		skip, err := d.parseHighp(&value)
		if err != nil {
			return err
		}
		if skip {
			d.count++
			return nil
		}
	case typ == Null, typ == Noop:
		// No payload to read.
	default:
		return newParseError("parseValue: unexpected type %s", typ)
	}

	if err := d.handler.invokeValue(value); err != nil {
		return err
	}
	d.count++
	return nil
}

// parseLength reads a nested scalar that must be an integer type and
// non-negative, per spec.md §4.E step 1 / §4.F's shared length-reading
// rule for both string payloads and container `#length` prefaces.
func (d *decodeState) parseLength() (int64, error) {
	tok, err := d.readToken()
	if err != nil {
		return 0, err
	}
	lengthType := typeOf(tok)
	if !lengthType.IsIntegerType() {
		return 0, newParseError("length must be an integer type, got %s", lengthType)
	}

	value := Value{Type: lengthType}
	if err := readInteger(d, &value); err != nil {
		return 0, err
	}
	n := asInt64(value)
	if n < 0 {
		return 0, newParseError("length must be non-negative, got %d", n)
	}
	return n, nil
}

// readString decodes a length-prefixed string into value.Str, per
// spec.md §4.E: read length, allocate length+1 (conceptually — Go
// slices don't need the extra NUL byte, but a length-0 allocation still
// needs to produce a valid, non-nil []byte), read length bytes, and on
// a read failure release the buffer through Handler.OnStringRelease
// before propagating (spec.md §3/§5).
func (d *decodeState) readString(value *Value) error {
	length, err := d.parseLength()
	if err != nil {
		return err
	}

	buf, err := d.handler.allocString(int(length))
	if err != nil {
		return err
	}
	buf = buf[:length]

	if err := d.src.Read(buf); err != nil {
		d.handler.releaseString(buf)
		return newReadError(err)
	}

	value.Str = buf
	return nil
}

// parseHighp decodes a Highp value according to the Decoder's
// HighpMode (spec.md §4.E, §6):
//   - HighpSkip: read the length, discard that many bytes, emit no
//     value event (skip is reported via the bool return).
//   - HighpAsString: decode exactly like a String but tag the Value
//     Highp.
//   - HighpThrow: fail with ErrHighPrecision.
func (d *decodeState) parseHighp(value *Value) (skip bool, err error) {
	switch d.highpMode {
	case HighpSkip:
		length, err := d.parseLength()
		if err != nil {
			return false, err
		}
		if err := d.src.Bump(int(length)); err != nil {
			return false, newReadError(err)
		}
		return true, nil
	case HighpAsString:
		if err := d.readString(value); err != nil {
			return false, err
		}
		return false, nil
	default:
		return false, ErrHighPrecision
	}
}
