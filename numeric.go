// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow

import (
	"encoding/binary"
	"math"
)

// UBJSON integers and floats are big-endian on the wire (spec.md §4.D).
// Go's encoding/binary already isolates the parser from host byte
// order, which is strictly simpler than the conditional-compilation
// byte-swap spec.md §9 describes for a systems-language rewrite: we
// always decode through binary.BigEndian and let the compiler collapse
// that to a no-op on big-endian hosts.

func readUint8(d *decodeState) (uint8, error) {
	var buf [1]byte
	if err := d.src.Read(buf[:]); err != nil {
		return 0, newReadError(err)
	}
	return buf[0], nil
}

func readUint16(d *decodeState) (uint16, error) {
	var buf [2]byte
	if err := d.src.Read(buf[:]); err != nil {
		return 0, newReadError(err)
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func readUint32(d *decodeState) (uint32, error) {
	var buf [4]byte
	if err := d.src.Read(buf[:]); err != nil {
		return 0, newReadError(err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readUint64(d *decodeState) (uint64, error) {
	var buf [8]byte
	if err := d.src.Read(buf[:]); err != nil {
		return 0, newReadError(err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// readInteger decodes the payload for one of the fixed-width integer
// types into v, per spec.md §4.D's width table (int8/uint8 = 1,
// int16 = 2, int32 = 4, int64 = 8).
func readInteger(d *decodeState, v *Value) error {
	switch v.Type {
	case Int8:
		n, err := readUint8(d)
		if err != nil {
			return err
		}
		v.Int8 = int8(n)
	case Uint8:
		n, err := readUint8(d)
		if err != nil {
			return err
		}
		v.Uint8 = n
	case Int16:
		n, err := readUint16(d)
		if err != nil {
			return err
		}
		v.Int16 = int16(n)
	case Int32:
		n, err := readUint32(d)
		if err != nil {
			return err
		}
		v.Int32 = int32(n)
	case Int64:
		n, err := readUint64(d)
		if err != nil {
			return err
		}
		v.Int64 = int64(n)
	default:
		return newParseError("readInteger: unexpected type %s", v.Type)
	}
	return nil
}

// readFloat decodes the payload for Float32/Float64 into v, byte
// swapping as the equal-width integer and reinterpreting, per
// spec.md §4.D.
func readFloat(d *decodeState, v *Value) error {
	switch v.Type {
	case Float32:
		n, err := readUint32(d)
		if err != nil {
			return err
		}
		v.Float32 = math.Float32frombits(n)
	case Float64:
		n, err := readUint64(d)
		if err != nil {
			return err
		}
		v.Float64 = math.Float64frombits(n)
	default:
		return newParseError("readFloat: unexpected type %s", v.Type)
	}
	return nil
}

// asInt64 normalizes any decoded integer Value to an int64, used when
// an integer is being read in a context (length, container length)
// that spec.md §4.E/§4.F describes as "stored in int64 to cover all
// possible integer sizes."
func asInt64(v Value) int64 {
	switch v.Type {
	case Int8:
		return int64(v.Int8)
	case Uint8:
		return int64(v.Uint8)
	case Int16:
		return int64(v.Int16)
	case Int32:
		return int64(v.Int32)
	case Int64:
		return v.Int64
	default:
		return 0
	}
}
