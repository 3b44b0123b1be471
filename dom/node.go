// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package dom is a reference consumer of ubjflow's event stream: it
// builds an in-memory tree from a single decoded document, the way a
// jibby caller builds a BSON buffer from JSON events. ubjflow itself
// stays agnostic to any particular in-memory representation; dom is
// one concrete choice, used by cmd/ubjfdump, cmd/ubjfview, and
// internal/ubjfuzz.
package dom

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ubjflow/ubjflow"
)

// Node is one decoded value: a scalar, or a container together with its
// children. For an Object node, Keys and Children are parallel slices
// (Keys[i] is the key under which Children[i] was decoded); for an
// Array node, Keys is nil.
type Node struct {
	Value    ubjflow.Value
	Children []*Node
	Keys     []string

	// Decimal and HasDecimal hold the parsed form of a Highp node whose
	// text is a well-formed decimal, via primitive.Decimal128. When the
	// text doesn't parse (or overflows Decimal128's range), HasDecimal
	// is false and DecimalErr records why; Value.Str still holds the
	// raw text either way, so no information is lost on the fallback
	// path.
	Decimal    primitive.Decimal128
	HasDecimal bool
	DecimalErr error
}

// IsContainer reports whether n is an Array or Object.
func (n *Node) IsContainer() bool {
	return n.Value.Type == ubjflow.Array || n.Value.Type == ubjflow.Object
}

// Label renders a single-line, depth-independent description of n,
// suitable for one row of cmd/ubjfdump output or cmd/ubjfview's tree.
func (n *Node) Label() string {
	switch n.Value.Type {
	case ubjflow.Array:
		return fmt.Sprintf("Array[%d]", len(n.Children))
	case ubjflow.Object:
		return fmt.Sprintf("Object{%d}", len(n.Children))
	case ubjflow.Highp:
		if n.HasDecimal {
			return fmt.Sprintf("Highp(%s)", n.Decimal.String())
		}
		return fmt.Sprintf("Highp(%s, unparsed: %v)", n.Value.Str, n.DecimalErr)
	default:
		return n.Value.String()
	}
}

func newScalarNode(v ubjflow.Value) *Node {
	n := &Node{Value: v}
	if v.Type == ubjflow.Highp {
		dec, err := primitive.ParseDecimal128(string(v.Str))
		if err != nil {
			n.DecimalErr = err
		} else {
			n.Decimal = dec
			n.HasDecimal = true
		}
	}
	return n
}
