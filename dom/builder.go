// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package dom

import (
	"fmt"

	"github.com/ubjflow/ubjflow"
)

// frame tracks one open container on the builder's stack. For an
// Object, awaitingKey alternates on every attach: the first item after
// begin is always a key, the next is the value paired with it, and so
// on.
type frame struct {
	node        *Node
	awaitingKey bool
	pendingKey  string
}

// Builder is a ubjflow.Handler adapter that assembles one decoded
// document into a *Node tree. A Builder is single-use: construct one
// per call to Decoder.Next.
type Builder struct {
	stack []*frame
	root  *Node
}

// NewBuilder returns a Builder ready to receive events for one document.
func NewBuilder() *Builder {
	return &Builder{}
}

// Handler returns the ubjflow.Handler wired to this Builder. Pass it to
// ubjflow.NewDecoder (or use it for a single Decoder.Next call, then
// discard the Builder and make a fresh one for the next document).
func (b *Builder) Handler() ubjflow.Handler {
	return ubjflow.Handler{
		OnValue:          b.onValue,
		OnContainerBegin: b.onContainerBegin,
		OnContainerEnd:   b.onContainerEnd,
	}
}

// Root returns the tree built from the events delivered so far. It is
// only meaningful once the top-level Decoder.Next call that drove this
// Builder has returned successfully.
func (b *Builder) Root() *Node {
	return b.root
}

func (b *Builder) onValue(v ubjflow.Value) error {
	return b.attach(newScalarNode(v))
}

func (b *Builder) onContainerBegin(kind ubjflow.Type, length int64, elementType ubjflow.Type) error {
	n := &Node{Value: ubjflow.Value{Type: kind}}
	if err := b.attach(n); err != nil {
		return err
	}
	b.stack = append(b.stack, &frame{node: n, awaitingKey: kind == ubjflow.Object})
	return nil
}

func (b *Builder) onContainerEnd() error {
	if len(b.stack) == 0 {
		return fmt.Errorf("dom: container end with no open container")
	}
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}

// attach places n as either the document root, the next element of an
// open Array, or the key/value of an open Object, per spec.md §4.F's
// requirement that keys and values both surface through the ordinary
// node stream with no special-cased event for "this one is a key."
func (b *Builder) attach(n *Node) error {
	if len(b.stack) == 0 {
		b.root = n
		return nil
	}

	top := b.stack[len(b.stack)-1]
	if top.node.Value.Type != ubjflow.Object {
		top.node.Children = append(top.node.Children, n)
		return nil
	}

	if top.awaitingKey {
		if n.Value.Type != ubjflow.String {
			return fmt.Errorf("dom: object key must be a string, got %s", n.Value.Type)
		}
		top.pendingKey = string(n.Value.Str)
		top.awaitingKey = false
		return nil
	}

	top.node.Keys = append(top.node.Keys, top.pendingKey)
	top.node.Children = append(top.node.Children, n)
	top.awaitingKey = true
	return nil
}
