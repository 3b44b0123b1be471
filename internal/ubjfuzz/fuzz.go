// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// +build gofuzz

// Package ubjfuzz is a legacy go-fuzz harness (github.com/dvyukov/go-fuzz)
// in the convention of jibby's own testdata/fuzzing/fuzz.go: it decodes
// the same input twice through two independent Handler configurations
// and treats any disagreement between them as a crash, rather than
// merely checking that the decoder doesn't panic.
package ubjfuzz

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ubjflow/ubjflow"
	"github.com/ubjflow/ubjflow/dom"
)

// ErrPanicked marks an input that made one of the two decode runs panic.
var ErrPanicked = errors.New("panicked")

// Fuzz decodes data twice: once building a dom.Node tree, once in
// count-only mode (a zero Handler{}). It panics when the two runs
// disagree on success/failure or on node count — a sign the DOM builder
// and the core decoder have drifted apart. It returns -1 (go-fuzz's
// "never generate this input again" signal) when either run panicked,
// 0 when both runs fail, and 1 whenever a full document decodes
// cleanly.
func Fuzz(data []byte) int {
	domCount, domErr := runDOM(data)
	if domErr == ErrPanicked {
		return -1
	}

	countOnly, countErr := runCountOnly(data)
	if countErr == ErrPanicked {
		return -1
	}

	if (domErr == nil) != (countErr == nil) {
		panic(fmt.Sprintf("dom/count-only disagree on success: domErr=%v countErr=%v", domErr, countErr))
	}
	if domErr == nil && domCount != countOnly {
		panic(fmt.Sprintf("dom/count-only disagree on node count: dom=%d count-only=%d", domCount, countOnly))
	}

	if domErr != nil {
		return 0
	}
	return 1
}

func runDOM(data []byte) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPanicked
		}
	}()

	builder := dom.NewBuilder()
	src := ubjflow.NewReaderSource(bytes.NewReader(data))
	dec := ubjflow.NewDecoder(src, builder.Handler())
	return dec.Next()
}

func runCountOnly(data []byte) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPanicked
		}
	}()

	src := ubjflow.NewReaderSource(bytes.NewReader(data))
	dec := ubjflow.NewDecoder(src, ubjflow.Handler{})
	return dec.Next()
}
