// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Command ubjfview is a read-only, scrollable tree viewer over one
// already-decoded UBJSON document: it decodes the whole input up front
// into a dom.Node tree, flattens it, and lets the user scroll. There is
// no editing, re-encoding, or live re-parsing on keystroke.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ubjflow/ubjflow"
	"github.com/ubjflow/ubjflow/dom"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ubjfview <file>")
		os.Exit(2)
	}

	path := os.Args[1]
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	builder := dom.NewBuilder()
	dec := ubjflow.NewDecoder(ubjflow.NewReaderSource(f), builder.Handler())
	if _, err := dec.Next(); err != nil {
		fmt.Fprintf(os.Stderr, "decoding %s: %v\n", path, err)
		os.Exit(1)
	}

	m := newModel(path, builder.Root())
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
