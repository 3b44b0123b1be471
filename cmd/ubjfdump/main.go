// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Command ubjfdump decodes a UBJSON document and prints one line per
// node, the thin main.go driving the library the way jibby's own
// jibbyperf cmd does.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ubjflow/ubjflow"
	"github.com/ubjflow/ubjflow/dom"
)

var (
	highpFlag     string
	maxDepthFlag  int
	countOnlyFlag bool
	logLevelFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "ubjfdump [file]",
	Short: "Decode a UBJSON document and print one line per node",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&highpFlag, "highp", "string", "HIGHP handling: throw|skip|string")
	rootCmd.Flags().IntVar(&maxDepthFlag, "max-depth", 200, "maximum container nesting depth")
	rootCmd.Flags().BoolVar(&countOnlyFlag, "count-only", false, "validate only; print the final node count and nothing else")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "warn", "logrus level: trace|debug|info|warn|error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(logLevelFlag)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logrus.SetLevel(level)

	mode, err := parseHighpFlag(highpFlag)
	if err != nil {
		return err
	}

	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	opts := []ubjflow.Option{
		ubjflow.WithHighpMode(mode),
		ubjflow.WithMaxDepth(maxDepthFlag),
	}

	src := ubjflow.NewReaderSource(in)

	if countOnlyFlag {
		dec := ubjflow.NewDecoder(src, ubjflow.Handler{}, opts...)
		n, err := dec.Next()
		if err != nil {
			return fmt.Errorf("decoding %s: %w", describe(args), err)
		}
		fmt.Println(n)
		return nil
	}

	builder := dom.NewBuilder()
	dec := ubjflow.NewDecoder(src, builder.Handler(), opts...)
	logrus.WithField("source", describe(args)).Debug("decoding document")
	if _, err := dec.Next(); err != nil {
		return fmt.Errorf("decoding %s: %w", describe(args), err)
	}

	dom.Walk(builder.Root(), func(depth int, key string, n *dom.Node) {
		indent := strings.Repeat("  ", depth)
		if key != "" {
			fmt.Printf("%s%s: %s\n", indent, key, n.Label())
		} else {
			fmt.Printf("%s%s\n", indent, n.Label())
		}
	})
	return nil
}

func describe(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "stdin"
}

func parseHighpFlag(s string) (ubjflow.HighpMode, error) {
	switch s {
	case "throw":
		return ubjflow.HighpThrow, nil
	case "skip":
		return ubjflow.HighpSkip, nil
	case "string":
		return ubjflow.HighpAsString, nil
	default:
		return 0, fmt.Errorf("--highp: unrecognized mode %q (want throw|skip|string)", s)
	}
}
