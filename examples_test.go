// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ubjflow_test

import (
	"bufio"
	"bytes"
	"fmt"
	"log"

	"github.com/ubjflow/ubjflow"
)

func ExampleDecoder_Next() {
	// [ i 1 i 2 i 3 ]  i.e. [1,2,3]
	input := []byte{'[', 'i', 1, 'i', 2, 'i', 3, ']'}

	var sum int
	h := ubjflow.Handler{
		OnValue: func(v ubjflow.Value) error {
			if v.Type == ubjflow.Int8 {
				sum += int(v.Int8)
			}
			return nil
		},
	}

	src := ubjflow.NewReaderSource(bufio.NewReader(bytes.NewReader(input)))
	dec := ubjflow.NewDecoder(src, h)

	n, err := dec.Next()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(n, sum)
	// Output: 4 6
}
