// This file is part of intcode - https://github.com/mpyle101/aoc-sub001
//
// Copyright 2019 mpyle101
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ascii provides utility functions and types to run Intcode programs
// that talk ASCII through their I/O queues.
package ascii

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/mpyle101/aoc-sub001/internal/iox"
	"github.com/mpyle101/aoc-sub001/vm"
)

// MaxChar is the largest value considered to be an ASCII character.
const MaxChar = utf8.RuneSelf - 1

// IsChar reports whether v is an ASCII character.
func IsChar(v vm.Cell) bool {
	return v >= 0 && v <= MaxChar
}

// Encode returns the given string as a slice of Cells, one per byte.
func Encode(s string) []vm.Cell {
	c := make([]vm.Cell, len(s))
	for i := 0; i < len(s); i++ {
		c[i] = vm.Cell(s[i])
	}
	return c
}

// Decode splits program output into ASCII text and other values. The order of
// values in each part is preserved.
func Decode(cells []vm.Cell) (text string, values []vm.Cell) {
	b := make([]byte, 0, len(cells))
	for _, v := range cells {
		if IsChar(v) {
			b = append(b, byte(v))
		} else {
			values = append(values, v)
		}
	}
	return string(b), values
}

// Write writes program output to w in order. ASCII characters are written as
// is and any other value is written in decimal on its own line.
func Write(w io.Writer, cells []vm.Cell) error {
	ew := iox.NewErrWriter(w)
	b := make([]byte, 0, len(cells))
	for _, v := range cells {
		if IsChar(v) {
			b = append(b, byte(v))
			continue
		}
		if len(b) > 0 && b[len(b)-1] != '\n' {
			b = append(b, '\n')
		}
		b = strconv.AppendInt(b, int64(v), 10)
		b = append(b, '\n')
	}
	ew.Write(b)
	return ew.Err
}
