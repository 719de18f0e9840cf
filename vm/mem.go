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

package vm

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Image encapsulates a VM's memory.
type Image []Cell

// grow extends the image with zeros so that addr is a valid index.
func (m *Image) grow(addr int) {
	if addr < len(*m) {
		return
	}
	if addr < cap(*m) {
		*m = (*m)[:addr+1]
		return
	}
	sz := 2 * cap(*m)
	if sz <= addr {
		sz = addr + 1
	}
	t := make(Image, addr+1, sz)
	copy(t, *m)
	*m = t
}

// Read returns the value at address addr, extending the image if needed. addr
// must not be negative, and the caller is responsible for bounding it (see
// MaxMem).
func (m *Image) Read(addr int) Cell {
	m.grow(addr)
	return (*m)[addr]
}

// Write stores v at address addr, extending the image if needed. addr must not
// be negative, and the caller is responsible for bounding it.
func (m *Image) Write(addr int, v Cell) {
	m.grow(addr)
	(*m)[addr] = v
}

// Parse parses program text: signed decimal integers separated by commas.
// Leading and trailing white space around each value is ignored. An empty text
// yields an empty image.
func Parse(text string) (Image, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Image{}, nil
	}
	fields := strings.Split(text, ",")
	img := make(Image, len(fields))
	for k, f := range fields {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrLoad, "value #%d %q", k, f)
		}
		img[k] = Cell(n)
	}
	return img, nil
}

// Load loads an image from file fileName. See Parse.
func Load(fileName string) (Image, error) {
	b, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	img, err := Parse(string(b))
	if err != nil {
		return nil, errors.Wrapf(err, "Load %s", fileName)
	}
	return img, nil
}

// String returns the image in program text format.
func (m Image) String() string {
	var b strings.Builder
	m.WriteTo(&b)
	return b.String()
}

// WriteTo writes the image to w in program text format.
func (m Image) WriteTo(w io.Writer) (n int64, err error) {
	buf := make([]byte, 0, 24)
	for k, v := range m {
		buf = buf[:0]
		if k > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(v), 10)
		nn, err := w.Write(buf)
		n += int64(nn)
		if err != nil {
			return n, errors.Wrap(err, "write failed")
		}
	}
	return n, nil
}
