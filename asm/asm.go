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

package asm

import (
	"fmt"
	"io"

	"github.com/mpyle101/aoc-sub001/internal/iox"
	"github.com/mpyle101/aoc-sub001/vm"
)

var opcodes = map[vm.Cell][]string{
	vm.OpAdd:  {"add"},
	vm.OpMul:  {"mul"},
	vm.OpIn:   {"in"},
	vm.OpOut:  {"out"},
	vm.OpJnz:  {"jnz", "jt"},
	vm.OpJz:   {"jz", "jf"},
	vm.OpLt:   {"lt"},
	vm.OpEq:   {"eq"},
	vm.OpArb:  {"arb", "rb"},
	vm.OpHalt: {"hlt", "halt"},
}

var opcodeIndex = make(map[string]vm.Cell)

func init() {
	for op, names := range opcodes {
		for _, n := range names {
			opcodeIndex[n] = op
		}
	}
}

// mode prefixes, indexed by vm.Mode
var modePrefix = [...]string{"", "#", "~"}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting image and error if any.
//
// Then name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value that
// will contain up to 10 entries.
func Assemble(name string, r io.Reader) (img vm.Image, err error) {
	p := newParser()
	if err = p.Parse(name, r); err != nil {
		return nil, err
	}
	if p.size == 0 {
		return vm.Image{}, nil
	}
	return p.i[:p.size], nil
}

// Disassemble writes a disassembly of the cells in the given slice at position
// pc to the specified io.Writer and returns the position of the next
// instruction and any write error.
//
// Cells that do not decode to a valid instruction are written as a .dat
// directive. A pc outside of i reads as a zero cell.
func Disassemble(i []vm.Cell, pc int, w io.Writer) (next int, err error) {
	ew := iox.NewErrWriter(w)

	if pc < 0 || pc >= len(i) {
		return pc + 1, ew.PutString(".dat 0")
	}

	op, modes, err := vm.Decode(i[pc])
	if err != nil {
		ew.PutString(".dat ")
		return pc + 1, ew.PutInt(int64(i[pc]))
	}
	ew.PutString(opcodes[op][0])
	n, _ := vm.ParamCount(op)
	for k := 0; k < n; k++ {
		ew.PutString(" ")
		if pc+k+1 >= len(i) {
			ew.PutString("???")
			continue
		}
		ew.PutString(modePrefix[modes[k]])
		ew.PutInt(int64(i[pc+k+1]))
	}
	return pc + n + 1, ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// frist cell (i[0]). It will return any write error.
func DisassembleAll(i []vm.Cell, base int, w io.Writer) error {
	ew := iox.NewErrWriter(w)
	for pc := 0; pc < len(i); {
		fmt.Fprintf(ew, "% 10d\t", base+pc)
		pc, _ = Disassemble(i, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
