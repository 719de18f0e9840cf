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

import "github.com/pkg/errors"

// Intcode Virtual Machine Opcodes.
const (
	OpAdd  Cell = 1
	OpMul  Cell = 2
	OpIn   Cell = 3
	OpOut  Cell = 4
	OpJnz  Cell = 5
	OpJz   Cell = 6
	OpLt   Cell = 7
	OpEq   Cell = 8
	OpArb  Cell = 9
	OpHalt Cell = 99
)

// Mode is a parameter addressing mode.
type Mode Cell

// Parameter modes.
const (
	Position  Mode = 0
	Immediate Mode = 1
	Relative  Mode = 2
)

// maxParams is the largest parameter count of any instruction.
const maxParams = 3

var paramCount = map[Cell]int{
	OpAdd:  3,
	OpMul:  3,
	OpIn:   1,
	OpOut:  1,
	OpJnz:  2,
	OpJz:   2,
	OpLt:   3,
	OpEq:   3,
	OpArb:  1,
	OpHalt: 0,
}

// ParamCount returns the number of parameters of the given opcode. The boolean
// is false if op is not a valid opcode.
func ParamCount(op Cell) (int, bool) {
	n, ok := paramCount[op]
	return n, ok
}

// Decode splits an instruction word into its opcode and parameter modes. Modes
// of parameters not used by the opcode are not checked.
func Decode(w Cell) (op Cell, modes [maxParams]Mode, err error) {
	if w < 0 {
		return w, modes, errors.Wrapf(ErrOpcode, "%d", w)
	}
	op = w % 100
	n, ok := paramCount[op]
	if !ok {
		return op, modes, errors.Wrapf(ErrOpcode, "%d", op)
	}
	w /= 100
	for k := 0; k < n; k++ {
		m := Mode(w % 10)
		if m > Relative {
			return op, modes, errors.Wrapf(ErrMode, "%d for parameter %d", m, k+1)
		}
		modes[k] = m
		w /= 10
	}
	return op, modes, nil
}
