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

package ascii

import (
	"io"

	"github.com/mpyle101/aoc-sub001/internal/iox"
	"github.com/mpyle101/aoc-sub001/vm"
)

// Dump dumps the virtual machine registers and memory image to the specified
// io.Writer. The first line holds the state, PC, relative base and instruction
// count; the second line is the memory image in program text format.
func Dump(i *vm.Instance, w io.Writer) error {
	ew := iox.NewErrWriter(w)
	ew.PutString("state ")
	ew.PutString(i.State().String())
	ew.PutString(" pc ")
	ew.PutInt(int64(i.PC))
	ew.PutString(" base ")
	ew.PutInt(int64(i.Base()))
	ew.PutString(" count ")
	ew.PutInt(i.InstructionCount())
	ew.PutString("\n")
	if ew.Err != nil {
		return ew.Err
	}
	if _, err := i.Mem.WriteTo(ew); err != nil {
		return err
	}
	return ew.PutString("\n")
}
