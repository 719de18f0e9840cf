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

// Package vm implements the Intcode VM.
//
// An Intcode program is a comma separated list of signed integers loaded at
// address 0 of the VM memory. Instructions are encoded as an opcode in the two
// lowest decimal digits of the instruction word, followed by one parameter mode
// digit per parameter (hundreds digit for the first parameter, thousands for
// the second and so on). Supported modes are position (0), immediate (1) and
// relative (2).
//
// Memory grows on demand: reading or writing past the end of the loaded image
// extends it with zeros, up to the limit set with MaxMem. Addresses past that
// limit are an ErrAddress error.
//
// I/O goes through a pair of FIFO queues bound to the instance. The caller
// pushes values to the input queue and pops or drains values from the output
// queue. When the program executes an input instruction with an empty input
// queue, Run returns with the instance in the Blocked state and the PC still
// pointing at the input instruction. Pushing a value and calling Run or Resume
// picks up execution exactly where it stopped. This makes it possible to drive
// many instances from a single goroutine, as does the network package.
//
// For performance reasons, the PC is not incremented in a single place, rather
// each opcode deals with the PC as needed.
package vm
