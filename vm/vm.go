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
	"strconv"

	"github.com/pkg/errors"
)

// Cell is the raw type stored in a memory location.
type Cell int64

// State is the execution state of an Instance.
type State int

// Execution states. Running is never returned by Run or Resume.
const (
	Running State = iota
	Blocked
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Blocked:
		return "blocked"
	case Halted:
		return "halted"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Errors returned by the VM. Use errors.Cause to test the returned errors
// against these values.
var (
	ErrLoad           = errors.New("invalid program text")
	ErrOpcode         = errors.New("unknown opcode")
	ErrMode           = errors.New("unknown parameter mode")
	ErrImmediateWrite = errors.New("write to immediate mode parameter")
	ErrAddress        = errors.New("negative address")
	ErrNotBlocked     = errors.New("instance is not blocked on input")
)

// Instance represents an Intcode VM instance.
type Instance struct {
	PC       int   // Program Counter (aka. Instruction Pointer)
	Mem      Image // Memory image
	base     Cell
	state    State
	in       Queue
	out      Queue
	insCount int64
	trace    TraceFunc
	maxMem   int
}

// DefaultMaxMem is the default memory limit in cells.
const DefaultMaxMem = 1 << 24

// Option interface
type Option func(*Instance) error

// TraceFunc is the function prototype for instruction tracing. It is called
// before each instruction with the PC pointing at the instruction about to be
// executed.
type TraceFunc func(i *Instance)

// Input pushes the given values to the input queue.
func Input(v ...Cell) Option {
	return func(i *Instance) error {
		i.in.Push(v...)
		return nil
	}
}

// MemSize grows memory to at least size cells. It never shrinks memory. Memory
// grows on demand anyway, this only saves reallocations for programs known to
// use a lot of scratch space.
func MemSize(size int) Option {
	return func(i *Instance) error {
		if size < 0 || size > i.maxMem {
			return errors.Errorf("invalid memory size %d", size)
		}
		if size > len(i.Mem) {
			i.Mem.grow(size - 1)
		}
		return nil
	}
}

// MaxMem sets the memory limit in cells. Any access at or past that address
// fails with ErrAddress. The default is DefaultMaxMem.
func MaxMem(size int) Option {
	return func(i *Instance) error {
		if size < 1 {
			return errors.Errorf("invalid memory limit %d", size)
		}
		i.maxMem = size
		return nil
	}
}

// Trace sets the trace function. A nil function disables tracing.
func Trace(fn TraceFunc) Option {
	return func(i *Instance) error {
		i.trace = fn
		return nil
	}
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode Virtual Machine instance.
//
// The image parameter is copied into the instance memory, so the same image can
// be used to create any number of independent instances.
//
// Options will be set by calling SetOptions.
func New(image Image, opts ...Option) (*Instance, error) {
	i := &Instance{
		Mem:    append(Image(nil), image...),
		maxMem: DefaultMaxMem,
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	if len(i.Mem) > i.maxMem {
		return nil, errors.Errorf("image size %d exceeds memory limit %d", len(i.Mem), i.maxMem)
	}
	return i, nil
}

// NewFromText parses the given program text and creates a new instance from
// it. See Parse.
func NewFromText(text string, opts ...Option) (*Instance, error) {
	img, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return New(img, opts...)
}

// State returns the current execution state.
func (i *Instance) State() State {
	return i.state
}

// Base returns the value of the relative base register.
func (i *Instance) Base() Cell {
	return i.base
}

// InstructionCount returns the number of instructions executed so far.
// Attempts to execute an input instruction while blocked are not counted.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Read returns the value at address addr. Memory is extended with zeros if
// addr is past the end of memory. Negative addresses and addresses past the
// memory limit read as 0.
func (i *Instance) Read(addr int) Cell {
	if addr < 0 || addr >= i.maxMem {
		return 0
	}
	return i.Mem.Read(addr)
}

// SetAddr writes v at address addr. It is primarily meant to patch a program
// before running it.
func (i *Instance) SetAddr(addr int, v Cell) error {
	if addr < 0 || addr >= i.maxMem {
		return errors.Wrapf(ErrAddress, "SetAddr %d", addr)
	}
	i.Mem.Write(addr, v)
	return nil
}
