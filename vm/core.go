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

// raw returns the raw value of the k-th (1-based) parameter of the current
// instruction.
func (i *Instance) raw(k int) Cell {
	return i.Mem.Read(i.PC + k)
}

// param resolves the k-th parameter of the current instruction to its operand
// value.
func (i *Instance) param(k int, m Mode) (Cell, error) {
	v := i.raw(k)
	switch m {
	case Immediate:
		return v, nil
	case Relative:
		v += i.base
	}
	if !i.valid(v) {
		return 0, errors.Wrapf(ErrAddress, "parameter %d reads %d", k, v)
	}
	return i.Mem.Read(int(v)), nil
}

// addr resolves the k-th parameter of the current instruction to a write
// address.
func (i *Instance) addr(k int, m Mode) (int, error) {
	v := i.raw(k)
	switch m {
	case Immediate:
		return 0, errors.Wrapf(ErrImmediateWrite, "parameter %d", k)
	case Relative:
		v += i.base
	}
	if !i.valid(v) {
		return 0, errors.Wrapf(ErrAddress, "parameter %d writes %d", k, v)
	}
	return int(v), nil
}

// params resolves the first n parameters of the current instruction.
func (i *Instance) params(n int, modes *[maxParams]Mode) (a, b Cell, err error) {
	if a, err = i.param(1, modes[0]); err != nil || n < 2 {
		return a, 0, err
	}
	b, err = i.param(2, modes[1])
	return a, b, err
}

// valid reports whether v is an addressable cell.
func (i *Instance) valid(v Cell) bool {
	return v >= 0 && v < Cell(i.maxMem)
}

// jump sets the PC to target.
func (i *Instance) jump(target Cell) error {
	if !i.valid(target) {
		return errors.Wrapf(ErrAddress, "jump to %d", target)
	}
	i.PC = int(target)
	return nil
}

func b2c(b bool) Cell {
	if b {
		return 1
	}
	return 0
}

// Run runs the VM until it either halts or blocks on an input instruction with
// an empty input queue, and returns the resulting state.
//
// If the instance is blocked, the pending input instruction is attempted again,
// so Run can be used as a lenient Resume. If the instance has already halted,
// Run does nothing and returns Halted.
//
// If an error occurs, the PC will point to the instruction that triggered
// the error and the returned state is the one before the failed instruction.
func (i *Instance) Run() (State, error) {
	if i.state == Halted {
		return Halted, nil
	}
	i.state = Running
	for {
		if i.PC >= i.maxMem {
			return i.state, errors.Wrapf(ErrAddress, "@pc=%d", i.PC)
		}
		if i.trace != nil {
			i.trace(i)
		}
		w := i.Mem.Read(i.PC)
		op, modes, err := Decode(w)
		if err != nil {
			return i.state, errors.Wrapf(err, "@pc=%d (%d)", i.PC, w)
		}
		switch op {
		case OpAdd, OpMul, OpLt, OpEq:
			var a, b Cell
			var dst int
			if a, b, err = i.params(2, &modes); err != nil {
				break
			}
			if dst, err = i.addr(3, modes[2]); err != nil {
				break
			}
			var v Cell
			switch op {
			case OpAdd:
				v = a + b
			case OpMul:
				v = a * b
			case OpLt:
				v = b2c(a < b)
			case OpEq:
				v = b2c(a == b)
			}
			i.Mem.Write(dst, v)
			i.PC += 4
		case OpIn:
			var dst int
			if dst, err = i.addr(1, modes[0]); err != nil {
				break
			}
			v, ok := i.in.Pop()
			if !ok {
				i.state = Blocked
				return Blocked, nil
			}
			i.Mem.Write(dst, v)
			i.PC += 2
		case OpOut:
			var v Cell
			if v, err = i.param(1, modes[0]); err != nil {
				break
			}
			i.out.Push(v)
			i.PC += 2
		case OpJnz, OpJz:
			var a, b Cell
			if a, b, err = i.params(2, &modes); err != nil {
				break
			}
			if (a != 0) == (op == OpJnz) {
				err = i.jump(b)
			} else {
				i.PC += 3
			}
		case OpArb:
			var a Cell
			if a, err = i.param(1, modes[0]); err != nil {
				break
			}
			i.base += a
			i.PC += 2
		case OpHalt:
			i.state = Halted
		}
		if err != nil {
			return i.state, errors.Wrapf(err, "@pc=%d (%d)", i.PC, w)
		}
		i.insCount++
		if i.state == Halted {
			return Halted, nil
		}
	}
}

// Resume resumes execution of an instance blocked on input. It attempts the
// pending input instruction again and then behaves like Run.
//
// Resume returns ErrNotBlocked if the instance is not in the Blocked state, in
// which case the instance is left untouched.
func (i *Instance) Resume() (State, error) {
	if i.state != Blocked {
		return i.state, errors.Wrapf(ErrNotBlocked, "state %v", i.state)
	}
	return i.Run()
}
