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

package vm_test

import (
	"fmt"
	"testing"

	"github.com/mpyle101/aoc-sub001/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quine = "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"

func TestHaltOnly(t *testing.T) {
	i := setup(t, "99")
	st, err := i.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Halted, st)
	assert.Equal(t, 0, i.PC)
	assert.Equal(t, vm.Image{99}, i.Mem)
	assert.Equal(t, int64(1), i.InstructionCount())

	// running a halted VM is a no-op
	st, err = i.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Halted, st)
	assert.Equal(t, int64(1), i.InstructionCount())
}

func TestScenarios(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		i := setup(t, "1,0,0,0,99")
		st, err := i.Run()
		require.NoError(t, err)
		assert.Equal(t, vm.Halted, st)
		assert.Equal(t, vm.Cell(2), i.Read(0))
	})
	t.Run("echo", func(t *testing.T) {
		i := setup(t, "3,0,4,0,99", vm.Input(7))
		st, err := i.Run()
		require.NoError(t, err)
		assert.Equal(t, vm.Halted, st)
		assert.Equal(t, []vm.Cell{7}, i.Drain())
	})
	t.Run("large immediate", func(t *testing.T) {
		i := setup(t, "104,1125899906842624,99")
		st, err := i.Run()
		require.NoError(t, err)
		assert.Equal(t, vm.Halted, st)
		assert.Equal(t, []vm.Cell{1125899906842624}, i.Drain())
		assert.Len(t, i.Mem, 3)
	})
	t.Run("quine", func(t *testing.T) {
		img, err := vm.Parse(quine)
		require.NoError(t, err)
		i, err := vm.New(img)
		require.NoError(t, err)
		st, err := i.Run()
		require.NoError(t, err)
		assert.Equal(t, vm.Halted, st)
		assert.Equal(t, []vm.Cell(img), i.Drain())
	})
}

// Executing an instruction with a position mode operand pointing at V must
// have the same effect as the immediate mode operand V.
func TestModeEquivalence(t *testing.T) {
	values := []vm.Cell{0, 1, -1, 7, 8, 1 << 40, -(1 << 40)}
	ops := []struct {
		name string
		pos  string // operands at 20 and 21, result at 30
		imm  string // immediate operands %d, %d
	}{
		{"add", "1,20,21,30,4,30,99", "1101,%d,%d,30,4,30,99"},
		{"mul", "2,20,21,30,4,30,99", "1102,%d,%d,30,4,30,99"},
		{"lt", "7,20,21,30,4,30,99", "1107,%d,%d,30,4,30,99"},
		{"eq", "8,20,21,30,4,30,99", "1108,%d,%d,30,4,30,99"},
		{"jnz", "5,20,21,104,1,99", "1105,%d,%d,104,1,99"},
		{"jz", "6,20,21,104,1,99", "1106,%d,%d,104,1,99"},
	}
	for _, op := range ops {
		for _, a := range values {
			for _, b := range values {
				if op.name == "jnz" || op.name == "jz" {
					// jump targets: either the out instruction at 3 or the halt at 5
					b = 3 + 2*(b&1)
				}
				p := setup(t, op.pos)
				require.NoError(t, p.SetAddr(20, a))
				require.NoError(t, p.SetAddr(21, b))
				stp, errp := p.Run()

				i := setup(t, fmt.Sprintf(op.imm, a, b))
				sti, erri := i.Run()

				require.NoError(t, errp)
				require.NoError(t, erri)
				assert.Equal(t, stp, sti, "%s %d %d", op.name, a, b)
				assert.Equal(t, p.PC, i.PC, "%s %d %d", op.name, a, b)
				assert.Equal(t, p.Read(30), i.Read(30), "%s %d %d", op.name, a, b)
				assert.Equal(t, p.Drain(), i.Drain(), "%s %d %d", op.name, a, b)
			}
		}
	}
}

// After base adjustments summing to N, relative offset R targets N+R.
func TestRelativeOffset(t *testing.T) {
	adjust := [][]vm.Cell{
		nil,
		{50},
		{100, -60},
		{7, 7, 7, 7, 7},
		{-10, 60},
	}
	for _, adj := range adjust {
		var n vm.Cell
		var code string
		for _, a := range adj {
			n += a
			code += fmt.Sprintf("109,%d,", a)
		}
		for _, r := range []vm.Cell{0, 3, 20} {
			// write 42 at base+r then output base+r through relative mode
			prog := code + fmt.Sprintf("21101,40,2,%d,204,%d,99", r, r)
			i := setup(t, prog)
			st, err := i.Run()
			require.NoError(t, err)
			assert.Equal(t, vm.Halted, st)
			assert.Equal(t, n, i.Base())
			assert.Equal(t, vm.Cell(42), i.Read(int(n+r)), "%s", prog)
			assert.Equal(t, []vm.Cell{42}, i.Drain())
		}
	}
}

func TestSuspendResume(t *testing.T) {
	i := setup(t, "3,10,3,11,4,10,4,11,99")
	mem := append(vm.Image(nil), i.Mem...)

	for n := 0; n < 3; n++ {
		st, err := i.Run()
		require.NoError(t, err)
		assert.Equal(t, vm.Blocked, st)
		assert.Equal(t, 0, i.PC)
		assert.Equal(t, vm.Cell(0), i.Base())
		assert.Equal(t, mem, i.Mem)
	}
	assert.Equal(t, int64(0), i.InstructionCount())

	// exactly one input instruction
	i.Push(5)
	st, err := i.Resume()
	require.NoError(t, err)
	assert.Equal(t, vm.Blocked, st)
	assert.Equal(t, 2, i.PC)
	assert.Equal(t, vm.Cell(5), i.Read(10))
	assert.Equal(t, int64(1), i.InstructionCount())

	i.Push(6)
	st, err = i.Resume()
	require.NoError(t, err)
	assert.Equal(t, vm.Halted, st)
	assert.Equal(t, []vm.Cell{5, 6}, i.Drain())

	_, err = i.Resume()
	assert.Equal(t, vm.ErrNotBlocked, errors.Cause(err))
}

func TestResume_notBlocked(t *testing.T) {
	i := setup(t, "3,0,99")
	st, err := i.Resume()
	assert.Equal(t, vm.ErrNotBlocked, errors.Cause(err))
	assert.Equal(t, vm.Running, st)
	assert.Equal(t, 0, i.PC)
}

func TestDeterminism(t *testing.T) {
	const cmp8 = "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31,1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"
	img, err := vm.Parse(cmp8 + "," + quine)
	require.NoError(t, err)
	run := func() (*vm.Instance, []vm.Cell) {
		i, err := vm.New(img)
		require.NoError(t, err)
		var out []vm.Cell
		for _, in := range []vm.Cell{9, 8, 7} {
			st, err := i.Run()
			require.NoError(t, err)
			if st == vm.Halted {
				break
			}
			i.Push(in)
		}
		return i, append(out, i.Drain()...)
	}
	a, outA := run()
	b, outB := run()
	assert.Equal(t, outA, outB)
	assert.Equal(t, a.State(), b.State())
	assert.Equal(t, a.PC, b.PC)
	assert.Equal(t, a.Mem, b.Mem)
	assert.Equal(t, a.InstructionCount(), b.InstructionCount())
}

func TestNew_copiesImage(t *testing.T) {
	img := vm.Image{1, 0, 0, 0, 99}
	a, err := vm.New(img)
	require.NoError(t, err)
	b, err := vm.New(img)
	require.NoError(t, err)
	_, err = a.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Cell(2), a.Read(0))
	assert.Equal(t, vm.Cell(1), b.Read(0))
	assert.Equal(t, vm.Cell(1), img[0])
}

func TestOptions(t *testing.T) {
	var pcs []int
	i := setup(t, "3,0,4,0,99",
		vm.MemSize(100),
		vm.Trace(func(i *vm.Instance) { pcs = append(pcs, i.PC) }))
	assert.Len(t, i.Mem, 100)

	st, err := i.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Blocked, st)
	i.Push(3)
	_, err = i.Run()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 2, 4}, pcs)

	_, err = vm.New(nil, vm.MemSize(-1))
	assert.Error(t, err)
}

func TestMaxMem(t *testing.T) {
	i := setup(t, "1101,1,1,16,99", vm.MaxMem(16))
	_, err := i.Run()
	assert.Equal(t, vm.ErrAddress, errors.Cause(err))
	assert.Len(t, i.Mem, 5)

	i = setup(t, "1101,1,1,15,99", vm.MaxMem(16))
	_, err = i.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Cell(2), i.Read(15))

	// PC running off the end of memory
	i = setup(t, "1101,0,0,5,1101,0,0,7", vm.MaxMem(8))
	_, err = i.Run()
	assert.Equal(t, vm.ErrAddress, errors.Cause(err))
	assert.Equal(t, 8, i.PC)

	assert.Equal(t, vm.Cell(0), i.Read(1<<40))
	assert.Len(t, i.Mem, 8)
	err = i.SetAddr(8, 1)
	assert.Equal(t, vm.ErrAddress, errors.Cause(err))

	_, err = vm.New(vm.Image{1, 2, 3}, vm.MaxMem(2))
	assert.Error(t, err)
	_, err = vm.New(nil, vm.MaxMem(0))
	assert.Error(t, err)
	_, err = vm.New(nil, vm.MaxMem(10), vm.MemSize(11))
	assert.Error(t, err)
}

func TestSetAddr(t *testing.T) {
	i := setup(t, "1,0,0,0,99")
	require.NoError(t, i.SetAddr(1, 4))
	require.NoError(t, i.SetAddr(2, 4))
	_, err := i.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Cell(198), i.Read(0))

	err = i.SetAddr(-1, 0)
	assert.Equal(t, vm.ErrAddress, errors.Cause(err))
	assert.Equal(t, vm.Cell(0), i.Read(-1))
}

func TestParse(t *testing.T) {
	img, err := vm.Parse(" 1, -2 ,\t3,\n1125899906842624\n")
	require.NoError(t, err)
	assert.Equal(t, vm.Image{1, -2, 3, 1125899906842624}, img)
	assert.Equal(t, "1,-2,3,1125899906842624", img.String())

	img, err = vm.Parse("\n")
	require.NoError(t, err)
	assert.Empty(t, img)

	for _, bad := range []string{"1,2,x", "1,,2", "1;2", "99999999999999999999", "1,2,"} {
		_, err := vm.Parse(bad)
		assert.Equal(t, vm.ErrLoad, errors.Cause(err), "%q", bad)
	}
	_, err = vm.NewFromText("1,a")
	assert.Equal(t, vm.ErrLoad, errors.Cause(err))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "running", vm.Running.String())
	assert.Equal(t, "blocked", vm.Blocked.String())
	assert.Equal(t, "halted", vm.Halted.String())
	assert.Equal(t, "State(7)", vm.State(7).String())
}
