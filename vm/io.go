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

// Queue is an unbounded FIFO of Cells. The zero value is an empty queue ready
// to use. None of its methods ever block.
type Queue struct {
	q    []Cell
	head int
}

// Push appends values at the back of the queue.
func (q *Queue) Push(v ...Cell) {
	q.q = append(q.q, v...)
}

// Pop removes and returns the value at the front of the queue. The boolean is
// false if the queue is empty.
func (q *Queue) Pop() (Cell, bool) {
	if q.head >= len(q.q) {
		return 0, false
	}
	v := q.q[q.head]
	q.head++
	if q.head == len(q.q) {
		// empty: reuse the backing array
		q.q, q.head = q.q[:0], 0
	}
	return v, true
}

// Drain removes and returns all values in the queue, in order. It returns nil
// if the queue is empty.
func (q *Queue) Drain() []Cell {
	if q.head >= len(q.q) {
		return nil
	}
	v := append([]Cell(nil), q.q[q.head:]...)
	q.q, q.head = q.q[:0], 0
	return v
}

// Len returns the number of values in the queue.
func (q *Queue) Len() int {
	return len(q.q) - q.head
}

// InputQueue is the caller side of an instance's input queue.
type InputQueue interface {
	Push(v ...Cell)
	Len() int
}

// OutputQueue is the caller side of an instance's output queue.
type OutputQueue interface {
	Pop() (Cell, bool)
	Drain() []Cell
	Len() int
}

// Channels returns the input and output queues bound to the instance.
func (i *Instance) Channels() (InputQueue, OutputQueue) {
	return &i.in, &i.out
}

// Push pushes values to the input queue.
func (i *Instance) Push(v ...Cell) {
	i.in.Push(v...)
}

// Pop pops the next value from the output queue. The boolean is false if no
// output is available.
func (i *Instance) Pop() (Cell, bool) {
	return i.out.Pop()
}

// Drain returns and clears all values in the output queue.
func (i *Instance) Drain() []Cell {
	return i.out.Drain()
}
