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

// Package network runs a set of Intcode instances booted from the same image
// as nodes of a packet switched network.
//
// Nodes are scheduled cooperatively, one at a time in id order. Each node is
// run until it blocks on input or halts, then its output is split into packets
// of PacketSize words: a destination address followed by the packet data.
// Packets addressed to a node are appended to that node's input queue. Other
// packets are passed to the Unrouted handler.
//
// A node that asks for input while its input queue is empty is fed the idle
// value. When every live node has been fed the idle value during a round and
// no packet was sent, the network is idle.
package network

import (
	"context"

	"github.com/mpyle101/aoc-sub001/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Errors returned by the network.
var (
	ErrBudget = errors.New("round budget exhausted")
	ErrNode   = errors.New("no such node")

	// ErrStop can be returned by an Unrouted handler to stop Run without
	// error.
	ErrStop = errors.New("stop")
)

// Packet is a network packet.
type Packet struct {
	From int
	To   int
	Data []vm.Cell
}

type node struct {
	id      int
	i       *vm.Instance
	buf     []vm.Cell
	starved bool
}

// Network is a set of cooperatively scheduled nodes.
type Network struct {
	nodes      []*node
	packetSize int
	idleValue  vm.Cell
	boot       func(id int) []vm.Cell
	unrouted   func(p Packet) error
	pending    []Packet
	idle       bool
	halted     bool
	logger     *zap.Logger
}

// Option interface
type Option func(*Network) error

// PacketSize sets the number of words per packet, destination address
// included. The default is 3.
func PacketSize(n int) Option {
	return func(nw *Network) error {
		if n < 1 {
			return errors.Errorf("invalid packet size %d", n)
		}
		nw.packetSize = n
		return nil
	}
}

// IdleValue sets the value fed to nodes waiting for input with an empty input
// queue. The default is -1.
func IdleValue(v vm.Cell) Option {
	return func(nw *Network) error {
		nw.idleValue = v
		return nil
	}
}

// Boot sets the function returning the initial input of each node. By
// default, nodes receive their id.
func Boot(fn func(id int) []vm.Cell) Option {
	return func(nw *Network) error {
		nw.boot = fn
		return nil
	}
}

// Unrouted sets the handler for packets whose destination is not a node. If no
// handler is set, such packets are kept and can be retrieved with Pending.
//
// If the handler returns an error, Step stops and returns that error.
func Unrouted(fn func(p Packet) error) Option {
	return func(nw *Network) error {
		nw.unrouted = fn
		return nil
	}
}

// Logger sets the logger. The default is zap.L().
func Logger(l *zap.Logger) Option {
	return func(nw *Network) error {
		if l == nil {
			return errors.New("nil logger")
		}
		nw.logger = l
		return nil
	}
}

// New returns a network of size nodes, each running its own copy of img.
func New(img vm.Image, size int, opts ...Option) (*Network, error) {
	if size < 1 {
		return nil, errors.Errorf("invalid network size %d", size)
	}
	nw := &Network{
		packetSize: 3,
		idleValue:  -1,
		boot:       func(id int) []vm.Cell { return []vm.Cell{vm.Cell(id)} },
		logger:     zap.L(),
	}
	for _, opt := range opts {
		if err := opt(nw); err != nil {
			return nil, err
		}
	}
	nw.logger = nw.logger.Named("network")
	nw.nodes = make([]*node, size)
	for id := range nw.nodes {
		i, err := vm.New(img, vm.Input(nw.boot(id)...))
		if err != nil {
			return nil, errors.Wrapf(err, "node %d", id)
		}
		nw.nodes[id] = &node{id: id, i: i}
	}
	return nw, nil
}

// Size returns the number of nodes.
func (nw *Network) Size() int {
	return len(nw.nodes)
}

// Node returns the instance running node id, or nil if there is no such node.
func (nw *Network) Node(id int) *vm.Instance {
	if id < 0 || id >= len(nw.nodes) {
		return nil
	}
	return nw.nodes[id].i
}

// Pending returns the unrouted packets received so far when no Unrouted
// handler is set.
func (nw *Network) Pending() []Packet {
	return nw.pending
}

// Idle reports whether the network was idle during the last round.
func (nw *Network) Idle() bool {
	return nw.idle
}

// Halted reports whether all nodes have halted.
func (nw *Network) Halted() bool {
	return nw.halted
}

// Send sends a packet to a node.
func (nw *Network) Send(p Packet) error {
	i := nw.Node(p.To)
	if i == nil {
		return errors.Wrapf(ErrNode, "send to %d", p.To)
	}
	nw.logger.Debug("send", zap.Int("from", p.From), zap.Int("to", p.To), zap.Any("data", p.Data))
	i.Push(p.Data...)
	return nil
}

func (nw *Network) route(p Packet) error {
	if nw.Node(p.To) != nil {
		return nw.Send(p)
	}
	if nw.unrouted != nil {
		return nw.unrouted(p)
	}
	nw.logger.Debug("unrouted", zap.Int("from", p.From), zap.Int("to", p.To), zap.Any("data", p.Data))
	nw.pending = append(nw.pending, p)
	return nil
}

// Step runs one round: every node that has not halted is run once, in id
// order, and its output routed. It returns the number of packets sent during
// the round.
func (nw *Network) Step() (int, error) {
	sent := 0
	live := 0
	for _, n := range nw.nodes {
		if n.i.State() == vm.Halted {
			continue
		}
		live++
		in, _ := n.i.Channels()
		n.starved = n.i.State() == vm.Blocked && in.Len() == 0
		if n.starved {
			n.i.Push(nw.idleValue)
		}
		if _, err := n.i.Run(); err != nil {
			return sent, errors.Wrapf(err, "node %d", n.id)
		}
		n.buf = append(n.buf, n.i.Drain()...)
		for len(n.buf) >= nw.packetSize {
			p := Packet{
				From: n.id,
				To:   int(n.buf[0]),
				Data: append([]vm.Cell(nil), n.buf[1:nw.packetSize]...),
			}
			n.buf = n.buf[nw.packetSize:]
			sent++
			if err := nw.route(p); err != nil {
				return sent, err
			}
		}
	}

	nw.halted = live == 0
	nw.idle = live > 0 && sent == 0
	for _, n := range nw.nodes {
		if n.i.State() == vm.Halted {
			continue
		}
		in, _ := n.i.Channels()
		if !n.starved || len(n.buf) > 0 || in.Len() > 0 {
			nw.idle = false
			break
		}
	}
	return sent, nil
}

// Run runs the network until every node has halted, the context is canceled
// or onIdle returns true. onIdle is called after every idle round, it may send
// packets to wake up nodes.
//
// If maxRounds is greater than zero, Run returns ErrBudget after that many
// rounds. This is the only way to detect a network that loops forever without
// ever going idle.
func (nw *Network) Run(ctx context.Context, maxRounds int, onIdle func(nw *Network) (bool, error)) error {
	for r := 0; maxRounds <= 0 || r < maxRounds; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := nw.Step(); err != nil {
			if errors.Cause(err) == ErrStop {
				nw.logger.Debug("stopped", zap.Int("round", r))
				return nil
			}
			return err
		}
		if nw.halted {
			nw.logger.Debug("halted", zap.Int("round", r))
			return nil
		}
		if nw.idle && onIdle != nil {
			stop, err := onIdle(nw)
			if err != nil || stop {
				return err
			}
		}
	}
	return errors.Wrapf(ErrBudget, "%d rounds", maxRounds)
}
