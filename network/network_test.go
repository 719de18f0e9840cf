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

package network_test

import (
	"context"
	"strings"
	"testing"

	"github.com/mpyle101/aoc-sub001/asm"
	"github.com/mpyle101/aoc-sub001/network"
	"github.com/mpyle101/aoc-sub001/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type C = []vm.Cell

// relay: node 0 sends (7, 8) to node 1. Every node forwards the packets it
// receives to address 255.
const relay = `
	in id
	jnz id #loop
	out #1 out #7 out #8
:loop	in x
	eq x #-1 t
	jnz t #loop
	in y
	out #255 out x out y
	jz #0 #loop
:id	0
:x	0
:y	0
:t	0
`

// oneshot sends a packet to 255 in two halves, the second after input.
const oneshot = `
	in id
	out #255
	in x
	out id out x
	hlt
:id	0
:x	0
`

func image(t *testing.T, src string) vm.Image {
	t.Helper()
	img, err := asm.Assemble(t.Name(), strings.NewReader(src))
	require.NoError(t, err)
	return img
}

func newNetwork(t *testing.T, src string, size int, opts ...network.Option) *network.Network {
	t.Helper()
	nw, err := network.New(image(t, src), size, append([]network.Option{network.Logger(zap.NewNop())}, opts...)...)
	require.NoError(t, err)
	return nw
}

func TestStep(t *testing.T) {
	nw := newNetwork(t, relay, 2)
	assert.Equal(t, 2, nw.Size())

	n, err := nw.Step()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, nw.Idle())
	assert.Equal(t, []network.Packet{{From: 1, To: 255, Data: C{7, 8}}}, nw.Pending())

	n, err = nw.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, nw.Idle())
	assert.False(t, nw.Halted())
	for id := 0; id < nw.Size(); id++ {
		assert.Equal(t, vm.Blocked, nw.Node(id).State())
	}
}

func TestStep_partialPackets(t *testing.T) {
	nw := newNetwork(t, oneshot, 2)
	n, err := nw.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, nw.Pending())

	n, err = nw.Step()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []network.Packet{
		{From: 0, To: 255, Data: C{0, -1}},
		{From: 1, To: 255, Data: C{1, -1}},
	}, nw.Pending())
	assert.False(t, nw.Halted())

	n, err = nw.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, nw.Halted())
	assert.False(t, nw.Idle())
}

func TestStep_error(t *testing.T) {
	nw, err := network.New(vm.Image{3, 0, 42}, 1)
	require.NoError(t, err)
	_, err = nw.Step()
	assert.Equal(t, vm.ErrOpcode, errors.Cause(err))
	assert.Contains(t, err.Error(), "node 0")
}

func TestBoot(t *testing.T) {
	nw, err := network.New(vm.Image{3, 0, 4, 0, 99}, 2,
		network.PacketSize(1),
		network.Boot(func(id int) []vm.Cell { return C{vm.Cell(id * 10)} }))
	require.NoError(t, err)
	require.NoError(t, nw.Run(context.Background(), 10, nil))
	assert.True(t, nw.Halted())
	assert.Equal(t, []network.Packet{{From: 1, To: 10}}, nw.Pending())
}

func TestRun_stop(t *testing.T) {
	var got []network.Packet
	nw := newNetwork(t, relay, 2, network.Unrouted(func(p network.Packet) error {
		got = append(got, p)
		return network.ErrStop
	}))
	require.NoError(t, nw.Run(context.Background(), 0, nil))
	assert.Equal(t, []network.Packet{{From: 1, To: 255, Data: C{7, 8}}}, got)
	assert.Empty(t, nw.Pending())
}

func TestRun_onIdle(t *testing.T) {
	var (
		last      network.Packet
		delivered []vm.Cell
	)
	nw := newNetwork(t, relay, 2, network.Unrouted(func(p network.Packet) error {
		last = p
		return nil
	}))
	err := nw.Run(context.Background(), 100, func(nw *network.Network) (bool, error) {
		y := last.Data[1]
		if len(delivered) > 0 && delivered[len(delivered)-1] == y {
			return true, nil
		}
		delivered = append(delivered, y)
		return false, nw.Send(network.Packet{From: 255, To: 0, Data: last.Data})
	})
	require.NoError(t, err)
	assert.Equal(t, C{8}, delivered)
	assert.Equal(t, network.Packet{From: 0, To: 255, Data: C{7, 8}}, last)
}

func TestRun_budget(t *testing.T) {
	nw := newNetwork(t, relay, 2)
	err := nw.Run(context.Background(), 1, nil)
	assert.Equal(t, network.ErrBudget, errors.Cause(err))
	assert.False(t, nw.Idle())

	err = nw.Run(context.Background(), 5, nil)
	assert.Equal(t, network.ErrBudget, errors.Cause(err))
	assert.True(t, nw.Idle())
}

func TestRun_canceled(t *testing.T) {
	nw := newNetwork(t, relay, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := nw.Run(ctx, 0, nil)
	assert.Equal(t, context.Canceled, err)
	assert.Zero(t, nw.Node(0).InstructionCount())
}

func TestSend(t *testing.T) {
	nw := newNetwork(t, relay, 2)
	assert.Nil(t, nw.Node(2))
	assert.Nil(t, nw.Node(-1))
	err := nw.Send(network.Packet{To: 5, Data: C{1, 2}})
	assert.Equal(t, network.ErrNode, errors.Cause(err))

	require.NoError(t, nw.Send(network.Packet{To: 1, Data: C{3, 4}}))
	_, err = nw.Step()
	require.NoError(t, err)
	assert.Equal(t, []network.Packet{
		{From: 1, To: 255, Data: C{3, 4}},
		{From: 1, To: 255, Data: C{7, 8}},
	}, nw.Pending())
}

func TestNew_errors(t *testing.T) {
	img := vm.Image{99}
	_, err := network.New(img, 0)
	assert.Error(t, err)
	_, err = network.New(img, 1, network.PacketSize(0))
	assert.Error(t, err)
	_, err = network.New(img, 1, network.Logger(nil))
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	nw, err := network.New(image(t, relay), 2, network.Logger(zap.New(core).Named("test")))
	require.NoError(t, err)
	_, err = nw.Step()
	require.NoError(t, err)

	sent := logs.FilterMessage("send").All()
	require.Len(t, sent, 1)
	assert.Equal(t, "test.network", sent[0].LoggerName)
	assert.Equal(t, int64(1), sent[0].ContextMap()["to"])
	assert.Equal(t, 1, logs.FilterMessage("unrouted").Len())
}
