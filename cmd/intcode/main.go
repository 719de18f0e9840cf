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

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/mpyle101/aoc-sub001/asm"
	"github.com/mpyle101/aoc-sub001/lang/ascii"
	"github.com/mpyle101/aoc-sub001/network"
	"github.com/mpyle101/aoc-sub001/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errBlocked = errors.New("program blocked on input")

type app struct {
	cfg    *config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	raw    bool // stdin is a terminal in raw mode
	logger *zap.Logger
}

func (a *app) trace(i *vm.Instance) {
	fmt.Fprintf(a.stderr, "% 10d\t", i.PC)
	asm.Disassemble(i.Mem, i.PC, a.stderr)
	io.WriteString(a.stderr, "\n")
}

func (a *app) newInstance(img vm.Image) (*vm.Instance, error) {
	opts := []vm.Option{vm.Input(a.cfg.Input...)}
	if a.cfg.Trace {
		opts = append(opts, vm.Trace(a.trace))
	}
	i, err := vm.New(img, opts...)
	if err != nil {
		return nil, err
	}
	pokes, err := a.cfg.Set.pokes()
	if err != nil {
		return nil, err
	}
	for _, p := range pokes {
		if err = i.SetAddr(p.addr, p.v); err != nil {
			return nil, err
		}
	}
	return i, nil
}

func (a *app) run(ctx context.Context) error {
	img, err := vm.Load(a.cfg.Program)
	if err != nil {
		return err
	}
	a.logger.Debug("loaded", zap.String("program", a.cfg.Program), zap.Int("cells", len(img)))
	if a.cfg.Disasm {
		return asm.DisassembleAll(img, 0, a.stdout)
	}
	if a.cfg.Network > 0 {
		return a.runNetwork(ctx, img)
	}

	i, err := a.newInstance(img)
	if err != nil {
		return err
	}
	if a.cfg.ASCII {
		err = a.runASCII(i)
	} else {
		err = a.runPlain(i)
	}
	if a.cfg.Dump {
		if derr := ascii.Dump(i, a.stdout); err == nil {
			err = derr
		}
	}
	return err
}

// runPlain runs the program once and prints its output as comma separated
// values.
func (a *app) runPlain(i *vm.Instance) error {
	st, err := i.Run()
	if out := i.Drain(); len(out) > 0 {
		vm.Image(out).WriteTo(a.stdout)
		io.WriteString(a.stdout, "\n")
	}
	a.logger.Debug("run", zap.Stringer("state", st), zap.Int64("instructions", i.InstructionCount()))
	if err != nil {
		return err
	}
	if st == vm.Blocked {
		return errors.Wrapf(errBlocked, "@pc=%d", i.PC)
	}
	return nil
}

func (a *app) runASCII(i *vm.Instance) error {
	opts := []ascii.Option{ascii.Logger(a.logger)}
	if a.raw {
		opts = append(opts, ascii.Keystroke(a.stdout))
	}
	s, err := ascii.NewSession(i, a.stdin, a.stdout, opts...)
	if err != nil {
		return err
	}
	if err = s.Run(); errors.Cause(err) == io.EOF {
		err = nil
	}
	return err
}

// runNetwork boots a network of nodes and prints packets sent to the monitor
// address. Unless NAT mode is enabled, it stops at the first such packet.
func (a *app) runNetwork(ctx context.Context, img vm.Image) error {
	pokes, err := a.cfg.Set.pokes()
	if err != nil {
		return err
	}
	img = append(vm.Image(nil), img...)
	for _, p := range pokes {
		img.Write(p.addr, p.v)
	}

	var (
		last      *network.Packet
		delivered bool
		lastY     vm.Cell
	)
	opts := []network.Option{
		network.Logger(a.logger),
		network.Unrouted(func(p network.Packet) error {
			if p.To != a.cfg.Monitor {
				a.logger.Warn("dropped packet", zap.Int("from", p.From), zap.Int("to", p.To))
				return nil
			}
			fmt.Fprintf(a.stdout, "%d: %v\n", p.From, vm.Image(p.Data))
			if !a.cfg.NAT {
				return network.ErrStop
			}
			last = &p
			return nil
		}),
	}
	var onIdle func(nw *network.Network) (bool, error)
	if a.cfg.NAT {
		onIdle = func(nw *network.Network) (bool, error) {
			if last == nil || len(last.Data) == 0 {
				return false, nil
			}
			y := last.Data[len(last.Data)-1]
			if delivered && y == lastY {
				fmt.Fprintf(a.stdout, "nat: %d delivered twice\n", y)
				return true, nil
			}
			delivered, lastY = true, y
			return false, nw.Send(network.Packet{From: a.cfg.Monitor, To: 0, Data: last.Data})
		}
	}

	nw, err := network.New(img, a.cfg.Network, opts...)
	if err != nil {
		return err
	}
	return nw.Run(ctx, a.cfg.Rounds, onIdle)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

func atExit(debug bool, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	}
	if errors.Cause(err) == errBlocked {
		os.Exit(2)
	}
	os.Exit(1)
}

// flushWriter flushes after every write.
type flushWriter struct {
	*bufio.Writer
}

func (w flushWriter) Write(p []byte) (int, error) {
	n, err := w.Writer.Write(p)
	if err == nil {
		err = w.Flush()
	}
	return n, err
}

func start(debug *bool) error {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	*debug = cfg.Debug
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	stdout := bufio.NewWriter(os.Stdout)
	a := &app{
		cfg:    cfg,
		stdin:  os.Stdin,
		stdout: stdout,
		stderr: os.Stderr,
		logger: logger,
	}

	// in ASCII mode, try to switch the input terminal to raw mode.
	if cfg.ASCII && !cfg.NoRaw && isatty.IsTerminal(os.Stdin.Fd()) {
		tearDown, err := setRawIO()
		if err != nil {
			logger.Warn("raw IO unavailable", zap.Error(err))
		} else {
			defer tearDown()
			a.raw = true
			a.stdout = flushWriter{stdout}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = a.run(ctx)
	if ferr := stdout.Flush(); err == nil {
		err = ferr
	}
	return err
}

func main() {
	var debug bool
	err := start(&debug)
	atExit(debug, err)
}
