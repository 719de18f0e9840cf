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
	"flag"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mpyle101/aoc-sub001/vm"
	"github.com/pkg/errors"
)

// cellList is a flag.Value accumulating comma separated values.
type cellList []vm.Cell

func (l *cellList) String() string { return vm.Image(*l).String() }
func (l *cellList) Set(s string) error {
	img, err := vm.Parse(s)
	if err != nil {
		return err
	}
	*l = append(*l, img...)
	return nil
}
func (l *cellList) Get() interface{} { return *l }

// poke is a memory write requested with -set.
type poke struct {
	addr int
	v    vm.Cell
}

func parsePoke(s string) (poke, error) {
	a, v, ok := strings.Cut(s, "=")
	if !ok {
		return poke{}, errors.Errorf("invalid poke %q: expected addr=value", s)
	}
	addr, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil || addr < 0 || addr >= vm.DefaultMaxMem {
		return poke{}, errors.Errorf("invalid poke %q: bad address", s)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return poke{}, errors.Errorf("invalid poke %q: bad value", s)
	}
	return poke{addr, vm.Cell(n)}, nil
}

// pokeList is a flag.Value accumulating addr=value pairs.
type pokeList []string

func (l *pokeList) String() string { return strings.Join(*l, " ") }
func (l *pokeList) Set(s string) error {
	if _, err := parsePoke(s); err != nil {
		return err
	}
	*l = append(*l, s)
	return nil
}
func (l *pokeList) Get() interface{} { return *l }

func (l pokeList) pokes() ([]poke, error) {
	ps := make([]poke, 0, len(l))
	for _, s := range l {
		p, err := parsePoke(s)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

// config holds the command line settings. Any of them can also be set from a
// TOML file with -config, in which case command line flags take precedence.
type config struct {
	ConfigFile string   `toml:"-"`
	Program    string   `toml:"program"`
	Input      cellList `toml:"input"`
	Set        pokeList `toml:"set"`
	ASCII      bool     `toml:"ascii"`
	NoRaw      bool     `toml:"noraw"`
	Network    int      `toml:"network"`
	Monitor    int      `toml:"monitor"`
	NAT        bool     `toml:"nat"`
	Rounds     int      `toml:"rounds"`
	Disasm     bool     `toml:"disasm"`
	Trace      bool     `toml:"trace"`
	Dump       bool     `toml:"dump"`
	Debug      bool     `toml:"debug"`
}

func defaultConfig() *config {
	return &config{Monitor: 255}
}

func (c *config) flagSet(output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("intcode", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		io.WriteString(output, "usage: intcode [flags] program.txt\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&c.ConfigFile, "config", "", "load settings from TOML file `filename`")
	fs.Var(&c.Input, "input", "comma separated `values` to send as input (can be specified multiple times)")
	fs.Var(&c.Set, "set", "write `addr=value` to memory before running (can be specified multiple times)")
	fs.BoolVar(&c.ASCII, "ascii", c.ASCII, "run as an interactive ASCII program")
	fs.BoolVar(&c.NoRaw, "noraw", c.NoRaw, "disable raw terminal IO in ASCII mode")
	fs.IntVar(&c.Network, "network", c.Network, "run a network of `N` nodes")
	fs.IntVar(&c.Monitor, "monitor", c.Monitor, "network monitor `address`")
	fs.BoolVar(&c.NAT, "nat", c.NAT, "redeliver the last monitor packet to node 0 when the network is idle")
	fs.IntVar(&c.Rounds, "rounds", c.Rounds, "network round budget, 0 for no limit")
	fs.BoolVar(&c.Disasm, "disasm", c.Disasm, "disassemble the program and exit")
	fs.BoolVar(&c.Trace, "trace", c.Trace, "disassemble executed instructions to stderr")
	fs.BoolVar(&c.Dump, "dump", c.Dump, "dump VM state upon exit")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "enable debug diagnostics")
	return fs
}

// parseArgs parses the command line arguments, loading the config file first
// if one is given.
func parseArgs(args []string, output io.Writer) (*config, error) {
	c := defaultConfig()
	fs := c.flagSet(output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.ConfigFile != "" {
		fc := defaultConfig()
		if _, err := toml.DecodeFile(c.ConfigFile, fc); err != nil {
			return nil, errors.Wrap(err, "config")
		}
		if _, err := fc.Set.pokes(); err != nil {
			return nil, errors.Wrap(err, "config")
		}
		// command line wins, list flags replace the file's lists
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "input":
				fc.Input = nil
			case "set":
				fc.Set = nil
			}
		})
		fs = fc.flagSet(output)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		c = fc
	}
	switch fs.NArg() {
	case 0:
		if c.Program == "" {
			return nil, errors.New("no program file")
		}
	case 1:
		c.Program = fs.Arg(0)
	default:
		return nil, errors.Errorf("too many arguments: %v", fs.Args()[1:])
	}
	if c.Network < 0 {
		return nil, errors.Errorf("invalid network size %d", c.Network)
	}
	if c.Network > 0 {
		// nodes get their input from the network
		switch {
		case len(c.Input) > 0:
			return nil, errors.New("-input cannot be used with -network")
		case c.Trace:
			return nil, errors.New("-trace cannot be used with -network")
		case c.ASCII:
			return nil, errors.New("-ascii cannot be used with -network")
		}
	}
	return c, nil
}
