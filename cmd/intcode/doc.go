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

// The intcode command line tool loads an Intcode program and runs it.
//
// Usage:
//
//	intcode [flags] program.txt
//
//	-ascii
//		  run as an interactive ASCII program
//	-config filename
//		  load settings from TOML file filename
//	-debug
//		  enable debug diagnostics
//	-disasm
//		  disassemble the program and exit
//	-dump
//		  dump VM state upon exit
//	-input values
//		  comma separated values to send as input (can be specified multiple times)
//	-monitor address
//		  network monitor address (default 255)
//	-nat
//		  redeliver the last monitor packet to node 0 when the network is idle
//	-network N
//		  run a network of N nodes
//	-noraw
//		  disable raw terminal IO in ASCII mode
//	-rounds int
//		  network round budget, 0 for no limit
//	-set addr=value
//		  write addr=value to memory before running (can be specified multiple times)
//	-trace
//		  disassemble executed instructions to stderr
//
// By default, the program is run with the values given by -input and its
// output is printed as comma separated values. If the program blocks waiting
// for more input, intcode reports it and exits with status 2.
//
// -ascii: program output is printed as text, values outside of the ASCII range
// being printed as decimal numbers on their own line. Whenever the program
// waits for input, a line is read from stdin. If stdin is a terminal, it is
// switched to raw mode and keys are sent as they are typed; CTRL-D ends the
// session. The -noraw flag disables raw mode.
//
// -network: boots N copies of the program, each receiving its node id as
// first input, and routes the 3 value packets (address, X, Y) they send.
// Nodes waiting for input with no packet queued receive -1. Packets sent to the
// -monitor address are printed and the first one stops the network. With -nat,
// the last monitor packet is instead sent to node 0 whenever the network is
// idle, until the same Y value is delivered twice in a row. -rounds limits the
// number of scheduling rounds. Nodes only receive input from the network, so
// -input, -trace and -ascii are rejected in network mode.
//
// -dump: after the program stops, prints the VM state on one line and the
// memory image in program text format on the next.
//
// -config: settings can be read from a TOML file, using the flag names as
// keys. Flags given on the command line override the file; a repeatable flag
// (-input, -set) given on the command line replaces the file's list:
//
//	program = "day23.txt"
//	network = 50
//	nat = true
//	rounds = 100000
//	set = ["0=2"]
//	input = [1, 2]
package main
