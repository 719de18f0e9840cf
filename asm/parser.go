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

package asm

import (
	"io"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/mpyle101/aoc-sub001/vm"
)

const maxErrors = 10

// Error is a single assembly error.
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrAsm wraps the errors returned by Assemble.
type ErrAsm []*Error

func (e ErrAsm) Error() string {
	var b strings.Builder
	for n, err := range e {
		if n > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

func isIdentRune(ch rune, i int) bool {
	return unicode.IsLetter(ch) || unicode.IsSymbol(ch) || unicode.IsPunct(ch) || unicode.IsDigit(ch)
}

type labelSite struct {
	pos     scanner.Position
	address int
}

type label struct {
	labelSite
	uses []labelSite
}

type parser struct {
	i      []vm.Cell
	pc     int
	size   int
	s      scanner.Scanner
	labels map[string]*label
	errs   ErrAsm
}

func newParser() *parser {
	p := new(parser)
	p.labels = make(map[string]*label)
	return p
}

func (p *parser) error(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, &Error{pos, msg})
	}
}

func (p *parser) write(v vm.Cell) {
	for p.pc >= len(p.i) {
		p.i = append(p.i, make([]vm.Cell, 1024)...)
	}
	p.i[p.pc] = v
	p.pc++
	if p.pc > p.size {
		p.size = p.pc
	}
}

func (p *parser) useLabel(name string, pos scanner.Position) {
	lbl := p.labels[name]
	if lbl == nil {
		lbl = &label{
			// use current position as valid temp position
			labelSite{pos, -1},
			nil,
		}
		p.labels[name] = lbl
	}
	lbl.uses = append(lbl.uses, labelSite{pos, p.pc})
}

func (p *parser) defLabel(name string, pos scanner.Position) {
	if len(name) == 0 {
		p.error(pos, "Empty label name")
		return
	}
	if l, ok := p.labels[name]; ok {
		if l.address != -1 {
			p.error(pos, "Label redefinition: "+name+", previous definition here: "+l.pos.String())
			return
		}
		l.address = p.pc
		l.pos = pos
		return
	}
	p.labels[name] = &label{labelSite{pos, p.pc}, nil}
}

// number converts s to an integer. s can be any Go integer literal or a Go
// character literal between single quotes.
func number(s string) (vm.Cell, bool, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return vm.Cell(n), true, nil
	}
	if len(s) > 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		r, _, _, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
		if err != nil {
			return 0, false, err
		}
		return vm.Cell(r), true, nil
	}
	return 0, false, nil
}

// value writes an integer, character or label reference.
func (p *parser) value(s string, pos scanner.Position) {
	n, ok, err := number(s)
	switch {
	case err != nil:
		p.error(pos, "Invalid character literal "+s+": "+err.Error())
		p.write(0)
	case ok:
		p.write(n)
	case s == "":
		p.error(pos, "Missing operand value")
		p.write(0)
	case s[0] == ':' || s[0] == '.':
		p.error(pos, "Unexpected token as operand: "+s)
		p.write(0)
	default:
		p.useLabel(s, pos)
		p.write(0)
	}
}

// operand writes the k-th operand of the instruction at address ins.
func (p *parser) operand(s string, pos scanner.Position, ins, k int) {
	var m vm.Mode
	switch {
	case strings.HasPrefix(s, "#"):
		m, s = vm.Immediate, s[1:]
	case strings.HasPrefix(s, "~"):
		m, s = vm.Relative, s[1:]
	}
	if m != vm.Position {
		mul := vm.Cell(100)
		for j := 1; j < k; j++ {
			mul *= 10
		}
		p.i[ins] += vm.Cell(m) * mul
	}
	p.value(s, pos)
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) error {
	var (
		args  int              // operands left for the current instruction
		k     int              // index of the next operand
		ins   int              // address of the current instruction
		insAt scanner.Position // position of the current instruction
		dir   string           // pending directive
	)

	p.s.Init(r)
	p.s.Error = func(s *scanner.Scanner, msg string) {
		pos := s.Position
		if !pos.IsValid() {
			pos = s.Pos()
		}
		p.error(pos, msg)
	}
	p.s.IsIdentRune = isIdentRune
	p.s.Mode = scanner.ScanIdents
	p.s.Filename = name

	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		s := p.s.TokenText()
		pos := p.s.Position
		if tok != scanner.Ident {
			p.error(pos, "Unexpected character "+strconv.QuoteRune(tok))
			continue
		}
		if s == "(" {
			// skip comments
			for ; tok != scanner.EOF && (tok != scanner.Ident || p.s.TokenText() != ")"); tok = p.s.Scan() {
			}
			if tok == scanner.EOF {
				p.error(pos, "Unterminated comment")
				break
			}
			continue
		}
		switch {
		case dir == ".org":
			dir = ""
			n, ok, err := number(s)
			if err != nil || !ok || n < 0 {
				p.error(pos, ".org: expected address, got "+s)
				continue
			}
			p.pc = int(n)
		case dir == ".dat":
			dir = ""
			p.value(s, pos)
		case args > 0:
			k++
			args--
			p.operand(s, pos, ins, k)
		case s[0] == ':':
			p.defLabel(s[1:], pos)
		case s == ".org" || s == ".dat":
			dir = s
		case s[0] == '.':
			p.error(pos, "Unknown dot directive: "+s)
		default:
			if op, ok := opcodeIndex[s]; ok {
				ins, insAt = p.pc, pos
				p.write(op)
				args, _ = vm.ParamCount(op)
				k = 0
				continue
			}
			// implicit .dat for numbers
			if _, ok, _ := number(s); ok {
				p.value(s, pos)
				continue
			}
			p.error(pos, "Unknown instruction: "+s)
		}
	}
	if args > 0 {
		p.error(insAt, "Missing operand for "+opcodes[p.i[ins]%100][0])
	}
	if dir != "" {
		p.error(p.s.Pos(), dir+": missing argument")
	}

	// write labels
	for n, l := range p.labels {
		if l.address == -1 {
			p.error(l.uses[0].pos, "Undefined label "+n)
			continue
		}
		for _, u := range l.uses {
			p.i[u.address] = vm.Cell(l.address)
		}
	}

	if len(p.errs) > 0 {
		return p.errs
	}
	return nil
}
