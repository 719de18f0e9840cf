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

// Package asm provides utility functions to assemble and disassemble Intcode
// VM code.
//
// Supported assembler mnemonics:
//
//	opcode	asm		params	description
//	------	---		------	--------------------------------------------------
//	1	add		a b dst	dst = a + b
//	2	mul		a b dst	dst = a * b
//	3	in		dst	dst = next value from the input queue
//	4	out		a	push a to the output queue
//	5	jnz, jt		a b	jump to b if a != 0
//	6	jz, jf		a b	jump to b if a == 0
//	7	lt		a b dst	dst = 1 if a < b, 0 otherwise
//	8	eq		a b dst	dst = 1 if a == b, 0 otherwise
//	9	arb, rb		a	add a to the relative base
//	99	hlt, halt		halt
//
// Operands:
//
// An operand is an integer literal, a character literal or a label, optionally
// prefixed with a mode specifier:
//
//	42	position mode: the operand is the value at address 42
//	#42	immediate mode: the operand is 42
//	~42	relative mode: the operand is the value at address base+42
//
// The assembler takes care of encoding the parameter modes in the instruction
// word. For example:
//
//	add #1 ~-2 counter	( compiles as 2101,1,-2,<address of counter> )
//
// Integer literals are anything strconv.ParseInt accepts with a base of 0.
// Character literals are Go character literals between single quotes and are
// converted to their code point. Since the input is split at white space, use
// 32 instead of ' '.
//
// Comments:
//
// Comments are placed between parentheses, i.e. '(' and ')'. The body of the
// comment must be separated from the enclosing parentheses by a space:
//
//	( this is a valid comment )
//	(this will be seen by the parser as an instruction named "(this" )
//
// Labels:
//
// Labels are defined by prefixing them with a colon (:) and can be used as
// operand in place of any integer value. Forward references are ok. Used as a
// position mode operand, a label names a variable; used as an immediate operand,
// it yields the label's address, as for jump targets:
//
//	:loop	in counter
//		jnz counter #loop
//		hlt
//	:counter .dat 0
//
// Assembler directives:
//
//	.dat <value>
//
// Will compile the specified integer value, character literal or label address
// as-is. Where the parser is expecting an instruction, integer literals are
// compiled with an implicit .dat, so that a plain comma-less list of numbers
// assembles to itself.
//
//	.org <value>
//
// Will place the next instruction at the address specified by the given
// integer literal.
package asm
