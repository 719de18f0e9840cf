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

package ascii

import (
	"bufio"
	"io"

	"github.com/mpyle101/aoc-sub001/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const eot = 4

// Session runs an ASCII program interactively: program output is written to an
// io.Writer and, whenever the program blocks on input, input is read from an
// io.Reader.
type Session struct {
	i      *vm.Instance
	r      *bufio.Reader
	w      io.Writer
	echo   io.Writer
	keys   bool
	logger *zap.Logger
}

// Option interface
type Option func(*Session) error

// Keystroke switches the session to keystroke mode: every time the program
// blocks, a single rune is read and sent to the program. Carriage returns are
// sent as line feeds and CTRL-D ends the session. If echo is not nil, the
// runes read are echoed to it, as is needed when the terminal is in raw mode.
//
// In the default line mode, a full line is read and sent, terminated by a line
// feed.
func Keystroke(echo io.Writer) Option {
	return func(s *Session) error {
		s.keys = true
		s.echo = echo
		return nil
	}
}

// Script queues the given lines as program input before any input is read.
// Each line is terminated with a line feed.
func Script(lines ...string) Option {
	return func(s *Session) error {
		for _, l := range lines {
			s.i.Push(Encode(l + "\n")...)
		}
		return nil
	}
}

// Logger sets the logger. The default is zap.L().
func Logger(l *zap.Logger) Option {
	return func(s *Session) error {
		if l == nil {
			return errors.New("nil logger")
		}
		s.logger = l
		return nil
	}
}

// NewSession returns a new session for the given instance.
func NewSession(i *vm.Instance, r io.Reader, w io.Writer, opts ...Option) (*Session, error) {
	s := &Session{
		i:      i,
		r:      bufio.NewReader(r),
		w:      w,
		logger: zap.L(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.Named("ascii")
	return s, nil
}

// Run runs the program until it halts. It returns io.EOF if the input reader
// reaches EOF while the program is waiting for input. Any VM error is returned
// as is.
func (s *Session) Run() error {
	for {
		st, err := s.i.Run()
		if werr := Write(s.w, s.i.Drain()); werr != nil && err == nil {
			err = werr
		}
		if err != nil {
			return err
		}
		if st == vm.Halted {
			s.logger.Debug("halted", zap.Int64("instructions", s.i.InstructionCount()))
			return nil
		}
		in, err := s.read()
		if err != nil {
			s.logger.Debug("input closed", zap.Error(err))
			return err
		}
		s.logger.Debug("input", zap.String("text", in))
		s.i.Push(Encode(in)...)
	}
}

func (s *Session) read() (string, error) {
	if s.keys {
		r, _, err := s.r.ReadRune()
		if err != nil {
			return "", err
		}
		// in raw tty mode, we need to handle CTRL-D ourselves
		if r == eot {
			return "", io.EOF
		}
		if r == '\r' {
			r = '\n'
		}
		if r > MaxChar {
			r = '?'
		}
		if s.echo != nil {
			if _, err = io.WriteString(s.echo, string(r)); err != nil {
				return "", errors.Wrap(err, "echo failed")
			}
		}
		return string(r), nil
	}
	line, err := s.r.ReadString('\n')
	if len(line) == 0 {
		return "", err
	}
	if line[len(line)-1] != '\n' {
		line += "\n"
	}
	if n := len(line); n > 1 && line[n-2] == '\r' {
		line = line[:n-2] + "\n"
	}
	return line, nil
}
