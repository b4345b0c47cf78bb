// Copyright 2025 Naren Yellavula
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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cybrota/avlmem/engine"
	"github.com/mattn/go-shellwords"
)

const shellPrompt = "avlmem> "

var errExit = errors.New("exit")

const shellHelp = `commands:
  put KEY VALUE      store a value (quote values with spaces)
  get KEY            print a value
  scan [FROM [TO]]   list entries with FROM <= key < TO
  prefix PREFIX      list entries whose key starts with PREFIX
  flush              write the memtable out as a segment
  stats              show memtable and segment counters
  segments           list segment files
  help               show this message
  exit, quit         leave the shell
`

// splitCommand splits a line into words with shell quoting rules.
func splitCommand(line string) ([]string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %v", line, err)
	}
	return args, nil
}

// Shell is a line-oriented prompt over an engine.
type Shell struct {
	eng *engine.Engine
	in  io.Reader
	out io.Writer
}

func NewShell(eng *engine.Engine, in io.Reader, out io.Writer) *Shell {
	return &Shell{eng: eng, in: in, out: out}
}

// Run reads commands until exit or end of input. Command errors are
// printed and the loop continues.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprint(s.out, shellPrompt)
	for scanner.Scan() {
		err := s.exec(scanner.Text())
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "%serror:%s %v\n", Error, Reset, err)
		}
		fmt.Fprint(s.out, shellPrompt)
	}
	fmt.Fprintln(s.out)
	return scanner.Err()
}

func (s *Shell) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	args, err := splitCommand(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "put", "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: put KEY VALUE")
		}
		if err := s.eng.Put(args[0], []byte(args[1])); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "OK")

	case "get":
		if len(args) != 1 {
			return fmt.Errorf("usage: get KEY")
		}
		v, ok := s.eng.Get(args[0])
		if !ok {
			fmt.Fprintln(s.out, "(not found)")
			return nil
		}
		fmt.Fprintln(s.out, string(v))

	case "scan":
		if len(args) > 2 {
			return fmt.Errorf("usage: scan [FROM [TO]]")
		}
		var from, to string
		if len(args) > 0 {
			from = args[0]
		}
		if len(args) > 1 {
			to = args[1]
		}
		printEntries(s.out, s.eng.Scan(from, to))

	case "prefix":
		if len(args) != 1 {
			return fmt.Errorf("usage: prefix PREFIX")
		}
		printEntries(s.out, s.eng.ScanPrefix(args[0]))

	case "flush":
		before := s.eng.Stats().MemKeys
		if err := s.eng.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "flushed %d keys\n", before)

	case "stats":
		printStats(s.out, s.eng.Stats())

	case "segments":
		printSegments(s.out, s.eng.Segments())

	case "help", "?":
		fmt.Fprint(s.out, shellHelp)

	case "exit", "quit":
		return errExit

	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}
