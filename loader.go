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
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// Putter is the part of the engine the loader needs.
type Putter interface {
	Put(key string, value []byte) error
}

// LoadResult summarises a load.
type LoadResult struct {
	Lines   int
	Loaded  int
	Skipped int
}

// parseRecord splits a "key value" line. Blank lines and # comments yield
// ok == false.
func parseRecord(line string) (key, value string, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}

	parts, err := splitCommand(trimmed)
	if err != nil {
		return "", "", false, err
	}
	if len(parts) != 2 {
		return "", "", false, fmt.Errorf("expected key and value, got %d fields", len(parts))
	}
	return parts[0], parts[1], true, nil
}

// loadRecords reads records from r into dst. Malformed lines are logged
// and skipped; an engine error aborts the load.
func loadRecords(r io.Reader, dst Putter, bar *progressbar.ProgressBar) (LoadResult, error) {
	var res LoadResult

	scanner := bufio.NewScanner(r)
	// Increase buffer size for large values
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		res.Lines++

		key, value, ok, err := parseRecord(scanner.Text())
		if err != nil {
			log.Printf("Warning: skipping line %d: %v", res.Lines, err)
			res.Skipped++
			continue
		}
		if !ok {
			continue
		}

		if err := dst.Put(key, []byte(value)); err != nil {
			return res, fmt.Errorf("failed to store line %d: %v", res.Lines, err)
		}
		res.Loaded++

		if bar != nil {
			bar.Add(1)
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("failed to read input: %v", err)
	}
	return res, nil
}

func newLoadProgressBar() *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("📥 Loading records..."),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintf(os.Stderr, "\n✅ Loading completed!\n")
		}),
	)
}

// loadFile loads path ("-" for stdin) into dst.
func loadFile(path string, dst Putter, showProgress bool) (LoadResult, error) {
	var in io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return LoadResult{}, fmt.Errorf("input file %s not found", path)
			}
			return LoadResult{}, err
		}
		defer file.Close()
		in = file
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = newLoadProgressBar()
	}

	res, err := loadRecords(in, dst, bar)
	if bar != nil {
		bar.Finish()
	}
	return res, err
}
