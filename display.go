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
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cybrota/avlmem/avl"
	"github.com/cybrota/avlmem/engine"
	"github.com/dustin/go-humanize"
)

func printEntries(w io.Writer, entries []avl.Entry[string, []byte]) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s%s\t%s\n", Info, e.Key, Reset, e.Value)
	}
	fmt.Fprintf(w, "(%s entries)\n", humanize.Comma(int64(len(entries))))
}

func printStats(w io.Writer, s engine.Stats) {
	fmt.Fprintf(w, "%smemtable%s  %s keys, height %d, flush at %s\n",
		Green, Reset, humanize.Comma(int64(s.MemKeys)), s.MemHeight, humanize.Comma(int64(s.Threshold)))
	fmt.Fprintf(w, "%ssegments%s  %d files, %s keys, %s\n",
		Green, Reset, s.Segments, humanize.Comma(int64(s.SegmentKeys)), humanize.Bytes(uint64(s.SegmentBytes)))
	fmt.Fprintf(w, "%sflushes%s   %d this session\n", Green, Reset, s.Flushes)
}

func printSegments(w io.Writer, segs []engine.SegmentInfo) {
	if len(segs) == 0 {
		fmt.Fprintln(w, "(no segments)")
		return
	}
	now := time.Now()
	for _, seg := range segs {
		fmt.Fprintf(w, "%s%s%s  %8s keys  %9s  %s (%s)\n",
			Green, filepath.Base(seg.Path), Reset,
			humanize.Comma(int64(seg.Keys)),
			humanize.Bytes(uint64(seg.Bytes)),
			FormatTimestamp(seg.Created),
			describeAge(seg.Created, now))
	}
}

// statsMarkdown renders engine counters as a markdown table.
func statsMarkdown(s engine.Stats) string {
	var b strings.Builder
	b.WriteString("## Engine\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| memtable keys | %s |\n", humanize.Comma(int64(s.MemKeys)))
	fmt.Fprintf(&b, "| memtable height | %d |\n", s.MemHeight)
	fmt.Fprintf(&b, "| flush threshold | %s |\n", humanize.Comma(int64(s.Threshold)))
	fmt.Fprintf(&b, "| segments | %d |\n", s.Segments)
	fmt.Fprintf(&b, "| segment keys | %s |\n", humanize.Comma(int64(s.SegmentKeys)))
	fmt.Fprintf(&b, "| on disk | %s |\n", humanize.Bytes(uint64(s.SegmentBytes)))
	fmt.Fprintf(&b, "| flushes | %d |\n", s.Flushes)
	return b.String()
}
