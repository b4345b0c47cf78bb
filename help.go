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
	"runtime"

	markdown "github.com/MichaelMure/go-term-markdown"
)

func getHelpMessage() string {
	message := fmt.Sprintf(`

 **avlmem %s**

An AVL-tree memtable with a tiny segment store around it. Writes are buffered
in a balanced tree and written out as sorted segment files once the buffer
reaches the flush threshold.

Built with Go %s

# 1. Commands
* **load FILE** reads "key value" lines (shell quoting allowed, # for comments)
* **get KEY** prints a value, --copy puts it on the clipboard
* **scan**, **dump** print entries in ascending key order
* **segments**, **stats** describe what is on disk and in memory
* **shell** opens an interactive prompt (put, get, scan, prefix, flush, stats)
* **inspect** browses entries by prefix in a terminal UI

# 2. Configuration
Settings live in ~/.avlmem.yaml. Run **avlmem settings** to create it.
* engine.data_dir, engine.flush_threshold
* bloom.bits, bloom.hashes (0 sizes the filter per segment)
* cache.expiration, cache.cleanup
* log.level (debug, info, warn, error, off)

# Please be aware
* Data still in the memtable is written out when a command exits cleanly.
  Nothing is logged ahead of time, a crash loses unflushed writes.
* Copy to clipboard on Linux or Unix requires 'xclip' or 'xsel'

# License
Licensed under the Apache License, Version 2.0

`, version, runtime.Version())
	result := markdown.Render(string(message), 80, 3)
	return string(result)
}
