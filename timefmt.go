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
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

/*
	Formats understood by Translate:

	YYYY - year (2006)     MM - month (01)    MMM - month (Jan)
	DD   - day (02)        DDD - day (Mon)
	hh   - hours (15)      mm - minutes (04)  ss - seconds (05)
	ZZZ  - zone (MST)
*/

type placeholder struct{ find, subst string }

// Longer tokens come first so "MMM" is not consumed as "MM" + "M".
var placeholders = []placeholder{
	{"hh", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"ZZZ", "MST"},
	{"YYYY", "2006"},
	{"DDD", "Mon"},
	{"DD", "02"},
}

const DefaultTimestampFormat = "YYYY-MM-DD hh:mm:ss"

// Translate converts a memorable format to the time package's layout.
func Translate(format string) string {
	out := format
	for _, ph := range placeholders {
		out = strings.Replace(out, ph.find, ph.subst, -1)
	}
	return out
}

// FormatTimestamp renders t in DefaultTimestampFormat.
func FormatTimestamp(t time.Time) string {
	return t.Format(Translate(DefaultTimestampFormat))
}

// describeAge renders how long before now t happened, e.g. "3 minutes ago".
func describeAge(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
