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
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TerminalMode int

const (
	TerminalModeUnknown TerminalMode = iota
	TerminalModeLight
	TerminalModeDark
)

var (
	detectedMode TerminalMode

	// ANSI color codes for plain terminal output, set by InitializeColors
	Green, Info, Warning, Error, Reset string
)

// detectTerminalMode attempts to detect whether the terminal is in light or dark mode
func detectTerminalMode() TerminalMode {
	// Check environment variables that might indicate the theme
	if colorScheme := os.Getenv("COLORFGBG"); colorScheme != "" {
		// COLORFGBG format is typically "foreground;background"
		parts := strings.Split(colorScheme, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			if bg == "0" || bg == "8" || bg == "16" {
				return TerminalModeDark
			} else if bg == "15" || bg == "7" || bg == "255" {
				return TerminalModeLight
			}
		}
	}

	for _, env := range []string{"TERM_THEME", "THEME"} {
		if theme := os.Getenv(env); theme != "" {
			theme = strings.ToLower(theme)
			if strings.Contains(theme, "dark") {
				return TerminalModeDark
			} else if strings.Contains(theme, "light") {
				return TerminalModeLight
			}
		}
	}

	// Default to dark mode as it's more common in terminals
	return TerminalModeDark
}

// GetANSIColors returns escape codes suited to the detected mode.
func GetANSIColors() (success, info, warning, error, reset string) {
	// For light mode terminals, use darker colors for better contrast
	if detectedMode == TerminalModeLight {
		success = "\033[32m" // Green
		info = "\033[34m"    // Blue
		warning = "\033[33m" // Yellow
		error = "\033[31m"   // Red
	} else {
		success = "\033[92m" // Bright Green
		info = "\033[96m"    // Bright Cyan
		warning = "\033[93m" // Bright Yellow
		error = "\033[91m"   // Bright Red
	}

	reset = "\033[0m"
	return
}

// Styles holds the lipgloss styles used by table output and the inspector.
type Styles struct {
	BorderFocused lipgloss.Style
	BorderBlurred lipgloss.Style
	Title         lipgloss.Style
	Key           lipgloss.Style
	Value         lipgloss.Style
	Muted         lipgloss.Style
	ErrorMessage  lipgloss.Style
}

func NewStyles(mode TerminalMode) *Styles {
	accent, key, muted := lipgloss.Color("39"), lipgloss.Color("205"), lipgloss.Color("243")
	if mode == TerminalModeLight {
		accent, key, muted = lipgloss.Color("4"), lipgloss.Color("5"), lipgloss.Color("240")
	}

	return &Styles{
		BorderFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		BorderBlurred: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		Title: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Key: lipgloss.NewStyle().
			Foreground(key),
		Value: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		ErrorMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
}

// InitializeColors detects terminal mode and sets the ANSI codes.
func InitializeColors() {
	detectedMode = detectTerminalMode()
	Green, Info, Warning, Error, Reset = GetANSIColors()
}
