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
	"log"
	"os"

	"github.com/atotto/clipboard"
	"github.com/cybrota/avlmem/engine"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	dataDirFlag   string
	thresholdFlag int
)

// openEngine loads the config, applies flag overrides and opens the store.
// Errors are fatal.
func openEngine() *engine.Engine {
	config, err := LoadConfig(configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v. Using default settings.", err)
	}
	if dataDirFlag != "" {
		config.Engine.DataDir = expandHome(dataDirFlag)
	}
	if thresholdFlag > 0 {
		config.Engine.FlushThreshold = thresholdFlag
	}

	logger, err := engine.NewLogger(config.Log.Level)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}

	opts := config.EngineOptions()
	opts.Logger = logger
	eng, err := engine.Open(opts)
	if err != nil {
		log.Fatalf("Error opening data directory: %v", err)
	}
	return eng
}

func closeEngine(eng *engine.Engine) {
	if err := eng.Close(); err != nil {
		log.Fatalf("Error flushing memtable: %v", err)
	}
}

func main() {
	InitializeColors()

	asciiLogo := `
 █████╗ ██╗   ██╗██╗     ███╗   ███╗███████╗███╗   ███╗
██╔══██╗██║   ██║██║     ████╗ ████║██╔════╝████╗ ████║
███████║██║   ██║██║     ██╔████╔██║█████╗  ██╔████╔██║
██╔══██║╚██╗ ██╔╝██║     ██║╚██╔╝██║██╔══╝  ██║╚██╔╝██║
██║  ██║ ╚████╔╝ ███████╗██║ ╚═╝ ██║███████╗██║ ╚═╝ ██║
╚═╝  ╚═╝  ╚═══╝  ╚══════╝╚═╝     ╚═╝╚══════╝╚═╝     ╚═╝
AVL-tree memtable with sorted segment files [Version: %s%s%s]

`

	asciiLogo = fmt.Sprintf(asciiLogo, Green, version, Reset)

	var cmdLoad = &cobra.Command{
		Use:   "load FILE",
		Short: "Load \"key value\" lines from a file (- for stdin)",
		Long:  fmt.Sprintf("%s\n%s", asciiLogo, `Load reads one record per line, splitting key and value with shell quoting rules`),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			eng := openEngine()
			defer closeEngine(eng)

			quiet, _ := cmd.Flags().GetBool("quiet")
			res, err := loadFile(args[0], eng, !quiet)
			if err != nil {
				log.Printf("Error loading %s: %v", args[0], err)
			}
			fmt.Printf("Loaded %s%d%s records from %d lines (%d skipped)\n", Green, res.Loaded, Reset, res.Lines, res.Skipped)
		},
	}
	cmdLoad.Flags().BoolP("quiet", "q", false, "hide the progress bar")

	var cmdGet = &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under KEY",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			eng := openEngine()
			defer closeEngine(eng)

			v, ok := eng.Get(args[0])
			if !ok {
				fmt.Fprintf(os.Stderr, "%skey %q not found%s\n", Warning, args[0], Reset)
				return
			}
			fmt.Println(string(v))

			if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
				if err := clipboard.WriteAll(string(v)); err != nil {
					log.Printf("Failed to copy to clipboard: %v", err)
					return
				}
				fmt.Fprintf(os.Stderr, "📋 Copied value of %s%s%s to clipboard.\n", Green, args[0], Reset)
			}
		},
	}
	cmdGet.Flags().BoolP("copy", "c", false, "copy the value to the clipboard")

	var cmdScan = &cobra.Command{
		Use:   "scan",
		Short: "Print entries in ascending key order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			eng := openEngine()
			defer closeEngine(eng)

			prefix, _ := cmd.Flags().GetString("prefix")
			if prefix != "" {
				printEntries(os.Stdout, eng.ScanPrefix(prefix))
				return
			}
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			printEntries(os.Stdout, eng.Scan(from, to))
		},
	}
	cmdScan.Flags().String("from", "", "first key to include")
	cmdScan.Flags().String("to", "", "key to stop before (empty scans to the end)")
	cmdScan.Flags().String("prefix", "", "only keys starting with this prefix")

	var cmdDump = &cobra.Command{
		Use:   "dump",
		Short: "Print every entry in ascending key order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			eng := openEngine()
			defer closeEngine(eng)
			printEntries(os.Stdout, eng.Scan("", ""))
		},
	}

	var cmdSegments = &cobra.Command{
		Use:   "segments",
		Short: "List segment files in the data directory",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			eng := openEngine()
			defer closeEngine(eng)
			printSegments(os.Stdout, eng.Segments())
		},
	}

	var cmdStats = &cobra.Command{
		Use:   "stats",
		Short: "Show memtable and segment counters",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			eng := openEngine()
			defer closeEngine(eng)
			printStats(os.Stdout, eng.Stats())
		},
	}

	var cmdShell = &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive prompt",
		Long:  fmt.Sprintf("%s\n%s", asciiLogo, `Shell accepts put, get, scan, prefix, flush, stats and segments commands`),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			eng := openEngine()
			defer closeEngine(eng)

			fmt.Println(asciiLogo)
			if err := NewShell(eng, os.Stdin, os.Stdout).Run(); err != nil {
				log.Printf("Error reading input: %v", err)
			}
		},
	}

	var cmdInspect = &cobra.Command{
		Use:   "inspect",
		Short: "Browse entries by key prefix",
		Long:  fmt.Sprintf("%s\n%s", asciiLogo, `Inspect opens a terminal UI with prefix search and value preview`),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			eng := openEngine()
			defer closeEngine(eng)

			if err := runInspector(eng); err != nil {
				log.Printf("Error running inspector: %v", err)
			}
		},
	}

	var cmdSettings = &cobra.Command{
		Use:   "settings",
		Short: "Display current configuration settings",
		Long:  fmt.Sprintf("%s\n%s", asciiLogo, `Settings shows the configuration, creating a default file if needed`),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			displaySettings(configPath)
		},
	}

	var cmdUsage = &cobra.Command{
		Use:   "usage",
		Short: "Print avlmem usage guide",
		Long:  fmt.Sprintf("%s\n%s", asciiLogo, `Usage displays the avlmem CLI usage guide`),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(getHelpMessage())
		},
	}

	var cmdVersion = &cobra.Command{
		Use:   "version",
		Short: "Print avlmem version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	var rootCmd = &cobra.Command{
		Use:     "avlmem",
		Version: version,
		Long:    asciiLogo,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.avlmem.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "dir", "", "data directory, overrides engine.data_dir")
	rootCmd.PersistentFlags().IntVar(&thresholdFlag, "threshold", 0, "memtable flush threshold, overrides engine.flush_threshold")

	rootCmd.AddCommand(cmdLoad, cmdGet, cmdScan, cmdDump, cmdSegments, cmdStats,
		cmdShell, cmdInspect, cmdSettings, cmdUsage, cmdVersion)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
