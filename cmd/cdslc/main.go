// Copyright 2024 The cds-pg-sub004 Authors.
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

// Command cdslc is the compiler CLI (spec.md §6): it reads one or more CDL
// or CSN files, compiles them with cdsc.Compile, prints every diagnostic,
// and exits non-zero if compilation failed.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/ehb93/cds-pg-sub004/cdsc"
	"github.com/ehb93/cds-pg-sub004/internal/csnjson"
)

func main() {
	var (
		parseOnly      bool
		lintMode       bool
		parseCDL       bool
		fallbackParser string
		beta           []string
		deprecated     []string
		testMode       bool
		maxErrors      int
		configPath     string
	)

	rootCmd := &cobra.Command{
		Use:           "cdslc [flags] <file.cds|file.csn.json> [file2 ...]",
		Short:         "Compile CDL/CSN sources into an augmented CSN model",
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			opts := cdsc.Options{
				ParseOnly:         parseOnly,
				LintMode:          lintMode,
				ParseCDL:          parseCDL,
				FallbackParser:    fallbackParser,
				Beta:              toSet(beta),
				Deprecated:        toSet(deprecated),
				TestMode:          testMode,
				MaxErrorsPerPhase: maxErrors,
			}
			if configPath != "" {
				if err := applyFileConfig(configPath, &opts); err != nil {
					return err
				}
			}
			return run(args, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&parseOnly, "parse-only", false, "stop after ingest, before definer/extend/derive/resolve")
	flags.BoolVar(&lintMode, "lint", false, "skip the final check phase")
	flags.BoolVar(&parseCDL, "parse-cdl", false, "ingest without applying extensions")
	flags.StringVar(&fallbackParser, "fallback-parser", "csn", "parser to use for unrecognised file extensions")
	flags.StringSliceVar(&beta, "beta", nil, "experimental feature names to enable")
	flags.StringSliceVar(&deprecated, "deprecated", nil, "legacy shape names to enable")
	flags.BoolVar(&testMode, "test-mode", false, "deterministic output for golden-file testing")
	flags.IntVar(&maxErrors, "max-errors", 0, "abort once more than this many errors are recorded, checked between phases (0 = unlimited)")
	flags.StringVar(&configPath, "config", "", "path to a .cdscrc.toml config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func toSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// applyFileConfig loads a .cdscrc.toml file as a loosely-typed options map
// (spec.md §6) rather than decoding into a fixed Go struct, since a config
// file's author may write "beta = [\"x\"]" or "test_mode = \"true\"" and
// either should work; github.com/spf13/cast coerces whatever TOML produced
// (string, bool, []interface{}, ...) into the concrete type Options needs.
// A file value is applied wherever the matching flag still holds its
// default, so a flag explicitly set to its default value (e.g. --lint=false)
// does not override the file.
func applyFileConfig(path string, opts *cdsc.Options) error {
	var fc map[string]interface{}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("cdscrc: %w", err)
	}
	if !opts.ParseOnly {
		opts.ParseOnly = cast.ToBool(fc["parse_only"])
	}
	if !opts.LintMode {
		opts.LintMode = cast.ToBool(fc["lint_mode"])
	}
	if !opts.ParseCDL {
		opts.ParseCDL = cast.ToBool(fc["parse_cdl"])
	}
	if opts.FallbackParser == "csn" {
		if v := cast.ToString(fc["fallback_parser"]); v != "" {
			opts.FallbackParser = v
		}
	}
	if opts.Beta == nil {
		opts.Beta = toSet(cast.ToStringSlice(fc["beta"]))
	}
	if opts.Deprecated == nil {
		opts.Deprecated = toSet(cast.ToStringSlice(fc["deprecated"]))
	}
	if !opts.TestMode {
		opts.TestMode = cast.ToBool(fc["test_mode"])
	}
	return nil
}

func run(paths []string, opts cdsc.Options) error {
	sources := make(map[string][]byte, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		sources[p] = content
	}

	res, err := cdsc.Compile(context.Background(), sources, csnjson.Parser{}, opts)
	for _, msg := range res.Sink.Messages() {
		fmt.Fprintln(os.Stderr, msg.String())
	}
	if err != nil {
		return err
	}
	if res.Sink.HasErrors() {
		return errCompileFailed
	}
	return nil
}

var errCompileFailed = fmt.Errorf("compilation failed")
