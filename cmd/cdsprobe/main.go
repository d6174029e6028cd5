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

// Command cdsprobe is the editor-probe CLI (spec.md §6): `complete`/`find`/
// `lint` subcommands, each taking a 1-based `line col file` position,
// compiling the probed file plus any extra files named on the command line
// and querying the resulting model.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ehb93/cds-pg-sub004/cdsc"
	"github.com/ehb93/cds-pg-sub004/internal/csnjson"
	"github.com/ehb93/cds-pg-sub004/probe"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "cdsprobe",
		Short:         "Query a compiled CDS project for editor tooling",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(
		positionCommand("complete", "report expectedTokens/validNames at a cursor", runComplete),
		positionCommand("find", "resolve the reference under a cursor to its definition", runFind),
		positionCommand("lint", "report diagnostics on a cursor's line (falling back to its file)", runLint),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func positionCommand(name, short string, fn func(probe.Position, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:           name + " <line> <col> <file> [project file ...]",
		Short:         short,
		Args:          cobra.MinimumNArgs(3),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("line: %w", err)
			}
			col, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("col: %w", err)
			}
			pos := probe.Position{File: filepath.Clean(args[2]), Line: line, Col: col}

			extra := args[3:]
			return fn(pos, append([]string{args[2]}, extra...))
		},
	}
}

func compileProject(paths []string) (*cdsc.Result, error) {
	sources := make(map[string][]byte, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		sources[filepath.Clean(p)] = content
	}
	res, err := cdsc.Compile(context.Background(), sources, csnjson.Parser{}, cdsc.Options{LintMode: true})
	return &res, err
}

func runComplete(pos probe.Position, paths []string) error {
	res, err := compileProject(paths)
	if err != nil {
		return err
	}
	return printJSON(probe.Complete(res.Model, pos))
}

func runFind(pos probe.Position, paths []string) error {
	res, err := compileProject(paths)
	if err != nil {
		return err
	}
	return printJSON(probe.Find(res.Model, pos))
}

func runLint(pos probe.Position, paths []string) error {
	res, err := compileProject(paths)
	if err != nil {
		return err
	}
	return printJSON(probe.Lint(res.Sink, pos))
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
