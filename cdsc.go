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

// Package cdsc is the compiler's top-level entry point (spec.md §6): it
// wires every phase package into the fixed pipeline order spec.md §4 and §5
// describe, the cdsc analogue of engine.go's Engine tying catalog,
// analyzer, and executor together behind New/Query/QueryWithBindings.
//
// cdsc itself never lexes or parses CDL text (out of scope, spec.md §1); a
// caller supplies a Parser that turns raw file content into an
// ingest.RawSource, and cdsc drives ingest → layer → definer → extend →
// derive → resolve → propagate → enrich → check in order, threading a
// single csn.CompileContext through every phase.
package cdsc

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ehb93/cds-pg-sub004/authrewrite"
	"github.com/ehb93/cds-pg-sub004/check"
	"github.com/ehb93/cds-pg-sub004/csn"
	"github.com/ehb93/cds-pg-sub004/definer"
	"github.com/ehb93/cds-pg-sub004/derive"
	"github.com/ehb93/cds-pg-sub004/enrich"
	"github.com/ehb93/cds-pg-sub004/extend"
	"github.com/ehb93/cds-pg-sub004/ingest"
	"github.com/ehb93/cds-pg-sub004/internal/filecache"
	"github.com/ehb93/cds-pg-sub004/layer"
	"github.com/ehb93/cds-pg-sub004/propagate"
	"github.com/ehb93/cds-pg-sub004/resolve"
)

// Options bundles every setting a Compile call accepts: the csn.Options
// fields a caller may set (csn.Options.Recompile is set only by Recompile),
// plus MaxErrorsPerPhase, which lives above the compile context.
type Options struct {
	ParseOnly      bool
	LintMode       bool
	ParseCDL       bool
	FallbackParser string
	Beta           map[string]bool
	Deprecated     map[string]bool
	TestMode       bool

	// MaxErrorsPerPhase caps the total number of error-severity messages
	// recorded so far, across all phases. It is checked only at the phase
	// boundaries after define, extend, derive and resolve, and only when a
	// phase returned an error; once the count exceeds the cap the compile
	// aborts with ErrFatalThreshold. 0 means unlimited (spec.md §7 "Late").
	MaxErrorsPerPhase int
}

func (o Options) csnOptions() csn.Options {
	return csn.Options{
		ParseOnly:      o.ParseOnly,
		LintMode:       o.LintMode,
		ParseCDL:       o.ParseCDL,
		FallbackParser: o.FallbackParser,
		Beta:           o.Beta,
		Deprecated:     o.Deprecated,
		TestMode:       o.TestMode,
	}
}

// Parser turns one file's raw bytes into an ingest.RawSource. The CDL
// lexer/grammar itself is out of scope (spec.md §1); cdsc only defines the
// seam a caller plugs a real parser into. A Parser for ".csn"/".json" inputs
// (decode-only, no grammar) is the one shape this repository could
// reasonably ship itself, but even that is left to the caller so this
// package stays free of any particular decoding library choice.
type Parser interface {
	Parse(path string, content []byte) (*ingest.RawSource, error)
}

// ParserFunc adapts a plain function to Parser.
type ParserFunc func(path string, content []byte) (*ingest.RawSource, error)

// Parse implements Parser.
func (f ParserFunc) Parse(path string, content []byte) (*ingest.RawSource, error) {
	return f(path, content)
}

// FileCache is cdsc's file-content cache: a thin name for
// internal/filecache.Cache, kept as its own type so callers depend on the
// cdsc package's surface rather than reaching into internal/.
type FileCache = filecache.Cache

// NewFileCache returns an empty, unbacked FileCache (spec.md §9 "no
// persistence across process restarts unless the caller opts in").
func NewFileCache() *FileCache {
	return filecache.New()
}

// Result is what a Compile call returns: the finished model (nil if the
// compile aborted before a phase produced one), the full diagnostic sink,
// and an access checker derived from the model's @requires/@restrict
// annotations, ready for a request layer to consult (spec.md §4.6).
type Result struct {
	Model   *csn.Model
	Sink    *csn.Sink
	Checker authrewrite.AccessChecker
}

// Compile ingests sources, drives them through the full pipeline, and
// returns the finished model. sources maps a file path to its raw content;
// parser turns each entry into an ingest.RawSource.
func Compile(ctx context.Context, sources map[string][]byte, parser Parser, opts Options) (Result, error) {
	return CompileSources(ctx, sources, nil, parser, opts)
}

// CompileSources is Compile plus an optional FileCache: every file's
// content is recorded into cache as it's parsed, so a probe call against
// the same project afterwards can read it back without touching disk
// (spec.md §9 "cache parsed/stat'd file state across repeated compiles of
// the same project", grounded on engine.go's PreparedDataCache reuse-
// across-queries idiom).
func CompileSources(ctx context.Context, sources map[string][]byte, cache *FileCache, parser Parser, opts Options) (Result, error) {
	cctx := csn.NewCompileContext(ctx, opts.csnOptions())
	defer cctx.Finish()

	raw, err := parseAll(cctx, sources, cache, parser)
	if err != nil {
		return Result{Sink: cctx.Sink}, err
	}

	if err := runPipeline(cctx, raw, opts); err != nil {
		return Result{Model: cctx.Model, Sink: cctx.Sink}, err
	}

	return Result{
		Model:   cctx.Model,
		Sink:    cctx.Sink,
		Checker: authrewrite.New(cctx.Model),
	}, nil
}

// CompileAsync runs Compile on its own goroutine and returns a channel that
// receives exactly one result. ctx is handed to Compile unchanged; no phase
// checks it for cancellation, so a compile that has started runs to the end.
func CompileAsync(ctx context.Context, sources map[string][]byte, parser Parser, opts Options) <-chan CompileAsyncResult {
	out := make(chan CompileAsyncResult, 1)
	go func() {
		res, err := Compile(ctx, sources, parser, opts)
		out <- CompileAsyncResult{Result: res, Err: err}
	}()
	return out
}

// CompileAsyncResult is what CompileAsync's channel delivers.
type CompileAsyncResult struct {
	Result Result
	Err    error
}

// Recompile runs the same pipeline as CompileSources with
// csn.Options.Recompile set. No phase reads that flag, so generated
// artefacts already present in the input (texts entities, aspect-composition
// targets) get no special handling: a texts entity whose name is taken is
// skipped with derive's usual info message, and no element sets are
// compared (see DESIGN.md).
func Recompile(ctx context.Context, sources map[string][]byte, cache *FileCache, parser Parser, opts Options) (Result, error) {
	opts2 := opts
	recompileOpts := opts2.csnOptions()
	recompileOpts.Recompile = true

	cctx := csn.NewCompileContext(ctx, recompileOpts)
	defer cctx.Finish()

	raw, err := parseAll(cctx, sources, cache, parser)
	if err != nil {
		return Result{Sink: cctx.Sink}, err
	}
	if err := runPipeline(cctx, raw, opts2); err != nil {
		return Result{Model: cctx.Model, Sink: cctx.Sink}, err
	}
	return Result{
		Model:   cctx.Model,
		Sink:    cctx.Sink,
		Checker: authrewrite.New(cctx.Model),
	}, nil
}

// parseAll resolves every source file to a RawSource, one file at a time in
// lexicographic path order, recording
// each file's content into cache (if one was supplied) so a later probe
// call against the same project can reuse it instead of re-reading disk.
func parseAll(cctx *csn.CompileContext, sources map[string][]byte, cache *FileCache, parser Parser) (*csn.Dict[*ingest.RawSource], error) {
	span := cctx.Phase("parse")
	defer span.Finish()

	paths := make([]string, 0, len(sources))
	for path := range sources {
		paths = append(paths, path)
	}
	sortStrings(paths)

	out := csn.NewDict[*ingest.RawSource]()
	for _, path := range paths {
		content := sources[path]

		rs, err := parser.Parse(path, content)
		if err != nil {
			cctx.Sink.Errorf("parse-failed", csn.Location{File: path}, "", "%s", err)
			out.Set(path, &ingest.RawSource{ParseFailed: true})
			if cache != nil {
				cache.SetContent(path, string(content))
			}
			continue
		}
		out.Set(path, rs)
		if cache != nil {
			cache.SetContent(path, string(content))
		}
	}
	return out, nil
}

// sortStrings sorts a slice of file paths in place; spec.md §5 requires
// deterministic ordering, and map iteration in Go is not stable, so paths
// are put in plain lexicographic order (a map carries no insertion order to
// recover).
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// runPipeline drives the fixed phase order over an already-parsed batch of
// sources (spec.md §4 and §5): ingest, layer, i18n merge, define, extend,
// derive, resolve, propagate, enrich, check. Each phase's error is wrapped
// into a *multierror.Error so a caller sees every phase that failed, not
// just the first (spec.md §7 "Late" fatal-threshold behaviour).
func runPipeline(cctx *csn.CompileContext, raw *csn.Dict[*ingest.RawSource], opts Options) error {
	var result *multierror.Error

	ingest.SeedBuiltins(cctx.Model)

	if err := ingest.Ingest(cctx, raw); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "ingest"))
		return result.ErrorOrNil()
	}

	if _, err := layer.Build(cctx.Model, modelSources(cctx.Model)); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "layer"))
		return result.ErrorOrNil()
	}
	ingest.MergeI18n(cctx)

	if cctx.Options.ParseOnly {
		return result.ErrorOrNil()
	}

	if err := definer.Add(cctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "define"))
	}
	if err := definer.Init(cctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "define-init"))
	}
	if err := definer.InitQueries(cctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "define-queries"))
	}
	if result.ErrorOrNil() != nil && exceedsThreshold(cctx, opts) {
		return result.ErrorOrNil()
	}

	if !cctx.Options.ParseCDL {
		if err := extend.Apply(cctx); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "extend"))
		}
	}
	if result.ErrorOrNil() != nil && exceedsThreshold(cctx, opts) {
		return result.ErrorOrNil()
	}

	if err := derive.GenerateTexts(cctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "derive-texts"))
	}
	if err := derive.GenerateAspectTargets(cctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "derive-aspects"))
	}
	if result.ErrorOrNil() != nil && exceedsThreshold(cctx, opts) {
		return result.ErrorOrNil()
	}

	if err := resolve.Run(cctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "resolve"))
	}
	if result.ErrorOrNil() != nil && exceedsThreshold(cctx, opts) {
		return result.ErrorOrNil()
	}

	if err := propagate.Run(cctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "propagate"))
	}

	if err := enrich.Run(cctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "enrich"))
	}
	defer enrich.Cleanup(cctx)

	if err := check.Run(cctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "check"))
	}

	return result.ErrorOrNil()
}

// exceedsThreshold reports whether the sink has recorded more error-severity
// messages than opts.MaxErrorsPerPhase allows, recording ErrFatalThreshold
// when it has; a zero threshold means unlimited (spec.md §7 "Late").
func exceedsThreshold(cctx *csn.CompileContext, opts Options) bool {
	if opts.MaxErrorsPerPhase <= 0 {
		return false
	}
	n := cctx.Sink.CountErrors()
	if n <= opts.MaxErrorsPerPhase {
		return false
	}
	cctx.Sink.Errorf("fatal-threshold", csn.Location{}, "", "%s", csn.ErrFatalThreshold.New(n, "compile"))
	return true
}

// modelSources collects every csn.Source the ingestor registered, sorted by
// ID (ingestion order). layer.Build keeps its input order for sources that
// don't depend on each other, so the sort keeps their ranks stable across
// runs.
func modelSources(model *csn.Model) []*csn.Source {
	out := make([]*csn.Source, 0, len(model.Sources))
	for _, src := range model.Sources {
		out = append(out, src)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ID > out[j].ID; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
