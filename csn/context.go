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

package csn

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Options bundles every setting a compile can be invoked with (spec.md §6),
// replacing the source's global mutable option state with a value passed
// explicitly through CompileContext (spec.md §9 "bundle into a compilation
// context value... forbid concurrent mutation within a compile").
type Options struct {
	// ParseOnly stops the pipeline after ingest+parse.
	ParseOnly bool
	// LintMode skips the check phase; propagation still runs. No phase
	// reports an unresolved `using from` target, with or without LintMode.
	LintMode bool
	// ParseCDL ingests without applying extensions (extensions are kept,
	// unapplied, on the model).
	ParseCDL bool
	// FallbackParser selects the parser for inputs whose extension isn't
	// recognised: "csn", "csn!", or another registered parser name.
	FallbackParser string
	// Beta toggles experimental features by name.
	Beta map[string]bool
	// Deprecated enables legacy shapes: generatedEntityNameWithUnderscore,
	// unmanagedUpInComponent.
	Deprecated map[string]bool
	// TestMode makes runs deterministic (stable generated IDs/ordering even
	// where real-world inputs might be ambiguous).
	TestMode bool
	// Recompile is set by cdsc.Recompile. No pipeline phase reads it, so
	// artefacts the compiler itself already generated get no special
	// handling.
	Recompile bool
}

// DeprecatedFlag names, matched against Options.Deprecated.
const (
	DeprecatedGeneratedEntityNameWithUnderscore = "generatedEntityNameWithUnderscore"
	DeprecatedUnmanagedUpInComponent            = "unmanagedUpInComponent"
)

func (o Options) isDeprecated(flag string) bool {
	if o.Deprecated == nil {
		return false
	}
	return o.Deprecated[flag]
}

// IsDeprecatedEntityNameWithUnderscore reports whether generated sibling
// entities should use the legacy `Entity_elem`/`Entity_texts` naming instead
// of the `Entity.elem`/`Entity.texts` default.
func (o Options) IsDeprecatedEntityNameWithUnderscore() bool {
	return o.isDeprecated(DeprecatedGeneratedEntityNameWithUnderscore)
}

// IsBeta reports whether the named experimental feature is enabled.
func (o Options) IsBeta(name string) bool {
	if o.Beta == nil {
		return false
	}
	return o.Beta[name]
}

// CompileContext is the single value threaded through every pipeline phase:
// the model under construction, the compile's options, its message sink,
// and a tracer span for the whole compile (spec.md §9, and the ambient
// tracing stack added in SPEC_FULL.md). It is the csn-package analogue of
// sql.Context.
type CompileContext struct {
	context.Context

	Model   *Model
	Options Options
	Sink    *Sink

	Span opentracing.Span
}

// NewCompileContext returns a CompileContext over a fresh Model.
func NewCompileContext(ctx context.Context, opts Options) *CompileContext {
	if ctx == nil {
		ctx = context.Background()
	}
	span, spanCtx := opentracing.StartSpanFromContextWithTracer(ctx, opentracing.GlobalTracer(), "cds.compile")
	return &CompileContext{
		Context: spanCtx,
		Model:   NewModel(),
		Options: opts,
		Sink:    NewSink(nil),
		Span:    span,
	}
}

// Finish closes the compile-wide tracer span. Call once the pipeline
// returns, successfully or not.
func (c *CompileContext) Finish() {
	if c.Span != nil {
		c.Span.Finish()
	}
}

// Phase starts a child span for one pipeline phase (ingest, layer, define,
// extend, derive, resolve, propagate, check), grounded on the same
// opentracing instrumentation idiom the ambient stack adopts from the
// teacher's direct dependency on opentracing-go.
func (c *CompileContext) Phase(name string) opentracing.Span {
	span, _ := opentracing.StartSpanFromContextWithTracer(c.Context, opentracing.GlobalTracer(), "cds.compile."+name)
	return &timedSpan{Span: span, timer: prometheus.NewTimer(phaseDuration.WithLabelValues(name))}
}

// Logger returns the sink's logger, annotated with the current phase if
// logrus fields are desired by a caller; mirrors sql.Context.GetLogger().
func (c *CompileContext) Logger() *logrus.Entry {
	return c.Sink.Logger()
}
