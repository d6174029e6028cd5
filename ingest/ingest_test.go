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

package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func newCtx() *csn.CompileContext {
	return csn.NewCompileContext(context.Background(), csn.Options{TestMode: true})
}

func rawEntity(elems ...string) *RawArtifact {
	d := csn.NewDict[*RawArtifact]()
	for _, e := range elems {
		d.Set(e, &RawArtifact{Kind: HintElement})
	}
	return &RawArtifact{Kind: HintEntity, Elements: d}
}

func TestIngestAbsoluteNaming(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()

	artifacts := csn.NewDict[*RawArtifact]()
	artifacts.Set("Books", rawEntity("ID", "title"))

	sources := csn.NewDict[*RawSource]()
	sources.Set("a.cds", &RawSource{Namespace: "my.bookshop", Artifacts: artifacts})

	require.NoError(Ingest(ctx, sources))

	id, ok := ctx.Model.Definitions.Get("my.bookshop.Books")
	require.True(ok)
	art := ctx.Model.Artifacts[id]
	require.Equal(csn.KindEntity, art.Kind)
	require.Equal(2, art.Elements.Len())
}

func TestIngestReservedNamespaceRefused(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()

	artifacts := csn.NewDict[*RawArtifact]()
	artifacts.Set("Foo", rawEntity("ID"))

	sources := csn.NewDict[*RawSource]()
	sources.Set("a.cds", &RawSource{Namespace: "cds", Artifacts: artifacts})

	require.NoError(Ingest(ctx, sources))

	_, ok := ctx.Model.Definitions.Get("cds.Foo")
	require.False(ok, "definitions must not land under the reserved cds namespace")
	require.True(ctx.Sink.HasErrors())
}

func TestIngestCdsFoundationCarveOutAllowed(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()

	artifacts := csn.NewDict[*RawArtifact]()
	artifacts.Set("Foo", rawEntity("ID"))

	sources := csn.NewDict[*RawSource]()
	sources.Set("a.cds", &RawSource{Namespace: "cds.foundation", Artifacts: artifacts})

	require.NoError(Ingest(ctx, sources))

	_, ok := ctx.Model.Definitions.Get("cds.foundation.Foo")
	require.True(ok)
	require.False(ctx.Sink.HasErrors())
}

func TestIngestDuplicateDefinitionRecorded(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()

	artifactsA := csn.NewDict[*RawArtifact]()
	artifactsA.Set("Books", rawEntity("ID"))
	artifactsB := csn.NewDict[*RawArtifact]()
	artifactsB.Set("Books", rawEntity("ID", "title"))

	sources := csn.NewDict[*RawSource]()
	sources.Set("a.cds", &RawSource{Namespace: "my.bookshop", Artifacts: artifactsA})
	sources.Set("b.cds", &RawSource{Namespace: "my.bookshop", Artifacts: artifactsB})

	require.NoError(Ingest(ctx, sources))

	require.True(ctx.Sink.HasErrors())
	id, ok := ctx.Model.Definitions.Get("my.bookshop.Books")
	require.True(ok)
	// First writer wins (spec.md §4.1).
	require.Equal(1, ctx.Model.Artifacts[id].Elements.Len())
}

func TestIngestPathPrefixUsingsSynthesized(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()

	artifacts := csn.NewDict[*RawArtifact]()
	artifacts.Set("Nested.Books", rawEntity("ID"))

	sources := csn.NewDict[*RawSource]()
	sources.Set("a.cds", &RawSource{Artifacts: artifacts})

	require.NoError(Ingest(ctx, sources))

	src := ctx.Model.Sources[1]
	require.True(src.UsingsByAlias.Has("Nested"))
}

func TestIngestParseFailedSourceStillRegistered(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()

	sources := csn.NewDict[*RawSource]()
	sources.Set("broken.cds", &RawSource{ParseFailed: true})

	require.NoError(Ingest(ctx, sources))

	require.Len(ctx.Model.Sources, 1)
	for _, s := range ctx.Model.Sources {
		require.Equal("source", s.Kind)
		require.True(s.ParseFailed)
	}
}

func TestMergeI18nKeepsLowestRank(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()

	upstream := ctx.Model.NewSourceID("base.cds")
	upstream.I18n = map[string]map[string]string{"en": {"greeting": "hi"}}
	downstream := ctx.Model.NewSourceID("extended.cds")
	downstream.I18n = map[string]map[string]string{"en": {"greeting": "hello"}}

	ctx.Model.Layers = []*csn.Layer{
		{Representative: upstream.ID, Rank: 0},
		{Representative: downstream.ID, Rank: 1},
	}
	upstream.Layer = upstream.ID
	downstream.Layer = downstream.ID

	MergeI18n(ctx)

	require.Equal("hi", ctx.Model.I18nBundle["en"]["greeting"])
}
