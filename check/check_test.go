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

package check

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func newCtx(opts csn.Options) *csn.CompileContext {
	return csn.NewCompileContext(context.Background(), opts)
}

func TestCheckRejectsForeignKeysOnManagedAspect(t *testing.T) {
	require := require.New(t)
	ctx := newCtx(csn.Options{})
	model := ctx.Model

	art := model.NewArtifactID("my.Orders", csn.KindEntity)
	art.Elements = csn.NewDict[csn.ID]()
	items := model.NewMemberID("items", csn.MemberElement)
	items.AssocKind = csn.Composition
	items.TargetAspect = model.NewPathRefID(nil, csn.CtxTargetAspect)
	items.ForeignKeys = []string{"id"}
	art.Elements.Set("items", items.ID)

	require.NoError(Run(ctx))
	require.True(ctx.Sink.HasErrors())
}

func TestCheckRejectsNegativeCardinalityMax(t *testing.T) {
	require := require.New(t)
	ctx := newCtx(csn.Options{})
	model := ctx.Model

	art := model.NewArtifactID("my.Orders", csn.KindEntity)
	art.Elements = csn.NewDict[csn.ID]()
	author := model.NewMemberID("author", csn.MemberElement)
	author.AssocKind = csn.Association
	author.Cardinality = csn.Cardinality{Max: -1}
	art.Elements.Set("author", author.ID)

	require.NoError(Run(ctx))
	require.True(ctx.Sink.HasErrors())
}

func TestCheckRejectsCardinalitySrcMinAboveSrcMax(t *testing.T) {
	require := require.New(t)
	ctx := newCtx(csn.Options{})
	model := ctx.Model

	art := model.NewArtifactID("my.Orders", csn.KindEntity)
	art.Elements = csn.NewDict[csn.ID]()
	author := model.NewMemberID("author", csn.MemberElement)
	author.AssocKind = csn.Association
	author.Cardinality = csn.Cardinality{SrcMin: 5, SrcMax: 1}
	art.Elements.Set("author", author.ID)

	require.NoError(Run(ctx))
	require.True(ctx.Sink.HasErrors())
}

func TestCheckRejectsCaseFoldedSiblingNameClash(t *testing.T) {
	require := require.New(t)
	ctx := newCtx(csn.Options{})
	model := ctx.Model

	art := model.NewArtifactID("my.Orders", csn.KindEntity)
	art.Elements = csn.NewDict[csn.ID]()
	id1 := model.NewMemberID("ID", csn.MemberElement)
	id2 := model.NewMemberID("Id", csn.MemberElement)
	art.Elements.Set("ID", id1.ID)
	art.Elements.Set("Id", id2.ID)

	require.NoError(Run(ctx))
	require.True(ctx.Sink.HasErrors())
}

func TestCheckSkippedInLintMode(t *testing.T) {
	require := require.New(t)
	ctx := newCtx(csn.Options{LintMode: true})
	model := ctx.Model

	art := model.NewArtifactID("my.Orders", csn.KindEntity)
	art.Elements = csn.NewDict[csn.ID]()
	items := model.NewMemberID("items", csn.MemberElement)
	items.AssocKind = csn.Composition
	items.TargetAspect = model.NewPathRefID(nil, csn.CtxTargetAspect)
	items.ForeignKeys = []string{"id"}
	art.Elements.Set("items", items.ID)

	require.NoError(Run(ctx))
	require.False(ctx.Sink.HasErrors())
}
