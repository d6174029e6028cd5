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

package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func newCtx() *csn.CompileContext {
	return csn.NewCompileContext(context.Background(), csn.Options{TestMode: true})
}

func TestResolveRefFindsGlobalDefinition(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	author := model.NewArtifactID("my.Authors", csn.KindEntity)
	model.Definitions.Set("my.Authors", author.ID)

	ref := model.NewPathRefID([]csn.PathItem{{ID: "my.Authors"}}, csn.CtxTarget)
	ResolveRef(ctx, ref, csn.NoID, csn.NoID)

	require.True(ref.IsResolved())
	require.Equal(author.ID, ref.TerminalArt)
}

func TestResolveRefUnresolvedSuggestsSimilarName(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	author := model.NewArtifactID("my.Authors", csn.KindEntity)
	model.Definitions.Set("my.Authors", author.ID)

	ref := model.NewPathRefID([]csn.PathItem{{ID: "my.Author"}}, csn.CtxTarget)
	ResolveRef(ctx, ref, csn.NoID, csn.NoID)

	require.False(ref.IsResolved())
	require.True(ref.Unresolved)
	require.Contains(ref.ValidNames, "my.Authors")
	require.True(ctx.Sink.HasErrors())
}

func TestResolveRefWalksElementPath(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	author := model.NewArtifactID("my.Authors", csn.KindEntity)
	author.Elements = csn.NewDict[csn.ID]()
	name := model.NewMemberID("name", csn.MemberElement)
	author.Elements.Set("name", name.ID)
	model.Definitions.Set("my.Authors", author.ID)

	ref := model.NewPathRefID([]csn.PathItem{{ID: "my.Authors"}, {ID: "name"}}, csn.CtxDefault)
	ResolveRef(ctx, ref, csn.NoID, csn.NoID)

	require.True(ref.IsResolved())
	require.Equal(name.ID, ref.TerminalArt)
	require.Len(ref.Links, 2)
}

func TestResolveRefMagicSelf(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	q := model.NewQueryID(csn.QuerySelect)
	self := model.NewMemberID("$self", csn.MemberSelf)
	q.SelfAlias = self.ID

	ref := model.NewPathRefID([]csn.PathItem{{ID: "$self"}}, csn.CtxDefault)
	ResolveRef(ctx, ref, csn.NoID, q.ID)

	require.True(ref.IsResolved())
	require.Equal(self.ID, ref.TerminalArt)
}
