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

package definer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func newCtx() *csn.CompileContext {
	return csn.NewCompileContext(context.Background(), csn.Options{TestMode: true})
}

func defineArtifact(model *csn.Model, name string, kind csn.ArtifactKind) *csn.Artifact {
	art := model.NewArtifactID(name, kind)
	model.Definitions.Set(name, art.ID)
	return art
}

func TestAddParentsNestedServiceEntity(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	svc := defineArtifact(model, "my.CatalogService", csn.KindService)
	ent := defineArtifact(model, "my.CatalogService.Books", csn.KindEntity)

	require.NoError(Add(ctx))

	require.Equal(svc.ID, ent.Parent)
	require.Contains(svc.SubArtifacts, ent.ID)
}

func TestAddSkipsPlainNamespacePrefix(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	ent := defineArtifact(model, "my.bookshop.Books", csn.KindEntity)

	require.NoError(Add(ctx))

	require.Equal(csn.NoID, ent.Parent)
}

func TestInitSetsServiceAndMemberMain(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	svc := defineArtifact(model, "my.CatalogService", csn.KindService)
	ent := defineArtifact(model, "my.CatalogService.Books", csn.KindEntity)
	ent.Elements = csn.NewDict[csn.ID]()
	title := model.NewMemberID("title", csn.MemberElement)
	ent.Elements.Set("title", title.ID)

	require.NoError(Add(ctx))
	require.NoError(Init(ctx))

	require.Equal(svc.ID, ent.Service)
	require.Equal(ent.ID, title.Main)
}

func TestInitQueriesBuildsTableAliasesAndSelf(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	ent := defineArtifact(model, "my.Books", csn.KindEntity)
	q := model.NewQueryID(csn.QuerySelect)
	q.From = &csn.FromClause{Path: &csn.PathRef{Path: []csn.PathItem{{ID: "Authors"}}}}
	ent.Query = q

	require.NoError(InitQueries(ctx))

	require.Equal(q.ID, q.LeadingQuery)
	require.True(q.TableAliases.Has("Authors"))
	require.True(q.TableAliases.Has("$self"))
	require.True(q.TableAliases.Has("$projection"))
}

func TestInitQueriesRequiresAliasForSubquery(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	ent := defineArtifact(model, "my.Books", csn.KindEntity)
	sub := model.NewQueryID(csn.QuerySelect)
	sub.From = &csn.FromClause{Path: &csn.PathRef{Path: []csn.PathItem{{ID: "Authors"}}}}

	q := model.NewQueryID(csn.QuerySelect)
	q.From = &csn.FromClause{Subquery: sub.ID}
	ent.Query = q

	require.NoError(InitQueries(ctx))
	require.True(ctx.Sink.HasErrors())
}
