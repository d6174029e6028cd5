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

package inspect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func TestElementsFollowsTarget(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	target := model.NewArtifactID("my.Authors", csn.KindEntity)
	target.Elements = csn.NewDict[csn.ID]()
	name := model.NewMemberID("name", csn.MemberElement)
	target.Elements.Set("name", name.ID)

	owner := model.NewArtifactID("my.Books", csn.KindEntity)
	owner.Elements = csn.NewDict[csn.ID]()
	author := model.NewMemberID("author", csn.MemberElement)
	author.Target = &csn.PathRef{TerminalArt: target.ID, Links: []csn.LinkStep{{Art: target.ID}}}
	owner.Elements.Set("author", author.ID)

	insp := New(model)
	els := insp.Elements(author.ID)
	require.NotNil(els)
	require.True(els.Has("name"))
}

func TestByNameLooksUpDefinitions(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()
	art := model.NewArtifactID("my.Books", csn.KindEntity)
	model.Definitions.Set("my.Books", art.ID)

	insp := New(model)
	found, ok := insp.ByName("my.Books")
	require.True(ok)
	require.Equal(art.ID, found.ID)
}

func TestInspectWalksRawPathThroughGlobalScope(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	author := model.NewArtifactID("my.Authors", csn.KindEntity)
	author.Elements = csn.NewDict[csn.ID]()
	name := model.NewMemberID("name", csn.MemberElement)
	author.Elements.Set("name", name.ID)
	model.Definitions.Set("my.Authors", author.ID)

	insp := New(model)
	id, scope, ok := insp.Inspect([]PathSegment{{Name: "my.Authors"}, {Name: "name"}}, csn.CtxDefault, csn.NoID, csn.NoID)
	require.True(ok)
	require.Equal(name.ID, id)
	require.Equal("element", scope)
}

func TestInspectRefWhereScopesToBaseEnvArt(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	books := model.NewArtifactID("my.Books", csn.KindEntity)
	books.Elements = csn.NewDict[csn.ID]()
	stock := model.NewMemberID("stock", csn.MemberElement)
	books.Elements.Set("stock", stock.ID)

	insp := New(model)
	id, scope, ok := insp.Inspect([]PathSegment{{Name: "stock"}}, csn.CtxRefWhere, books.ID, csn.NoID)
	require.True(ok)
	require.Equal(stock.ID, id)
	require.Equal("ref-target", scope)
}
