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

package derive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func newCtx() *csn.CompileContext {
	return csn.NewCompileContext(context.Background(), csn.Options{TestMode: true})
}

func TestGenerateTextsCreatesSiblingEntity(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	ent := model.NewArtifactID("my.Books", csn.KindEntity)
	ent.Elements = csn.NewDict[csn.ID]()
	id := model.NewMemberID("ID", csn.MemberElement)
	id.Component = "ID"
	id.Key = true
	id.Type = &csn.PathRef{Path: []csn.PathItem{{ID: "cds.Integer"}}}
	ent.Elements.Set("ID", id.ID)
	title := model.NewMemberID("title", csn.MemberElement)
	title.Component = "title"
	title.Localized = true
	ent.Elements.Set("title", title.ID)
	model.Definitions.Set("my.Books", ent.ID)

	require.NoError(GenerateTexts(ctx))

	textsID, ok := model.Definitions.Get("my.Books.texts")
	require.True(ok)
	texts := model.Artifacts[textsID]
	require.True(texts.Generated)
	require.True(texts.Elements.Has("locale"))
	require.True(texts.Elements.Has("ID"))
	require.True(texts.Elements.Has("title"))
	// n keys (ID) + m localized (title) + 1 locale key.
	require.Len(texts.Elements.Names(), 3)

	localeID, _ := texts.Elements.Get("locale")
	require.Equal(14, model.Members[localeID].Length)
	baseKeyID, _ := texts.Elements.Get("ID")
	require.True(model.Members[baseKeyID].Key)

	require.True(ent.Elements.Has("texts"))
	textsMem := model.Members[mustGet(ent, "texts")]
	require.Equal(csn.Composition, textsMem.AssocKind)
	require.Nil(textsMem.OnCondition)

	require.True(ent.Elements.Has("localized"))
	locMem := model.Members[mustGet(ent, "localized")]
	require.Equal(csn.Association, locMem.AssocKind)
	require.NotNil(locMem.OnCondition)
}

func mustGet(art *csn.Artifact, name string) csn.ID {
	id, _ := art.Elements.Get(name)
	return id
}

func TestGenerateTextsSkipsOnNameCollision(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	ent := model.NewArtifactID("my.Books", csn.KindEntity)
	ent.Elements = csn.NewDict[csn.ID]()
	title := model.NewMemberID("title", csn.MemberElement)
	title.Localized = true
	title.Component = "title"
	ent.Elements.Set("title", title.ID)
	model.Definitions.Set("my.Books", ent.ID)

	preexisting := model.NewArtifactID("my.Books.texts", csn.KindEntity)
	model.Definitions.Set("my.Books.texts", preexisting.ID)

	require.NoError(GenerateTexts(ctx))

	id, _ := model.Definitions.Get("my.Books.texts")
	require.Equal(preexisting.ID, id, "pre-existing definition must not be overwritten")
}

func TestGenerateAspectTargetsCreatesEntityWithUpLink(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	owner := model.NewArtifactID("my.Orders", csn.KindEntity)
	owner.Elements = csn.NewDict[csn.ID]()
	items := model.NewMemberID("items", csn.MemberElement)
	items.Component = "items"
	items.AssocKind = csn.Composition
	items.InlineAspect = csn.NewDict[csn.ID]()
	qty := model.NewMemberID("quantity", csn.MemberElement)
	qty.Component = "quantity"
	items.InlineAspect.Set("quantity", qty.ID)
	owner.Elements.Set("items", items.ID)

	require.NoError(GenerateAspectTargets(ctx))

	id, ok := model.Definitions.Get("my.Orders.items")
	require.True(ok)
	target := model.Artifacts[id]
	require.True(target.Elements.Has("up_"))
	require.True(target.Elements.Has("quantity"))
	require.Nil(items.InlineAspect)
}
