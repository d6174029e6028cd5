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

package propagate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func newCtx() *csn.CompileContext {
	return csn.NewCompileContext(context.Background(), csn.Options{TestMode: true})
}

func TestPropagateIncludesCopiesAncestorAnnotations(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	base := model.NewArtifactID("my.Managed", csn.KindAspect)
	base.Annotations = map[string]csn.Value{"@readonly": csn.NewBoolValue(true)}

	child := model.NewArtifactID("my.Books", csn.KindEntity)
	ref := model.NewPathRefID([]csn.PathItem{{ID: "my.Managed"}}, csn.CtxIncludes)
	ref.Unresolved = false
	ref.TerminalArt = base.ID
	ref.Links = []csn.LinkStep{{Art: base.ID}}
	child.Includes = []*csn.PathRef{ref}

	require.NoError(Run(ctx))

	require.Contains(child.Annotations, "@readonly")
	require.Contains(child.Ancestors, base.ID)
}

func TestPropagateDraftEnabledFromService(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	svc := model.NewArtifactID("my.CatalogService", csn.KindService)
	svc.Annotations = map[string]csn.Value{"@fiori.draft.enabled": csn.NewBoolValue(true)}

	ent := model.NewArtifactID("my.CatalogService.Books", csn.KindEntity)
	ent.Parent = svc.ID
	svc.SubArtifacts = []csn.ID{ent.ID}

	require.NoError(Run(ctx))

	require.True(ent.DraftEnabled)
}

func TestMarkCompositionTargets(t *testing.T) {
	require := require.New(t)
	ctx := newCtx()
	model := ctx.Model

	target := model.NewArtifactID("my.Items", csn.KindEntity)

	owner := model.NewArtifactID("my.Orders", csn.KindEntity)
	owner.Elements = csn.NewDict[csn.ID]()
	items := model.NewMemberID("items", csn.MemberElement)
	items.AssocKind = csn.Composition
	items.Target = model.NewPathRefID([]csn.PathItem{{ID: "my.Items"}}, csn.CtxTarget)
	items.Target.TerminalArt = target.ID
	items.Target.Links = []csn.LinkStep{{Art: target.ID}}
	owner.Elements.Set("items", items.ID)

	require.NoError(Run(ctx))

	require.True(model.CompositionTargets[target.ID])
}
