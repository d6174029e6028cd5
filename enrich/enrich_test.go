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

package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func TestRunRecordsEnrichmentForResolvedTarget(t *testing.T) {
	require := require.New(t)
	ctx := csn.NewCompileContext(context.Background(), csn.Options{TestMode: true})
	model := ctx.Model

	target := model.NewArtifactID("my.Authors", csn.KindEntity)

	owner := model.NewArtifactID("my.Books", csn.KindEntity)
	ref := model.NewPathRefID([]csn.PathItem{{ID: "my.Authors"}}, csn.CtxTarget)
	ref.TerminalArt = target.ID
	ref.Links = []csn.LinkStep{{Art: target.ID}}
	ref.Scope = "global"
	owner.Target = ref

	require.NoError(Run(ctx))

	typ, ok := model.EnrichedType(ref.ID)
	require.True(ok)
	require.Equal(target.ID, typ)

	scope, ok := model.EnrichedScope(ref.ID)
	require.True(ok)
	require.Equal("global", scope)

	path, ok := model.EnrichedPath(ref.ID)
	require.True(ok)
	require.Equal([]string{"my.Authors"}, path)
}

func TestCleanupClearsEnrichment(t *testing.T) {
	require := require.New(t)
	ctx := csn.NewCompileContext(context.Background(), csn.Options{TestMode: true})
	model := ctx.Model

	owner := model.NewArtifactID("my.Books", csn.KindEntity)
	ref := model.NewPathRefID([]csn.PathItem{{ID: "my.Authors"}}, csn.CtxTarget)
	ref.TerminalArt = owner.ID
	ref.Links = []csn.LinkStep{{Art: owner.ID}}
	owner.Target = ref

	require.NoError(Run(ctx))
	Cleanup(ctx)

	_, ok := model.EnrichedType(ref.ID)
	require.False(ok)
}
