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

package probe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func TestFindResolvesDefinitionSite(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	target := model.NewArtifactID("my.Authors", csn.KindEntity)
	target.Loc = csn.Location{File: "db/schema.cds", Line: 1, Col: 1}

	ref := model.NewPathRefID([]csn.PathItem{{ID: "my.Authors"}}, csn.CtxTarget)
	ref.Loc = csn.Location{File: "db/schema.cds", Line: 5, Col: 20, EndLine: 5, EndCol: 29}
	ref.Unresolved = false
	ref.TerminalArt = target.ID
	ref.Links = []csn.LinkStep{{Art: target.ID}}

	res := Find(model, Position{File: "db/schema.cds", Line: 5, Col: 25})
	require.True(res.Found)
	require.Equal("my.Authors", res.Name)
	require.Equal("artifact", res.Kind)
}

func TestFindMissesOutsideSpan(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()
	target := model.NewArtifactID("my.Authors", csn.KindEntity)
	ref := model.NewPathRefID([]csn.PathItem{{ID: "my.Authors"}}, csn.CtxTarget)
	ref.Loc = csn.Location{File: "db/schema.cds", Line: 5, Col: 20, EndLine: 5, EndCol: 29}
	ref.Unresolved = false
	ref.TerminalArt = target.ID

	res := Find(model, Position{File: "db/schema.cds", Line: 5, Col: 3})
	require.False(res.Found)
}

func TestCompleteReportsValidNamesForUnresolvedRef(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	ref := model.NewPathRefID([]csn.PathItem{{ID: "Bok"}}, csn.CtxTarget)
	ref.Loc = csn.Location{File: "db/schema.cds", Line: 3, Col: 10, EndLine: 3, EndCol: 13}
	ref.Unresolved = true
	ref.ValidNames = []string{"my.Books"}

	res := Complete(model, Position{File: "db/schema.cds", Line: 3, Col: 11})
	require.Equal([]string{"entity name"}, res.ExpectedTokens)
	require.Equal([]string{"my.Books"}, res.ValidNames)
}

func TestCompleteReportsElementNamesForResolvedStructuredRef(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	target := model.NewArtifactID("my.Authors", csn.KindEntity)
	target.Elements = csn.NewDict[csn.ID]()
	name := model.NewMemberID("name", csn.MemberElement)
	target.Elements.Set("name", name.ID)

	ref := model.NewPathRefID([]csn.PathItem{{ID: "my.Authors"}}, csn.CtxTarget)
	ref.Loc = csn.Location{File: "db/schema.cds", Line: 5, Col: 20, EndLine: 5, EndCol: 29}
	ref.Unresolved = false
	ref.TerminalArt = target.ID
	ref.Links = []csn.LinkStep{{Art: target.ID}}

	res := Complete(model, Position{File: "db/schema.cds", Line: 5, Col: 25})
	require.Equal([]string{"name"}, res.ValidNames)
}

func TestLintNarrowsToLineThenFallsBackToFile(t *testing.T) {
	require := require.New(t)
	sink := csn.NewSink(nil)
	sink.Errorf("ref-undefined", csn.Location{File: "db/schema.cds", Line: 3, Col: 1}, "", "boom")
	sink.Errorf("ref-undefined", csn.Location{File: "db/schema.cds", Line: 9, Col: 1}, "", "also boom")

	onLine := Lint(sink, Position{File: "db/schema.cds", Line: 3})
	require.Len(onLine, 1)

	wholeFile := Lint(sink, Position{File: "db/schema.cds", Line: 100})
	require.Len(wholeFile, 2)
}
