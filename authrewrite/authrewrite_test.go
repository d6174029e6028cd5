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

package authrewrite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func TestAllowedRejectsUserWithoutRequiredRole(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()
	art := model.NewArtifactID("my.Books", csn.KindEntity)
	art.Annotations = map[string]csn.Value{
		"@requires": {Raw: "admin"},
	}

	c := New(model)
	err := c.Allowed(&UserContext{Roles: []string{"viewer"}}, art.ID, ReadPerm)
	require.Error(err)
	require.True(ErrNotAuthorized.Is(err))
}

func TestAllowedAcceptsUserWithRequiredRole(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()
	art := model.NewArtifactID("my.Books", csn.KindEntity)
	art.Annotations = map[string]csn.Value{
		"@requires": {Raw: "admin"},
	}

	c := New(model)
	err := c.Allowed(&UserContext{Roles: []string{"admin"}}, art.ID, ReadPerm)
	require.NoError(err)
}

func TestAllowedEvaluatesRestrictWhereAgainstUserAttr(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()
	art := model.NewArtifactID("my.Books", csn.KindEntity)

	userRef := model.NewPathRefID([]csn.PathItem{{ID: "$user"}, {ID: "level"}}, csn.CtxDefault)
	userRef.Unresolved = false

	where := &csn.BinOp{
		Op:   "=",
		Left: &csn.Ref{Path: userRef},
		Right: &csn.Literal{Value: csn.NewStringValue("2", "cds.String")},
	}
	art.Annotations = map[string]csn.Value{
		"@restrict": {Raw: []csn.Value{
			{Raw: map[string]csn.Value{
				"grant": {Raw: "READ"},
				"to":    {Raw: "manager"},
				"where": {Raw: csn.Expr(where)},
			}},
		}},
	}

	c := New(model)

	denied := c.Allowed(&UserContext{
		Roles: []string{"manager"},
		Attrs: map[string]csn.Value{"level": csn.NewStringValue("1", "cds.String")},
	}, art.ID, ReadPerm)
	require.Error(denied)

	allowed := c.Allowed(&UserContext{
		Roles: []string{"manager"},
		Attrs: map[string]csn.Value{"level": csn.NewStringValue("2", "cds.String")},
	}, art.ID, ReadPerm)
	require.NoError(allowed)
}

func TestExpandLeafPathsCoversStructuredReference(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	addr := model.NewArtifactID("my.Address", csn.KindType)
	addr.Elements = csn.NewDict[csn.ID]()
	city := model.NewMemberID("city", csn.MemberElement)
	addr.Elements.Set("city", city.ID)
	country := model.NewMemberID("country", csn.MemberElement)
	addr.Elements.Set("country", country.ID)

	ref := model.NewPathRefID([]csn.PathItem{{ID: "$user"}, {ID: "address"}}, csn.CtxDefault)
	ref.Unresolved = false
	ref.TerminalArt = addr.ID
	ref.Links = []csn.LinkStep{{Art: addr.ID}, {Art: addr.ID}}

	insp := New(model).insp
	leaves := ExpandLeafPaths(insp, ref)
	require.Equal([]string{"address.city", "address.country"}, leaves)
}

func TestGenerateConstraintsRestrictForAssociationCascadeForComposition(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	author := model.NewArtifactID("my.Authors", csn.KindEntity)
	author.Elements = csn.NewDict[csn.ID]()
	idMem := model.NewMemberID("ID", csn.MemberElement)
	idMem.Key = true
	author.Elements.Set("ID", idMem.ID)

	book := model.NewArtifactID("my.Books", csn.KindEntity)
	book.Elements = csn.NewDict[csn.ID]()

	authorRef := model.NewPathRefID([]csn.PathItem{{ID: "my.Authors"}}, csn.CtxTarget)
	authorRef.Unresolved = false
	authorRef.TerminalArt = author.ID
	authorRef.Links = []csn.LinkStep{{Art: author.ID}}

	authorIDRef := &csn.PathRef{Path: []csn.PathItem{{ID: "author_ID"}}}
	parentIDRef := &csn.PathRef{Path: []csn.PathItem{{ID: "ID"}}}

	assoc := model.NewMemberID("author", csn.MemberElement)
	assoc.AssocKind = csn.Association
	assoc.Target = authorRef
	assoc.OnCondition = &csn.BinOp{
		Op:    "=",
		Left:  &csn.Ref{Path: authorIDRef},
		Right: &csn.Ref{Path: parentIDRef},
	}
	book.Elements.Set("author", assoc.ID)

	comp := model.NewMemberID("chapters", csn.MemberElement)
	comp.AssocKind = csn.Composition
	comp.Target = authorRef
	comp.OnCondition = assoc.OnCondition
	book.Elements.Set("chapters", comp.ID)

	cs := GenerateConstraints(model)
	require.Len(cs, 2)
	byMember := map[csn.ID]Constraint{}
	for _, c := range cs {
		byMember[c.Member] = c
	}
	require.Equal(OnDeleteRestrict, byMember[assoc.ID].OnDelete)
	require.Equal(OnDeleteCascade, byMember[comp.ID].OnDelete)
}

func TestStaticUsersFileLoadsRolesAndAttrs(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "users.json")
	raw, err := json.Marshal([]map[string]interface{}{
		{"Name": "alice", "Roles": []string{"manager"}, "Attrs": map[string]string{"level": "3"}},
	})
	require.NoError(err)
	require.NoError(os.WriteFile(path, raw, 0600))

	users, err := NewStaticUsersFile(path)
	require.NoError(err)

	alice := users.Lookup("alice")
	require.NotNil(alice)
	require.True(alice.HasRole([]string{"manager"}))
	v, ok := alice.Attr("level")
	require.True(ok)
	require.Equal("3", v.Raw)

	require.Nil(users.Lookup("bob"))
}

func TestAllowAllNeverRefuses(t *testing.T) {
	require := require.New(t)
	var checker AccessChecker = AllowAll{}
	require.NoError(checker.Allowed(nil, csn.ID(1), ReadPerm))
}
