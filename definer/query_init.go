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

import "github.com/ehb93/cds-pg-sub004/csn"

// InitQueries builds the query-scope lexical structure spec.md §4.2
// describes: _leadingQuery on the artifact's top query, $tableAliases per
// query/join (synthesising an alias from the last path segment when none
// was written explicitly), the $self/$projection synthetic alias, and the
// _$next lexical-parent chain subqueries use for outward name search.
func InitQueries(ctx *csn.CompileContext) error {
	span := ctx.Phase("define.queryInit")
	defer span.Finish()

	model := ctx.Model
	for _, art := range model.Artifacts {
		if art.Query == nil {
			continue
		}
		art.Query.Main = art.ID
		art.Query.LeadingQuery = art.Query.ID
		initQuery(ctx, art.Query, csn.NoID)
	}
	return nil
}

func initQuery(ctx *csn.CompileContext, q *csn.Query, lexicalParent csn.ID) {
	model := ctx.Model
	q.NextLexical = lexicalParent

	q.TableAliases = csn.NewDict[csn.ID]()
	if q.From != nil {
		collectFromAliases(ctx, q, q.From)
	}

	self := model.NewMemberID("$self", csn.MemberSelf)
	self.Query = q.ID
	self.Main = q.Main
	q.SelfAlias = self.ID
	q.TableAliases.Set("$self", self.ID)
	q.TableAliases.Set("$projection", self.ID)

	for _, argID := range q.SetArgs {
		arg := model.Queries[argID]
		arg.Main = q.Main
		arg.LeadingQuery = q.LeadingQuery
		initQuery(ctx, arg, q.ID)
	}
}

func collectFromAliases(ctx *csn.CompileContext, q *csn.Query, fc *csn.FromClause) {
	model := ctx.Model

	if fc.Join != nil {
		fc.Join.TableAliases = csn.NewDict[csn.ID]()
		before := q.TableAliases.Len()
		collectFromAliases(ctx, q, fc.Join.Left)
		collectFromAliases(ctx, q, fc.Join.Right)
		// The join's own dict holds the aliases its two sides added to q's.
		for _, name := range q.TableAliases.Names()[before:] {
			id, _ := q.TableAliases.Get(name)
			fc.Join.TableAliases.Set(name, id)
		}
		return
	}

	alias := fc.Alias
	if alias == "" && fc.Path != nil && len(fc.Path.Path) > 0 {
		alias = fc.Path.Path[len(fc.Path.Path)-1].ID
	}
	if alias == "" && fc.Subquery != csn.NoID {
		ctx.Sink.Errorf("query-req-alias", csn.Location{}, "", "an alias is required for a subquery in FROM")
		return
	}

	kind := csn.MemberTableAlias
	mem := model.NewMemberID(alias, kind)
	mem.Query = q.ID
	mem.Main = q.Main
	if fc.Path != nil {
		mem.AliasTarget = fc.Path
	}

	if !q.TableAliases.Set(alias, mem.ID) {
		ctx.Sink.Warnf("duplicate-table-alias", csn.Location{}, alias, "table alias %q is used more than once", alias)
	}

	if fc.Subquery != csn.NoID {
		sub := model.Queries[fc.Subquery]
		sub.Main = q.Main
		sub.LeadingQuery = sub.ID
		initQuery(ctx, sub, q.ID)
	}
}
