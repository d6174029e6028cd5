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

import "github.com/ehb93/cds-pg-sub004/csn"

// Run resolves every PathRef reachable from a top-level artifact: its own
// type/target/targetAspect/includes, every member's (recursively) same set
// of references, and every query's from/where/having/groupBy/orderBy/
// columns references (spec.md §4.4).
func Run(ctx *csn.CompileContext) error {
	span := ctx.Phase("resolve")
	defer span.Finish()

	model := ctx.Model
	for _, art := range model.Artifacts {
		if !art.IsTopLevel() {
			continue
		}
		resolveArtifactRefs(ctx, art, art.ID)
		walkMembers(ctx, art.ID, art.Elements)
		walkMembers(ctx, art.ID, art.Actions)
		walkMembers(ctx, art.ID, art.Params)
		walkMembers(ctx, art.ID, art.Enum)
		if art.Query != nil {
			resolveQuery(ctx, art.Query, art.ID)
		}
	}
	return nil
}

func resolveArtifactRefs(ctx *csn.CompileContext, art *csn.Artifact, home csn.ID) {
	ResolveRef(ctx, art.Type, home, csn.NoID)
	ResolveRef(ctx, art.Target, home, csn.NoID)
	ResolveRef(ctx, art.TargetAspect, home, csn.NoID)
	for _, inc := range art.Includes {
		ResolveRef(ctx, inc, home, csn.NoID)
	}
	resolveOnCondition(ctx, art.OnCondition, home, csn.NoID, csn.NoID)
}

func walkMembers(ctx *csn.CompileContext, home csn.ID, dict *csn.Dict[csn.ID]) {
	if dict == nil {
		return
	}
	for _, id := range dict.Values() {
		mem, ok := ctx.Model.Members[id]
		if !ok {
			continue
		}
		ResolveRef(ctx, mem.Type, home, csn.NoID)
		ResolveRef(ctx, mem.Target, home, csn.NoID)
		ResolveRef(ctx, mem.TargetAspect, home, csn.NoID)
		for _, inc := range mem.Includes {
			ResolveRef(ctx, inc, home, csn.NoID)
		}
		resolveOnCondition(ctx, mem.OnCondition, home, csn.NoID, mem.ID)
		walkMembers(ctx, home, mem.Elements)
		walkMembers(ctx, home, mem.Params)
		walkMembers(ctx, home, mem.Enum)
		walkMembers(ctx, home, mem.InlineAspect)
	}
}

func resolveQuery(ctx *csn.CompileContext, q *csn.Query, home csn.ID) {
	if q.From != nil {
		resolveFrom(ctx, q.From, home, q.ID)
	}
	resolveExpr(ctx, q.Where, home, q.ID, csn.CtxDefault)
	resolveExpr(ctx, q.Having, home, q.ID, csn.CtxDefault)
	for _, c := range q.Columns {
		resolveColumn(ctx, c, home, q.ID)
	}
	for _, g := range q.GroupBy {
		resolveExpr(ctx, g, home, q.ID, csn.CtxDefault)
	}
	for _, o := range q.OrderBy {
		resolveExpr(ctx, o.Expr, home, q.ID, csn.CtxOrderBy)
	}
	for _, argID := range q.SetArgs {
		if arg, ok := ctx.Model.Queries[argID]; ok {
			resolveQuery(ctx, arg, home)
		}
	}
}

func resolveFrom(ctx *csn.CompileContext, fc *csn.FromClause, home, query csn.ID) {
	if fc.Path != nil {
		fc.Path.ContextKey = string(csn.CtxFrom)
		ResolveRef(ctx, fc.Path, home, query)
	}
	if fc.Subquery != csn.NoID {
		if sub, ok := ctx.Model.Queries[fc.Subquery]; ok {
			resolveQuery(ctx, sub, home)
		}
	}
	if fc.Join != nil {
		resolveFrom(ctx, fc.Join.Left, home, query)
		resolveFrom(ctx, fc.Join.Right, home, query)
		resolveOnCondition(ctx, fc.Join.On, home, query, csn.NoID)
	}
}

func resolveColumn(ctx *csn.CompileContext, c csn.Column, home, query csn.ID) {
	resolveExpr(ctx, c.Expr, home, query, csn.CtxDefault)

	terminal := exprTerminal(c.Expr)
	for _, sub := range c.Expand {
		tagContinuation(sub, csn.CtxExpand, terminal)
		resolveColumn(ctx, sub, home, query)
	}
	for _, sub := range c.Inline {
		tagContinuation(sub, csn.CtxInline, terminal)
		resolveColumn(ctx, sub, home, query)
	}
}

// exprTerminal returns the artifact/member a plain ref expression resolved
// to, or NoID for any other expression shape.
func exprTerminal(e csn.Expr) csn.ID {
	ref, ok := e.(*csn.Ref)
	if !ok || ref.Path == nil {
		return csn.NoID
	}
	return ref.Path.TerminalArt
}

// tagContinuation marks an expand/inline sub-column's own ref so it
// resolves against the outer ref's terminal type (spec.md §4.5) instead of
// the enclosing query's lexical chain.
func tagContinuation(c csn.Column, ctxKey csn.ReferenceContext, baseArt csn.ID) {
	ref, ok := c.Expr.(*csn.Ref)
	if !ok || ref.Path == nil {
		return
	}
	ref.Path.ContextKey = string(ctxKey)
	ref.Path.BaseEnvArt = baseArt
}

// resolveOnCondition resolves an on-condition expression (an artifact's,
// member's, or join's), tagging every Ref it reaches with CtxOn and
// owningMember so ContextTable.onEnv can build the self-alias/parent frames
// spec.md §4.5 describes. owningMember is csn.NoID for a plain join's on,
// which has no member to self-alias.
func resolveOnCondition(ctx *csn.CompileContext, e csn.Expr, home, query, owningMember csn.ID) {
	resolveExprBase(ctx, e, home, query, csn.CtxOn, owningMember)
}

// resolveExpr resolves every Ref reachable from e, tagging each one's
// ContextKey (unless a more specific caller -- resolveFilter, tagContinuation
// -- already tagged it) with the reference context the caller is resolving
// it on behalf of, per spec.md §4.5's table.
func resolveExpr(ctx *csn.CompileContext, e csn.Expr, home, query csn.ID, ctxKey csn.ReferenceContext) {
	resolveExprBase(ctx, e, home, query, ctxKey, csn.NoID)
}

// resolveExprBase is resolveExpr plus a baseEnvArt to stamp on every Ref it
// reaches -- used by resolveOnCondition to carry the owning member's ID
// through to ContextTable.onEnv.
func resolveExprBase(ctx *csn.CompileContext, e csn.Expr, home, query csn.ID, ctxKey csn.ReferenceContext, baseEnvArt csn.ID) {
	switch v := e.(type) {
	case nil:
		return
	case *csn.Ref:
		if v.Path != nil {
			if v.Path.ContextKey == "" {
				v.Path.ContextKey = string(ctxKey)
			}
			if baseEnvArt != csn.NoID && v.Path.BaseEnvArt == csn.NoID {
				v.Path.BaseEnvArt = baseEnvArt
			}
		}
		ResolveRef(ctx, v.Path, home, query)
	case *csn.BinOp:
		resolveExprBase(ctx, v.Left, home, query, ctxKey, baseEnvArt)
		resolveExprBase(ctx, v.Right, home, query, ctxKey, baseEnvArt)
	case *csn.LogicalOp:
		for _, sub := range v.Exprs {
			resolveExprBase(ctx, sub, home, query, ctxKey, baseEnvArt)
		}
	case *csn.FuncCall:
		for _, sub := range v.Args {
			resolveExprBase(ctx, sub, home, query, ctxKey, baseEnvArt)
		}
	}
}
