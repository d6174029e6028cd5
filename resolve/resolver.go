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
	"github.com/ehb93/cds-pg-sub004/csn"
	"github.com/ehb93/cds-pg-sub004/internal/similarname"
)

// ResolveRef resolves ref's path, one item at a time, against the
// environment ref's ContextKey and home/query select (spec.md §4.5): the
// first item is looked up through the lexical chain a ContextTable builds
// (falling back to the $-magic-variable enum first, per spec.md §9's
// "lookup tries the enum first, then the lexical chain"); each subsequent
// item is looked up among the prior step's terminal artifact's elements.
func ResolveRef(ctx *csn.CompileContext, ref *csn.PathRef, home csn.ID, query csn.ID) {
	if ref == nil || len(ref.Path) == 0 {
		return
	}
	model := ctx.Model

	first := ref.Path[0]
	if magic := csn.LookupMagic(first.ID); magic != csn.NotMagic {
		resolveMagic(ctx, ref, magic, home, query)
		return
	}

	e := NewContextTable(model).Build(ref, home, query)
	id, scope, ok := e.lookup(first.ID)
	if !ok {
		markUnresolved(ctx, ref, first.ID, e.allNames())
		return
	}

	ref.Scope = scope
	ref.Links = append(ref.Links, csn.LinkStep{Art: id, Env: scope})
	terminal := id
	resolveFilter(ctx, ref.Path[0].Filter, terminal)

	for _, item := range ref.Path[1:] {
		next, ok := lookupMember(model, terminal, item.ID)
		if !ok {
			names := memberNames(model, terminal)
			markUnresolved(ctx, ref, item.ID, names)
			return
		}
		ref.Links = append(ref.Links, csn.LinkStep{Art: next, Env: "element"})
		terminal = next
		resolveFilter(ctx, item.Filter, terminal)
	}

	ref.TerminalArt = terminal
	ref.Unresolved = false
}

// resolveFilter resolves an infix path filter (`Books[stock > 0]`) against
// the path item it qualifies, the "ref-target"/CtxRefWhere environment of
// spec.md §4.5: every plain Ref inside filter is looked up directly among
// terminal's own elements, not through the enclosing query's lexical chain.
func resolveFilter(ctx *csn.CompileContext, filter csn.Expr, terminal csn.ID) {
	if filter == nil {
		return
	}
	switch v := filter.(type) {
	case *csn.Ref:
		if v.Path == nil {
			return
		}
		v.Path.ContextKey = string(csn.CtxRefWhere)
		v.Path.BaseEnvArt = terminal
		ResolveRef(ctx, v.Path, terminal, csn.NoID)
	case *csn.BinOp:
		resolveFilter(ctx, v.Left, terminal)
		resolveFilter(ctx, v.Right, terminal)
	case *csn.LogicalOp:
		for _, sub := range v.Exprs {
			resolveFilter(ctx, sub, terminal)
		}
	case *csn.FuncCall:
		for _, sub := range v.Args {
			resolveFilter(ctx, sub, terminal)
		}
	}
}

// lookupMember finds a direct element of owner (an Artifact or Member ID)
// by name, following an association/composition Target one hop if owner
// itself has no elements of its own (spec.md §4.4 "a path continues through
// an association's target").
func lookupMember(model *csn.Model, owner csn.ID, name string) (csn.ID, bool) {
	elements := elementsOf(model, owner)
	if elements == nil {
		return csn.NoID, false
	}
	return elements.Get(name)
}

func elementsOf(model *csn.Model, owner csn.ID) *csn.Dict[csn.ID] {
	if art, ok := model.Artifacts[owner]; ok {
		if art.Elements != nil {
			return art.Elements
		}
		if art.Target != nil && art.Target.TerminalArt != csn.NoID {
			return elementsOf(model, art.Target.TerminalArt)
		}
		return nil
	}
	if mem, ok := model.Members[owner]; ok {
		if mem.Elements != nil {
			return mem.Elements
		}
		if mem.Target != nil && mem.Target.TerminalArt != csn.NoID {
			return elementsOf(model, mem.Target.TerminalArt)
		}
	}
	return nil
}

func memberNames(model *csn.Model, owner csn.ID) []string {
	d := elementsOf(model, owner)
	if d == nil {
		return nil
	}
	return d.Names()
}

func resolveMagic(ctx *csn.CompileContext, ref *csn.PathRef, magic csn.MagicVar, home, query csn.ID) {
	model := ctx.Model
	switch magic {
	case csn.MagicSelf, csn.MagicProjection:
		qry, ok := model.Queries[query]
		if !ok {
			markUnresolved(ctx, ref, ref.Path[0].ID, nil)
			return
		}
		ref.Scope = "$self"
		ref.Links = append(ref.Links, csn.LinkStep{Art: qry.SelfAlias, Env: "$self"})
		ref.TerminalArt = qry.SelfAlias
		ref.Unresolved = false
	case csn.MagicUser, csn.MagicNow, csn.MagicTenant, csn.MagicLocale, csn.MagicParameters:
		ref.Scope = "$magic"
		ref.Unresolved = false
	default:
		markUnresolved(ctx, ref, ref.Path[0].ID, nil)
	}
}

func markUnresolved(ctx *csn.CompileContext, ref *csn.PathRef, id string, names []string) {
	ref.Unresolved = true
	ref.ValidNames = similarname.Suggest(names, id)
	ctx.Sink.Errorf("ref-undefined", ref.Loc, id, "%q not found in %s", id, ref.ContextKey)
}
