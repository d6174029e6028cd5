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

// Package resolve implements the reference-context state machine of
// spec.md §4.4/§4.5: for every unresolved PathRef in the model, it searches
// the lexical/dynamic environment the path's ContextKey selects, in the
// fixed order the table in spec.md §4.5 lays out, and records either a
// successful Links/TerminalArt/Scope or an Unresolved/ValidNames failure.
package resolve

import "github.com/ehb93/cds-pg-sub004/csn"

// env is one level of the lexical search chain: a name -> ID map (an
// artifact/member may resolve to either), a human-readable description for
// PathRef.Scope/EnvAux, and the next (outer) env in the chain, or nil.
type env struct {
	names map[string]csn.ID
	scope string
	next  *env
}

func (e *env) lookup(name string) (csn.ID, string, bool) {
	for cur := e; cur != nil; cur = cur.next {
		if id, ok := cur.names[name]; ok {
			return id, cur.scope, true
		}
	}
	return csn.NoID, "", false
}

func (e *env) allNames() []string {
	var out []string
	seen := map[string]bool{}
	for cur := e; cur != nil; cur = cur.next {
		for n := range cur.names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// ContextTable is the per-ReferenceContext dispatch spec.md §4.5's table
// describes: each reference context builds a genuinely different dynamic
// environment rather than sharing one generic query-scope chain. A
// ContextTable is stateless beyond the model it searches; ResolveRef builds
// a fresh one for each PathRef it resolves.
type ContextTable struct {
	model *csn.Model
}

// NewContextTable returns a ContextTable searching model.
func NewContextTable(model *csn.Model) *ContextTable {
	return &ContextTable{model: model}
}

// Build returns the dynamic environment ref's context selects, given the
// artifact the reference is lexically inside of (home) and the query it
// belongs to, if any. ref.BaseEnvArt supplies the outer ref's terminal for
// the expand/inline continuations spec.md §4.5 describes.
func (t *ContextTable) Build(ref *csn.PathRef, home, query csn.ID) *env {
	switch csn.ReferenceContext(ref.ContextKey) {
	case csn.CtxKeys:
		// `keys` projects a subset of the FROM entity's own elements.
		return t.entityEnv(queryFromTarget(t.model, query), "target")
	case csn.CtxExcluding:
		// `excluding` drops columns from the FROM entity's `*` expansion.
		return t.entityEnv(queryFromTarget(t.model, query), "source")
	case csn.CtxExpand, csn.CtxInline:
		// expand/inline continuations search the outer ref's terminal type,
		// not the enclosing query at all (spec.md §4.5 "expand/inline pass
		// the terminal type's elements as a base environment").
		return t.entityEnv(ref.BaseEnvArt, string(ref.ContextKey))
	case csn.CtxRefWhere:
		// an infix filter (`Books[stock > 0]`) searches the path item's own
		// terminal, the "ref-target" scope.
		return t.entityEnv(ref.BaseEnvArt, "ref-target")
	case csn.CtxOn:
		// an on-condition additionally sees the member it qualifies as a
		// self-alias to its own (already-resolved) Target, and the
		// enclosing entity's own sibling elements (spec.md §4.5 "parent"),
		// ahead of the query's table-alias/mixin/source chain.
		return t.onEnv(ref.BaseEnvArt, query, home)
	case csn.CtxOrderBy, csn.CtxOrderBySet, csn.CtxDefault:
		return t.queryEnv(query, home)
	default:
		return t.sourceEnv(home)
	}
}

// onEnv builds the on-condition environment for the member identified by
// owningMember (ref.BaseEnvArt, set by resolveExpr when walking a member's
// OnCondition): innermost is a single-entry "alias" frame binding the
// member's own Component to its Target's terminal, then the enclosing
// entity's own elements ("parent"), then the ordinary query chain.
func (t *ContextTable) onEnv(owningMember, query, home csn.ID) *env {
	chain := t.queryEnv(query, home)
	if names := elementNames(t.model, home); names != nil {
		chain = &env{names: names, scope: "parent", next: chain}
	}
	if mem, ok := t.model.Members[owningMember]; ok && mem.Target != nil && mem.Target.TerminalArt != csn.NoID {
		alias := map[string]csn.ID{mem.Component: mem.Target.TerminalArt}
		chain = &env{names: alias, scope: "alias", next: chain}
	}
	return chain
}

// entityEnv builds a single-level environment over art's own elements, or
// nil if art isn't an artifact/member with elements (an unresolved FROM/
// outer ref leaves later lookups failing with ValidNames == nil, same as
// any other unresolved reference).
func (t *ContextTable) entityEnv(art csn.ID, scope string) *env {
	names := elementNames(t.model, art)
	if names == nil {
		return nil
	}
	return &env{names: names, scope: scope}
}

// queryEnv walks outward from query through $tableAliases and mixins at
// each lexical level, then the query's own source/global scope, mirroring
// spec.md §4.5's "table aliases and mixins, then the enclosing query's,
// then the source" search order. Aliases and mixins are kept as distinct
// env frames so a successful lookup reports the right Scope ("alias" vs
// "mixin") instead of a single blended "query" label.
func (t *ContextTable) queryEnv(query csn.ID, home csn.ID) *env {
	model := t.model
	type level struct{ aliases, mixins map[string]csn.ID }
	var levels []level

	for q := query; q != csn.NoID; {
		qry, ok := model.Queries[q]
		if !ok {
			break
		}
		var lvl level
		if qry.TableAliases != nil {
			lvl.aliases = map[string]csn.ID{}
			qry.TableAliases.Each(func(n string, id csn.ID) bool {
				lvl.aliases[n] = id
				return true
			})
		}
		if qry.Mixins != nil {
			lvl.mixins = map[string]csn.ID{}
			qry.Mixins.Each(func(n string, id csn.ID) bool {
				lvl.mixins[n] = id
				return true
			})
		}
		levels = append(levels, lvl)
		q = qry.NextLexical
	}

	// levels is innermost-first; build the chain outermost-first so the
	// head of the returned env is the innermost (highest-priority) level.
	var chain *env
	for i := len(levels) - 1; i >= 0; i-- {
		if levels[i].mixins != nil {
			chain = &env{names: levels[i].mixins, scope: "mixin", next: chain}
		}
		if levels[i].aliases != nil {
			chain = &env{names: levels[i].aliases, scope: "alias", next: chain}
		}
	}
	return t.appendSourceEnv(home, chain)
}

func (t *ContextTable) sourceEnv(home csn.ID) *env {
	return t.appendSourceEnv(home, nil)
}

// appendSourceEnv attaches the source-local and global scopes at the end
// (lowest priority) of head, which is nil or the innermost-first query
// chain built by queryEnv, and returns head unchanged (or the new source
// env, if head was nil) as the chain's highest-priority entry.
func (t *ContextTable) appendSourceEnv(home csn.ID, head *env) *env {
	model := t.model
	globalNames := map[string]csn.ID{}
	model.Definitions.Each(func(n string, id csn.ID) bool {
		globalNames[n] = id
		return true
	})
	global := &env{names: globalNames, scope: "global"}

	var source *env
	if art := model.Artifacts[home]; art != nil {
		if src, ok := model.Sources[art.Block]; ok {
			names := map[string]csn.ID{}
			if src.Members != nil {
				src.Members.Each(func(n string, id csn.ID) bool {
					names[n] = id
					return true
				})
			}
			source = &env{names: names, scope: "source", next: global}
		}
	}
	tail := source
	if tail == nil {
		tail = global
	}

	if head == nil {
		return tail
	}
	last := head
	for last.next != nil {
		last = last.next
	}
	last.next = tail
	return head
}

// Lookup builds ref's dynamic environment and looks up name in it -- the
// same single-step operation ResolveRef performs for a path's first
// segment. It is exported so inspect.Inspector can navigate a raw path
// without mutating a stored PathRef or threading through ResolveRef's
// diagnostics.
func (t *ContextTable) Lookup(ref *csn.PathRef, home, query csn.ID, name string) (csn.ID, string, bool) {
	return t.Build(ref, home, query).lookup(name)
}

// elementNames returns owner's own element names (an Artifact or Member
// ID), or nil if owner has none.
func elementNames(model *csn.Model, owner csn.ID) map[string]csn.ID {
	dict := elementsOf(model, owner)
	if dict == nil {
		return nil
	}
	names := map[string]csn.ID{}
	dict.Each(func(n string, id csn.ID) bool {
		names[n] = id
		return true
	})
	return names
}

// queryFromTarget returns the artifact a query's plain (non-join, non-
// subquery) FROM clause resolved to, or NoID.
func queryFromTarget(model *csn.Model, query csn.ID) csn.ID {
	q, ok := model.Queries[query]
	if !ok || q.From == nil || q.From.Path == nil {
		return csn.NoID
	}
	return q.From.Path.TerminalArt
}
