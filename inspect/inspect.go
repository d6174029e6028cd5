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

// Package inspect is the pure-reader CSN reference inspector of spec.md
// §4.5: given a resolved PathRef, it answers "what artifact/member does
// this land on" and "what elements does its terminal type have"; given a
// raw, not-yet-resolved path (Inspect), it answers the same question by
// walking resolve's per-context dynamic environments directly -- all
// without mutating the Model. It caches by ID rather than by object
// identity so a long-lived Inspector survives across incremental
// recompiles (spec.md §9 "replace the WeakMap-keyed-by-object-identity
// cache with an ID-keyed one scoped to the Inspector, not the Model").
package inspect

import (
	"github.com/ehb93/cds-pg-sub004/csn"
	"github.com/ehb93/cds-pg-sub004/resolve"
)

// Inspector is a read-only view over one Model, with its own element-dict
// cache. Multiple Inspectors may be created over the same Model
// concurrently; none of them ever mutate it (spec.md §5 "external
// consumers must not mutate the model between Inspector calls").
type Inspector struct {
	model *csn.Model
	cache map[csn.ID]*csn.Dict[csn.ID]
}

// New returns an Inspector over model.
func New(model *csn.Model) *Inspector {
	return &Inspector{model: model, cache: make(map[csn.ID]*csn.Dict[csn.ID])}
}

// Artifact returns the Artifact for id, or nil.
func (i *Inspector) Artifact(id csn.ID) *csn.Artifact {
	return i.model.Artifacts[id]
}

// Member returns the Member for id, or nil.
func (i *Inspector) Member(id csn.ID) *csn.Member {
	return i.model.Members[id]
}

// ByName looks up a top-level definition by its absolute name.
func (i *Inspector) ByName(name string) (*csn.Artifact, bool) {
	id, ok := i.model.Definitions.Get(name)
	if !ok {
		return nil, false
	}
	return i.model.Artifacts[id], true
}

// Elements returns the terminal element dictionary for id -- an Artifact's
// or Member's own Elements, or (one hop through) its Target's, memoised
// per Inspector instance since it is requested repeatedly while walking
// sibling columns of the same query (spec.md §4.5).
func (i *Inspector) Elements(id csn.ID) *csn.Dict[csn.ID] {
	if cached, ok := i.cache[id]; ok {
		return cached
	}
	d := i.computeElements(id)
	i.cache[id] = d
	return d
}

func (i *Inspector) computeElements(id csn.ID) *csn.Dict[csn.ID] {
	if art, ok := i.model.Artifacts[id]; ok {
		if art.Elements != nil {
			return art.Elements
		}
		if art.Target != nil && art.Target.TerminalArt != csn.NoID {
			return i.Elements(art.Target.TerminalArt)
		}
		return nil
	}
	if mem, ok := i.model.Members[id]; ok {
		if mem.Elements != nil {
			return mem.Elements
		}
		if mem.Target != nil && mem.Target.TerminalArt != csn.NoID {
			return i.Elements(mem.Target.TerminalArt)
		}
	}
	return nil
}

// Follow walks a resolved PathRef and returns the ID it terminates on, or
// NoID if it isn't resolved.
func (i *Inspector) Follow(ref *csn.PathRef) csn.ID {
	if ref == nil || !ref.IsResolved() {
		return csn.NoID
	}
	return ref.TerminalArt
}

// Reset clears the Inspector's element cache; callers should call this
// after any pipeline phase that mutates Elements dicts on artifacts this
// Inspector has already cached (derive, extend).
func (i *Inspector) Reset() {
	i.cache = make(map[csn.ID]*csn.Dict[csn.ID])
}

// PathSegment is one raw step of a path to navigate independently of any
// PathRef already materialized in the model (spec.md §4.5): a caller asking
// "what does a.b.c resolve to from here" supplies its own segments rather
// than building and resolving a stored PathRef.
type PathSegment struct {
	Name string
}

// Inspect walks segments the way resolve.ResolveRef walks a PathRef's
// Path -- the first segment through ctxKey's dynamic environment (falling
// back to the $-magic-variable enum first), each subsequent segment among
// the prior step's terminal's own elements -- without mutating the Model or
// recording any diagnostic. It returns the ID the path terminates on, the
// scope the first segment resolved in, and whether every segment resolved.
func (i *Inspector) Inspect(segments []PathSegment, ctxKey csn.ReferenceContext, home, query csn.ID) (csn.ID, string, bool) {
	if len(segments) == 0 {
		return csn.NoID, "", false
	}

	terminal, scope, ok := i.inspectFirst(segments[0].Name, ctxKey, home, query)
	if !ok {
		return csn.NoID, "", false
	}

	for _, seg := range segments[1:] {
		elements := i.Elements(terminal)
		if elements == nil {
			return csn.NoID, "", false
		}
		next, ok := elements.Get(seg.Name)
		if !ok {
			return csn.NoID, "", false
		}
		terminal = next
		scope = "element"
	}
	return terminal, scope, true
}

func (i *Inspector) inspectFirst(name string, ctxKey csn.ReferenceContext, home, query csn.ID) (csn.ID, string, bool) {
	if magic := csn.LookupMagic(name); magic != csn.NotMagic {
		return i.inspectMagic(magic, query)
	}
	table := resolve.NewContextTable(i.model)
	// Inspect has no separate "outer ref" to carry a BaseEnvArt down from,
	// so home itself doubles as the base entity for the expand/inline/
	// ref-where contexts, which search a specific entity rather than the
	// enclosing query's lexical chain.
	ref := &csn.PathRef{ContextKey: string(ctxKey), BaseEnvArt: home}
	return table.Lookup(ref, home, query, name)
}

// inspectMagic mirrors resolve.resolveMagic's scope assignment for the
// `$self`/`$projection`/`$user`/`$now`/`$tenant`/`$locale`/`$parameters`
// magic variables (spec.md §9), without writing to a PathRef.
func (i *Inspector) inspectMagic(magic csn.MagicVar, query csn.ID) (csn.ID, string, bool) {
	switch magic {
	case csn.MagicSelf, csn.MagicProjection:
		qry, ok := i.model.Queries[query]
		if !ok {
			return csn.NoID, "", false
		}
		return qry.SelfAlias, "$self", true
	case csn.MagicUser, csn.MagicNow, csn.MagicTenant, csn.MagicLocale, csn.MagicParameters:
		return csn.NoID, "$magic", true
	default:
		return csn.NoID, "", false
	}
}
