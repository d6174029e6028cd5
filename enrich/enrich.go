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

// Package enrich attaches the non-invasive back-references spec.md §9
// describes as side tables rather than object fields: `_type`, `_links`,
// `_art`, `$path`, and `$scope` for resolved PathRefs (see Run), so a consuming
// tool (the editor probe, a CSN-to-OData projector) can walk a path's
// resolution trail without the Model itself growing per-consumer fields.
package enrich

import "github.com/ehb93/cds-pg-sub004/csn"

// Run records enrichment facts on model's side tables for the resolved
// type/target/targetAspect/includes PathRefs of every top-level artifact and
// of its members (recursing through elements, params and enum values), and
// for the FROM path of its query and of that query's set arguments. Refs in
// on-conditions, columns, where/having/groupBy/orderBy and inline aspects
// are not enriched. It must run after resolve.
func Run(ctx *csn.CompileContext) error {
	span := ctx.Phase("enrich")
	defer span.Finish()

	model := ctx.Model
	for _, art := range model.Artifacts {
		if !art.IsTopLevel() {
			continue
		}
		enrichArtifact(model, art)
		enrichMembers(model, art.Elements)
		enrichMembers(model, art.Actions)
		enrichMembers(model, art.Params)
		enrichMembers(model, art.Enum)
		if art.Query != nil {
			enrichQuery(model, art.Query)
		}
	}
	return nil
}

func enrichArtifact(model *csn.Model, art *csn.Artifact) {
	enrichRef(model, art.Type)
	enrichRef(model, art.Target)
	enrichRef(model, art.TargetAspect)
	for _, inc := range art.Includes {
		enrichRef(model, inc)
	}
}

func enrichMembers(model *csn.Model, dict *csn.Dict[csn.ID]) {
	if dict == nil {
		return
	}
	for _, id := range dict.Values() {
		mem, ok := model.Members[id]
		if !ok {
			continue
		}
		enrichRef(model, mem.Type)
		enrichRef(model, mem.Target)
		enrichRef(model, mem.TargetAspect)
		for _, inc := range mem.Includes {
			enrichRef(model, inc)
		}
		enrichMembers(model, mem.Elements)
		enrichMembers(model, mem.Params)
		enrichMembers(model, mem.Enum)
	}
}

func enrichQuery(model *csn.Model, q *csn.Query) {
	if q.From != nil && q.From.Path != nil {
		enrichRef(model, q.From.Path)
	}
	for _, argID := range q.SetArgs {
		if arg, ok := model.Queries[argID]; ok {
			enrichQuery(model, arg)
		}
	}
}

func enrichRef(model *csn.Model, ref *csn.PathRef) {
	if ref == nil || !ref.IsResolved() {
		return
	}
	model.SetEnrichedType(ref.ID, ref.TerminalArt)
	model.SetEnrichedLinks(ref.ID, ref.Links)
	model.SetEnrichedArt(ref.ID, ref.TerminalArt)
	model.SetEnrichedScope(ref.ID, ref.Scope)

	path := make([]string, len(ref.Path))
	for i, item := range ref.Path {
		path[i] = item.ID
	}
	model.SetEnrichedPath(ref.ID, path)
}

// Cleanup discards every enrichment side-table entry, reverting the model
// to its pre-enrich state (spec.md §9: enrichment is meant to be
// re-derivable and disposable, unlike the arena nodes themselves).
func Cleanup(ctx *csn.CompileContext) {
	ctx.Model.ClearEnrichment()
}
