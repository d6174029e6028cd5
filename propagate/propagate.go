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

// Package propagate carries annotations and flags outward along the three
// channels spec.md §4.3 describes: include chains, service nesting, and
// (for projections/views) the origin element a view column was copied
// from.
package propagate

import "github.com/ehb93/cds-pg-sub004/csn"

// Run must execute after resolve, since it needs resolved Includes/Target
// PathRefs to find each artifact's ancestors and composition targets.
func Run(ctx *csn.CompileContext) error {
	span := ctx.Phase("propagate")
	defer span.Finish()

	model := ctx.Model

	for _, art := range model.Artifacts {
		propagateIncludes(model, art)
	}
	for _, art := range model.Artifacts {
		if art.Kind == csn.KindService {
			propagateDraftEnabled(model, art)
		}
	}
	for _, art := range model.Artifacts {
		markCompositionTargets(model, art)
		if art.Elements != nil {
			art.Elements.Each(func(_ string, id csn.ID) bool {
				if mem, ok := model.Members[id]; ok {
					markMemberCompositionTarget(model, mem)
				}
				return true
			})
		}
	}
	for _, art := range model.Artifacts {
		if art.Query != nil {
			propagateOrigin(model, art)
		}
	}
	return nil
}

// propagateIncludes fills in annotations the artifact doesn't already carry
// from each ancestor named by a resolved Includes reference, nearest
// ancestor first (spec.md §4.3 "include order decides precedence on a tie").
func propagateIncludes(model *csn.Model, art *csn.Artifact) {
	for _, inc := range art.Includes {
		if inc == nil || !inc.IsResolved() {
			continue
		}
		ancestor, ok := model.Artifacts[inc.TerminalArt]
		if !ok {
			continue
		}
		art.Ancestors = append(art.Ancestors, ancestor.ID)
		for k, v := range ancestor.Annotations {
			if art.Annotations == nil {
				art.Annotations = make(map[string]csn.Value)
			}
			if _, has := art.Annotations[k]; !has {
				art.Annotations[k] = v
			}
		}
	}
}

// propagateDraftEnabled copies a service's `@fiori.draft.enabled`
// annotation down onto every entity it directly contains, unless that
// entity already states its own value (spec.md §4.3).
func propagateDraftEnabled(model *csn.Model, service *csn.Artifact) {
	v, has := service.Annotations["@fiori.draft.enabled"]
	if !has {
		return
	}
	enabled, _ := v.Raw.(bool)
	if !enabled {
		return
	}
	for _, subID := range service.SubArtifacts {
		sub, ok := model.Artifacts[subID]
		if !ok || sub.Kind != csn.KindEntity {
			continue
		}
		if _, overridden := sub.Annotations["@fiori.draft.enabled"]; overridden {
			continue
		}
		sub.DraftEnabled = true
	}
}

// markCompositionTargets records, in model.CompositionTargets, every
// artifact reached as the resolved Target of a Composition (not a plain
// Association) element, so later passes (referential-constraint
// generation in authrewrite, draft handling) can ask "is this entity only
// ever reachable as someone's composition child?" in O(1).
func markCompositionTargets(model *csn.Model, art *csn.Artifact) {
	if art.Elements == nil {
		return
	}
	art.Elements.Each(func(_ string, id csn.ID) bool {
		if mem, ok := model.Members[id]; ok {
			markMemberCompositionTarget(model, mem)
		}
		return true
	})
}

func markMemberCompositionTarget(model *csn.Model, mem *csn.Member) {
	if mem.AssocKind != csn.Composition || mem.Target == nil || !mem.Target.IsResolved() {
		return
	}
	model.CompositionTargets[mem.Target.TerminalArt] = true
}

// propagateOrigin copies masked/key flags from the element a view element's
// Member.Origin names back onto the view's own element (spec.md §4.3
// "masked/key flags travel with ref, not with alias"). No phase sets Origin
// on a view's elements: the definer does not materialize query columns into
// Members, and derive sets Origin only on generated texts entities, which
// have no Query.
func propagateOrigin(model *csn.Model, art *csn.Artifact) {
	if art.Elements == nil {
		return
	}
	art.Elements.Each(func(_ string, id csn.ID) bool {
		mem, ok := model.Members[id]
		if !ok || mem.Origin == csn.NoID {
			return true
		}
		origin, ok := model.Members[mem.Origin]
		if !ok {
			return true
		}
		mem.Masked = mem.Masked || origin.Masked
		mem.Key = mem.Key || origin.Key
		return true
	})
}
