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

// Package check runs the final structural/shape validation batch of
// spec.md §4.3's last pipeline stage: cardinality shape, name clashes
// between sibling members, and the managed-composition shape restrictions.
// Entirely skipped when Options.LintMode is set, the same way engine.go's
// ParseOnly-style flags short-circuit later analyzer batches.
package check

import (
	"strings"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// Run validates the model in place, reporting every violation found rather
// than stopping at the first (spec.md §5 "a phase collects every
// diagnostic it can before deciding whether to abort").
func Run(ctx *csn.CompileContext) error {
	if ctx.Options.LintMode {
		return nil
	}

	span := ctx.Phase("check")
	defer span.Finish()

	model := ctx.Model
	for _, art := range model.Artifacts {
		if !art.IsTopLevel() {
			continue
		}
		checkManagedCompositionShape(ctx, art)
		checkDefaultOnIllegalMember(ctx, art)
		checkCardinalityShape(ctx, art)
		checkSiblingNameClashes(ctx, art)
	}
	return nil
}

// checkCardinalityShape rejects an association/composition's Cardinality
// when its fields can't describe a real shape: a negative Max or SrcMax, or
// an SrcMax narrower than its own SrcMin (spec.md §4.6).
func checkCardinalityShape(ctx *csn.CompileContext, art *csn.Artifact) {
	if art.Elements == nil {
		return
	}
	model := ctx.Model
	art.Elements.Each(func(_ string, id csn.ID) bool {
		mem, ok := model.Members[id]
		if !ok || mem.AssocKind == csn.NotAssoc {
			return true
		}
		c := mem.Cardinality
		if c.Max < 0 {
			ctx.Sink.Errorf("cardinality-shape", mem.Loc, mem.Name,
				"cardinality max %d is negative", c.Max)
		}
		if c.SrcMax < 0 {
			ctx.Sink.Errorf("cardinality-shape", mem.Loc, mem.Name,
				"source cardinality max %d is negative", c.SrcMax)
		}
		if c.SrcMax != 0 && c.SrcMin > c.SrcMax {
			ctx.Sink.Errorf("cardinality-shape", mem.Loc, mem.Name,
				"source cardinality min %d exceeds max %d", c.SrcMin, c.SrcMax)
		}
		return true
	})
}

// checkSiblingNameClashes rejects two elements of the same artifact whose
// names differ only in case: most SQL backends fold identifiers, so "ID"
// and "Id" as siblings would collide once materialized (spec.md §4.6).
func checkSiblingNameClashes(ctx *csn.CompileContext, art *csn.Artifact) {
	if art.Elements == nil {
		return
	}
	model := ctx.Model
	seen := make(map[string]string, art.Elements.Len())
	for _, name := range art.Elements.Names() {
		folded := strings.ToLower(name)
		other, clash := seen[folded]
		if !clash {
			seen[folded] = name
			continue
		}
		if other == name {
			continue
		}
		id, _ := art.Elements.Get(name)
		var loc csn.Location
		if mem, ok := model.Members[id]; ok {
			loc = mem.Loc
		}
		ctx.Sink.Errorf("sibling-name-clash", loc, name,
			"element %q clashes with sibling %q once case-folded", name, other)
	}
}

// checkManagedCompositionShape enforces spec.md §4.6's restrictions: a
// managed aspect-composition element cannot also carry foreignKeys or an
// explicit on-condition.
func checkManagedCompositionShape(ctx *csn.CompileContext, art *csn.Artifact) {
	if art.Elements == nil {
		return
	}
	model := ctx.Model
	art.Elements.Each(func(_ string, id csn.ID) bool {
		mem, ok := model.Members[id]
		if !ok || mem.AssocKind != csn.Composition || mem.TargetAspect == nil {
			return true
		}
		if len(mem.ForeignKeys) > 0 {
			ctx.Sink.Errorf("foreign-keys-with-aspect", mem.Loc, mem.Name,
				"can't combine foreignKeys with a managed aspect composition")
		}
		if mem.OnCondition != nil {
			ctx.Sink.Errorf("on-with-managed-aspect", mem.Loc, mem.Name,
				"can't specify on-condition for a managed aspect composition")
		}
		return true
	})
}

// checkDefaultOnIllegalMember reports a default value on a member kind
// that spec.md §4.6 does not allow one on (actions, functions, params
// aside, associations/compositions can't default either).
func checkDefaultOnIllegalMember(ctx *csn.CompileContext, art *csn.Artifact) {
	if art.Elements == nil {
		return
	}
	model := ctx.Model
	art.Elements.Each(func(_ string, id csn.ID) bool {
		mem, ok := model.Members[id]
		if !ok || mem.Default == nil {
			return true
		}
		if mem.AssocKind != csn.NotAssoc {
			ctx.Sink.Errorf("default-on-illegal-member", mem.Loc, mem.Name,
				"default values are not allowed on %s", mem.Kind)
		}
		return true
	})
}
