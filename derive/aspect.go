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

package derive

import "github.com/ehb93/cds-pg-sub004/csn"

// GenerateAspectTargets walks every member carrying an InlineAspect body
// (an anonymous `Composition of many { ... }` target) and synthesizes the
// backing top-level entity spec.md §4.3 describes: a generated entity named
// after the owning artifact and the composition's component path, carrying
// the inline elements plus a generated `up_` foreign key back to the owner
// when the composition is managed.
//
// Refusal cases (spec.md §4.3 "Edge cases"):
//   - the inline body already declares its own `up_` element: ErrForeignKeysWithAspect;
//   - the generated name collides with an existing key element of the same name: ErrGeneratedNameClash;
//   - the generated entity name is already a top-level definition: ErrGeneratedNameClash.
func GenerateAspectTargets(ctx *csn.CompileContext) error {
	span := ctx.Phase("derive.aspect")
	defer span.Finish()

	model := ctx.Model
	for _, art := range model.Artifacts {
		if !art.IsTopLevel() || art.Elements == nil {
			continue
		}
		art.Elements.Each(func(_ string, memID csn.ID) bool {
			mem := model.Members[memID]
			if mem == nil || mem.InlineAspect == nil {
				return true
			}
			generateAspectTarget(ctx, art, mem)
			return true
		})
	}
	return nil
}

func generateAspectTarget(ctx *csn.CompileContext, owner *csn.Artifact, mem *csn.Member) {
	model := ctx.Model

	targetName := aspectTargetName(ctx, owner.Name, mem.Component)
	if _, exists := model.Definitions.Get(targetName); exists {
		ctx.Sink.Errorf("generated-name-clash", mem.Loc, targetName,
			"generated entity name %q already exists", targetName)
		return
	}

	if mem.InlineAspect.Has("up_") {
		ctx.Sink.Errorf("foreign-keys-with-aspect", mem.Loc, targetName,
			"can't combine foreignKeys with a managed aspect composition")
		return
	}

	target := model.NewArtifactID(targetName, csn.KindEntity)
	target.Generated = true
	target.Block = owner.Block
	target.Elements = csn.NewDict[csn.ID]()
	mem.InlineAspect.Each(func(name string, id csn.ID) bool {
		target.Elements.Set(name, id)
		return true
	})

	if mem.AssocKind == csn.Composition {
		up := model.NewMemberID("up_", csn.MemberElement)
		up.Component = "up_"
		up.Key = true
		up.AssocKind = csn.Association
		up.Target = &csn.PathRef{Path: []csn.PathItem{{ID: owner.Name}}}
		if target.Elements.Has("up_") {
			ctx.Sink.Errorf("generated-name-clash", mem.Loc, targetName,
				"generated key element %q already exists on %q", "up_", targetName)
			return
		}
		target.Elements.Set("up_", up.ID)
	}

	model.Definitions.Set(targetName, target.ID)
	model.CompositionTargets[target.ID] = true

	mem.Target = &csn.PathRef{Path: []csn.PathItem{{ID: targetName}}}
	mem.InlineAspect = nil
}

func aspectTargetName(ctx *csn.CompileContext, ownerName, component string) string {
	if ctx.Options.IsDeprecatedEntityNameWithUnderscore() {
		return ownerName + "_" + component
	}
	return ownerName + "." + component
}
