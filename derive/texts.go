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

// Package derive synthesizes the generated artifacts spec.md §4.3
// describes: sibling `.texts` entities for localized elements, and target
// entities for anonymous aspect-composition bodies.
package derive

import (
	"github.com/google/uuid"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// GenerateTexts walks every top-level entity with at least one Localized
// element and synthesizes the matching `<Entity>.texts` sibling entity: a
// `locale` key, a foreign key back to the base entity's own keys, and a
// plain (non-localized) copy of each localized element.
//
// If a definition already occupies the generated name, generation for that
// entity is skipped and an info-severity message is raised rather than an
// error -- the Open Question decision recorded in DESIGN.md treats a name
// collision alone (not a shape mismatch) as the trigger; the existing
// definition's element set is not compared.
func GenerateTexts(ctx *csn.CompileContext) error {
	span := ctx.Phase("derive.texts")
	defer span.Finish()

	model := ctx.Model
	for _, name := range model.Definitions.Names() {
		id, _ := model.Definitions.Get(name)
		art := model.Artifacts[id]
		if art.Kind != csn.KindEntity || art.Elements == nil {
			continue
		}

		localized := localizedElements(model, art)
		if len(localized) == 0 {
			continue
		}

		textsName := textsEntityName(ctx, art.Name)
		if _, exists := model.Definitions.Get(textsName); exists {
			ctx.Sink.Infof("texts-entity-name-collision", art.Loc, art.Name,
				"a definition named %q already exists; skipping generated texts entity for %q", textsName, art.Name)
			continue
		}

		baseKeys := keyElements(model, art)

		texts := model.NewArtifactID(textsName, csn.KindEntity)
		texts.Generated = true
		texts.Block = art.Block
		texts.Elements = csn.NewDict[csn.ID]()

		localeKey := textsKeyElement(ctx, model, art)
		texts.Elements.Set(localeKey.Component, localeKey.ID)

		for _, memID := range baseKeys {
			mem := model.Members[memID]
			copy := model.NewMemberID(mem.Name, csn.MemberElement)
			copy.Component = mem.Component
			copy.Type = mem.Type
			copy.Length = mem.Length
			copy.Key = true
			copy.Origin = mem.ID
			texts.Elements.Set(mem.Component, copy.ID)
		}

		for _, memID := range localized {
			mem := model.Members[memID]
			copy := model.NewMemberID(mem.Name, csn.MemberElement)
			copy.Component = mem.Component
			copy.Type = mem.Type
			copy.Length = mem.Length
			copy.Origin = mem.ID
			texts.Elements.Set(mem.Component, copy.ID)
		}

		model.Definitions.Set(textsName, texts.ID)
		model.CompositionTargets[texts.ID] = true

		addTextsBackReferences(ctx, model, art, texts, baseKeys, localeKey)
	}
	return nil
}

// keyElements returns the IDs of art's own key elements, in declaration
// order.
func keyElements(model *csn.Model, art *csn.Artifact) []csn.ID {
	var out []csn.ID
	art.Elements.Each(func(_ string, id csn.ID) bool {
		if mem, ok := model.Members[id]; ok && mem.Key {
			out = append(out, id)
		}
		return true
	})
	return out
}

// addTextsBackReferences adds the `texts` managed composition and the
// `localized` association back onto the base entity (spec.md §4.3). `texts`
// is a plain managed composition -- like generateAspectTarget's `up_`
// back-reference, its on-condition is left for the database layer to derive
// from the foreign keys the managed shape implies, not spelled out here.
// `localized` is an explicit association restricted to the requestor's
// locale, joining the base entity's own keys (as "localized"'s self-alias
// sees its Target's elements, and as "parent" sees the enclosing entity's
// own siblings -- spec.md §4.5) and `$user.locale`.
func addTextsBackReferences(ctx *csn.CompileContext, model *csn.Model, art, texts *csn.Artifact, baseKeys []csn.ID, localeKey *csn.Member) {
	comp := model.NewMemberID("texts", csn.MemberElement)
	comp.Component = "texts"
	comp.AssocKind = csn.Composition
	comp.Cardinality = csn.Cardinality{Max: 0}
	comp.Target = &csn.PathRef{Path: []csn.PathItem{{ID: texts.Name}}}
	art.Elements.Set("texts", comp.ID)

	loc := model.NewMemberID("localized", csn.MemberElement)
	loc.Component = "localized"
	loc.AssocKind = csn.Association
	loc.Cardinality = csn.Cardinality{Max: 1}
	loc.Target = &csn.PathRef{Path: []csn.PathItem{{ID: texts.Name}}}
	loc.OnCondition = localizedOnCondition(model, baseKeys, localeKey)
	art.Elements.Set("localized", loc.ID)
}

// localizedOnCondition builds `localized.<key> = <key> and ... and
// localized.locale = $user.locale`: each key pair's left side is a self-alias
// ref into "localized"'s own Target, its right side a bare sibling ref that
// resolves against the enclosing entity's own elements.
func localizedOnCondition(model *csn.Model, baseKeys []csn.ID, localeKey *csn.Member) csn.Expr {
	exprs := make([]csn.Expr, 0, len(baseKeys)+1)
	for _, id := range baseKeys {
		mem := model.Members[id]
		exprs = append(exprs, &csn.BinOp{
			Op:    "=",
			Left:  pathEqRef("localized", mem.Component),
			Right: pathEqRef(mem.Component),
		})
	}
	exprs = append(exprs, &csn.BinOp{
		Op:    "=",
		Left:  pathEqRef("localized", localeKey.Component),
		Right: pathEqRef("$user", "locale"),
	})
	return &csn.LogicalOp{Op: "and", Exprs: exprs}
}

func pathEqRef(segments ...string) *csn.Ref {
	path := make([]csn.PathItem, len(segments))
	for i, s := range segments {
		path[i] = csn.PathItem{ID: s}
	}
	return &csn.Ref{Path: &csn.PathRef{Path: path}}
}

func localizedElements(model *csn.Model, art *csn.Artifact) []csn.ID {
	var out []csn.ID
	art.Elements.Each(func(_ string, id csn.ID) bool {
		if mem, ok := model.Members[id]; ok && mem.Localized {
			out = append(out, id)
		}
		return true
	})
	return out
}

func textsEntityName(ctx *csn.CompileContext, baseName string) string {
	if ctx.Options.IsDeprecatedEntityNameWithUnderscore() {
		return baseName + "_texts"
	}
	return baseName + ".texts"
}

// textsKeyElement returns the locale-key element for a generated texts
// entity: a plain `locale` element, unless the base entity's DraftEnabled
// flag is set, in which case the key is instead a cds.UUID `ID_texts`
// element whose default is the all-zero UUID under TestMode and a fresh
// random UUID otherwise (spec.md §4.3 draft variant).
func textsKeyElement(ctx *csn.CompileContext, model *csn.Model, art *csn.Artifact) *csn.Member {
	if !art.DraftEnabled {
		locale := model.NewMemberID("locale", csn.MemberElement)
		locale.Component = "locale"
		locale.Key = true
		locale.Type = &csn.PathRef{Path: []csn.PathItem{{ID: "cds.String"}}}
		locale.Length = 14
		return locale
	}

	id := model.NewMemberID("ID_texts", csn.MemberElement)
	id.Component = "ID_texts"
	id.Key = true
	id.Type = &csn.PathRef{Path: []csn.PathItem{{ID: "cds.UUID"}}}
	if ctx.Options.TestMode {
		id.Default = &csn.Value{CdsType: "cds.UUID", Raw: "00000000-0000-0000-0000-000000000000"}
	} else {
		id.Default = &csn.Value{CdsType: "cds.UUID", Raw: uuid.New().String()}
	}
	return id
}
