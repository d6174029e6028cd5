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

package ingest

import "github.com/ehb93/cds-pg-sub004/csn"

// materializeArtifact allocates a csn.Artifact for def and recursively
// materialises its elements/actions/params/enum into the model's member
// arena. Link slots that later phases own (_parent, _main, _service,
// _ancestors, _subArtifacts, _origin) are left zero; the definer fills them
// in during sub-phases 1 and 2 (spec.md §4.1 "ingest only allocates nodes
// and names; it does not link them").
func materializeArtifact(ctx *csn.CompileContext, absName string, def *RawArtifact) *csn.Artifact {
	model := ctx.Model
	art := model.NewArtifactID(absName, hintToArtifactKind(def.Kind))
	art.Loc = def.Loc
	art.Annotations = def.Annotations

	art.Type = materializeRef(ctx, def.Type, csn.CtxType)
	art.Target = materializeRef(ctx, def.Target, csn.CtxTarget)
	art.AssocKind = def.AssocKind
	art.Cardinality = def.Cardinality
	art.OnCondition = def.OnCondition
	art.ForeignKeys = def.ForeignKeys

	for _, inc := range def.Includes {
		art.Includes = append(art.Includes, materializeRef(ctx, inc, csn.CtxIncludes))
	}

	if def.InlineAspect != nil {
		art.InlineAspect = materializeMembers(ctx, art.ID, def.InlineAspect)
	}
	if def.Elements != nil {
		art.Elements = materializeMembers(ctx, art.ID, def.Elements)
	}
	if def.Actions != nil {
		art.Actions = materializeMembers(ctx, art.ID, def.Actions)
	}
	if def.Params != nil {
		art.Params = materializeMembers(ctx, art.ID, def.Params)
	}
	if def.Enum != nil {
		art.Enum = materializeMembers(ctx, art.ID, def.Enum)
	}

	if def.Query != nil {
		art.Query = materializeQuery(ctx, def.Query)
	}

	return art
}

// materializeMembers materialises a dict of RawArtifact (the shape reused
// for members) into a Dict of Member IDs parented under owner.
func materializeMembers(ctx *csn.CompileContext, owner csn.ID, raw *csn.Dict[*RawArtifact]) *csn.Dict[csn.ID] {
	model := ctx.Model
	out := csn.NewDict[csn.ID]()
	raw.Each(func(name string, def *RawArtifact) bool {
		mem := model.NewMemberID(name, hintToMemberKind(def.Kind))
		mem.Component = name
		mem.Parent = owner
		mem.Loc = def.Loc
		mem.Annotations = def.Annotations

		mem.Type = materializeRef(ctx, def.Type, csn.CtxType)
		mem.Target = materializeRef(ctx, def.Target, csn.CtxTarget)
		mem.AssocKind = def.AssocKind
		mem.Cardinality = def.Cardinality
		mem.OnCondition = def.OnCondition
		mem.ForeignKeys = def.ForeignKeys

		mem.Key = def.Key
		mem.Masked = def.Masked
		mem.NotNull = def.NotNull
		mem.Localized = def.Localized
		mem.Virtual = def.Virtual
		mem.Default = def.Default
		mem.Length = def.Length

		for _, inc := range def.Includes {
			mem.Includes = append(mem.Includes, materializeRef(ctx, inc, csn.CtxIncludes))
		}

		if def.InlineAspect != nil {
			mem.InlineAspect = materializeMembers(ctx, mem.ID, def.InlineAspect)
		}
		if def.Elements != nil {
			mem.Elements = materializeMembers(ctx, mem.ID, def.Elements)
		}
		if def.Actions != nil {
			mem.Actions = materializeMembers(ctx, mem.ID, def.Actions)
		}
		if def.Params != nil {
			mem.Params = materializeMembers(ctx, mem.ID, def.Params)
		}
		if def.Enum != nil {
			mem.Enum = materializeMembers(ctx, mem.ID, def.Enum)
		}

		if !out.Set(name, mem.ID) {
			ctx.Sink.Errorf("duplicate-definition", def.Loc, name, "duplicate member %q", name)
		}
		return true
	})
	return out
}

func materializeRef(ctx *csn.CompileContext, ref *RawRef, fallback csn.ReferenceContext) *csn.PathRef {
	if ref == nil {
		return nil
	}
	ctxKey := ref.ContextKey
	if ctxKey == "" {
		ctxKey = fallback
	}
	return ctx.Model.NewPathRefID(ref.Items, ctxKey)
}

func materializeQuery(ctx *csn.CompileContext, raw *RawQuery) *csn.Query {
	model := ctx.Model
	q := model.NewQueryID(raw.Kind)
	q.Columns = raw.Columns
	q.Where = raw.Where
	q.GroupBy = raw.GroupBy
	q.Having = raw.Having
	q.OrderBy = raw.OrderBy
	q.Limit = raw.Limit
	q.Offset = raw.Offset
	q.SetOp = raw.SetOp

	if raw.From != nil {
		q.From = materializeFrom(ctx, raw.From)
	}
	if raw.Mixins != nil {
		q.Mixins = materializeMembers(ctx, q.ID, raw.Mixins)
	}
	for _, arg := range raw.SetArgs {
		sub := materializeQuery(ctx, arg)
		sub.Parent = q.ID
		q.SetArgs = append(q.SetArgs, sub.ID)
	}
	return q
}

func materializeFrom(ctx *csn.CompileContext, raw *RawFromClause) *csn.FromClause {
	if raw == nil {
		return nil
	}
	fc := &csn.FromClause{Alias: raw.Alias}
	if raw.Path != nil {
		fc.Path = materializeRef(ctx, raw.Path, csn.CtxFrom)
	}
	if raw.Subquery != nil {
		sub := materializeQuery(ctx, raw.Subquery)
		fc.Subquery = sub.ID
	}
	if raw.Join != nil {
		fc.Join = &csn.JoinClause{
			Kind:    raw.Join.Kind,
			On:      raw.Join.On,
			Natural: raw.Join.Natural,
			Left:    materializeFrom(ctx, raw.Join.Left),
			Right:   materializeFrom(ctx, raw.Join.Right),
		}
	}
	return fc
}

// materializeExtension registers one `extend`/`annotate` directive into the
// model's global extension index, keyed by its (still unresolved) dotted
// target name. The extend phase resolves the target and applies it
// (spec.md §4.1 "ingest records extensions; it never applies them").
func materializeExtension(ctx *csn.CompileContext, src *csn.Source, raw *RawExtension) {
	model := ctx.Model
	targetName := joinDotted(raw.TargetPath)

	ext := &csn.Extension{
		ID:           model.NewExtensionID(),
		Kind:         raw.Kind,
		TargetName:   targetName,
		Block:        src.ID,
		ExpectedKind: raw.ExpectedKind,
		Columns:      raw.Columns,
		Annotations:  raw.Annotations,
		Loc:          raw.Loc,
	}

	if raw.NewElements != nil {
		ext.NewElements = materializeMembers(ctx, csn.NoID, raw.NewElements)
	}
	if raw.NewActions != nil {
		ext.NewActions = materializeMembers(ctx, csn.NoID, raw.NewActions)
	}
	for _, inc := range raw.Includes {
		ext.Includes = append(ext.Includes, materializeRef(ctx, inc, csn.CtxIncludes))
	}

	model.Extensions[targetName] = append(model.Extensions[targetName], ext)
}

func joinDotted(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

func hintToArtifactKind(h ArtifactKindHint) csn.ArtifactKind {
	switch h {
	case HintNamespace:
		return csn.KindNamespace
	case HintContext:
		return csn.KindContext
	case HintService:
		return csn.KindService
	case HintEntity:
		return csn.KindEntity
	case HintType:
		return csn.KindType
	case HintAspect:
		return csn.KindAspect
	case HintEvent:
		return csn.KindEvent
	case HintAction:
		return csn.KindAction
	case HintFunction:
		return csn.KindFunction
	case HintAnnotationDecl:
		return csn.KindAnnotationDecl
	default:
		return csn.KindUnknown
	}
}

func hintToMemberKind(h ArtifactKindHint) csn.MemberKind {
	switch h {
	case HintElement:
		return csn.MemberElement
	case HintEnumValue:
		return csn.MemberEnumValue
	case HintAction:
		return csn.MemberAction
	case HintFunction:
		return csn.MemberFunction
	case HintParam:
		return csn.MemberParam
	case HintReturns:
		return csn.MemberReturns
	default:
		return csn.MemberElement
	}
}
