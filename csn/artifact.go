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

package csn

// ArtifactKind is the tagged-sum discriminant for a named definition (spec.md
// §3 "Artifact"), replacing the source's duck-typed "one of" nodes (§9).
type ArtifactKind int

const (
	KindUnknown ArtifactKind = iota
	KindNamespace
	KindContext
	KindService
	KindEntity
	KindType
	KindAspect
	KindEvent
	KindAction
	KindFunction
	KindAnnotationDecl
)

func (k ArtifactKind) String() string {
	switch k {
	case KindNamespace:
		return "namespace"
	case KindContext:
		return "context"
	case KindService:
		return "service"
	case KindEntity:
		return "entity"
	case KindType:
		return "type"
	case KindAspect:
		return "aspect"
	case KindEvent:
		return "event"
	case KindAction:
		return "action"
	case KindFunction:
		return "function"
	case KindAnnotationDecl:
		return "annotation"
	default:
		return "unknown"
	}
}

// Cardinality captures the to-one/to-many and min/max shape of an
// association or composition element.
type Cardinality struct {
	SrcMin, SrcMax int // 0 means unbounded ("*") for Max
	Max            int
}

// AssocKind distinguishes plain associations from compositions, and
// managed from unmanaged ones.
type AssocKind int

const (
	NotAssoc AssocKind = iota
	Association
	Composition
)

// Artifact is a named definition: namespace, context, service, entity, type,
// aspect, event, action, function, or annotation declaration (spec.md §3).
// Shared attributes live here; variant-specific behaviour is read off Kind
// rather than embedding a variant struct, since the set of CDL artifact
// variants is small, closed, and shares the overwhelming majority of its
// shape (spec.md §9 "tagged sum over a small closed set").
type Artifact struct {
	ID   ID
	Name string // absolute dotted name
	Kind ArtifactKind

	Inferred bool // $inferred

	Elements *Dict[ID] // member IDs, kind Element
	Actions  *Dict[ID] // member IDs, kind Action/Function
	Params   *Dict[ID] // member IDs, kind Param
	Enum     *Dict[ID] // member IDs, kind EnumValue

	// Type references this artifact's declared type (for `type`/`event`
	// elements that are themselves type aliases), or nil.
	Type *PathRef
	// Target is the association/composition target entity reference.
	Target *PathRef
	// TargetAspect is set instead of Target when the reference names an
	// aspect or type rather than an entity (definer sub-phase 2 rewrites
	// Target into TargetAspect when this is detected).
	TargetAspect *PathRef
	// InlineAspect holds inline element definitions when TargetAspect names
	// an anonymous inline aspect (Composition of many { ... }), which
	// triggers target-entity generation (spec.md §4.3).
	InlineAspect *Dict[ID]

	AssocKind   AssocKind
	Cardinality Cardinality
	OnCondition Expr   // association/composition `on` condition
	ForeignKeys []string

	Includes []*PathRef

	// Query is set for entities/views defined by a SELECT/UNION (spec.md
	// §3 "Query node").
	Query *Query

	Annotations map[string]Value

	// Link slots, populated by the definer (spec.md §3 Artifact invariants).
	Parent    ID // _parent
	Service   ID // _service, nearest enclosing service
	Ancestors []ID // _ancestors: chain of includes, nearest first
	SubArtifacts []ID // _subArtifacts: members defined as sub-artifacts (context/service)
	Block     ID // _block: owning Source
	Origin    ID // _origin: the artifact this one was copied/derived from, if any
	Main      ID // _main: nil for top-level artifacts

	// DraftEnabled mirrors @fiori.draft.enabled, propagated by propagate.Run.
	DraftEnabled bool

	// Generated is true for entities synthesized by derive (texts entities,
	// aspect-composition targets), so later passes and tooling can tell
	// derived artefacts apart from hand-authored ones.
	Generated bool

	Loc Location
}

// IsTopLevel reports whether this artifact has no enclosing _main.
func (a *Artifact) IsTopLevel() bool {
	return a.Main == NoID
}

// Member is a named member of an artifact: element, enum value, action,
// function, param, returns, mixin, or one of the synthetic query-scope
// members ($tableAlias, $self, $parameters, $join) (spec.md §3 "Member").
type MemberKind int

const (
	MemberUnknown MemberKind = iota
	MemberElement
	MemberEnumValue
	MemberAction
	MemberFunction
	MemberParam
	MemberReturns
	MemberMixin
	MemberTableAlias
	MemberSelf
	MemberParameters
	MemberJoin
)

func (k MemberKind) String() string {
	switch k {
	case MemberElement:
		return "element"
	case MemberEnumValue:
		return "enum value"
	case MemberAction:
		return "action"
	case MemberFunction:
		return "function"
	case MemberParam:
		return "param"
	case MemberReturns:
		return "returns"
	case MemberMixin:
		return "mixin"
	case MemberTableAlias:
		return "$tableAlias"
	case MemberSelf:
		return "$self"
	case MemberParameters:
		return "$parameters"
	case MemberJoin:
		return "$join"
	default:
		return "unknown"
	}
}

// Member mirrors Artifact's shape for named members, plus a Component path
// (the dotted path within the owner -- spec.md §3 Member invariant: a
// member's absolute Name equals its Main's absolute name; Component is kept
// separate).
type Member struct {
	ID        ID
	Name      string // absolute name (== owning artifact's absolute name)
	Component string // dotted path within the owner, e.g. "address.city"
	Kind      MemberKind

	Inferred bool

	Elements *Dict[ID]
	Actions  *Dict[ID]
	Params   *Dict[ID]
	Enum     *Dict[ID]

	Type         *PathRef
	Target       *PathRef
	TargetAspect *PathRef
	InlineAspect *Dict[ID]

	AssocKind   AssocKind
	Cardinality Cardinality
	OnCondition Expr
	ForeignKeys []string

	Key      bool
	Masked   bool
	NotNull  bool
	Localized bool
	Virtual  bool
	Default  *Value
	Length   int

	Includes []*PathRef

	Annotations map[string]Value

	Parent ID // the artifact/member ID that directly owns this member
	Main   ID // the enclosing top-level artifact
	Origin ID // _origin

	// For $tableAlias/$join members: which query this alias belongs to, and
	// (for an explicit FROM path alias) the referenced artifact.
	Query ID
	AliasTarget *PathRef

	Loc Location
}
