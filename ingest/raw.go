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

// Package ingest implements the source ingestor (spec.md §4.1): it accepts
// a deterministic ordered dictionary of per-file pre-parsed source ASTs or
// CSN documents and normalises them into the shared csn.Model. The CDL
// lexer/grammar itself is out of scope (spec.md §1); RawSource is the
// boundary shape a caller (or an injected Parser) is expected to already
// have produced from CDL text.
package ingest

import "github.com/ehb93/cds-pg-sub004/csn"

// RawSource is one file's pre-parsed content: either a CDL-shaped AST
// (Artifacts/Usings/Namespace set) or a CSN document (CSN set). Exactly one
// of CSN or the AST-shaped fields should be populated.
type RawSource struct {
	// AST-shaped input.
	Namespace string
	Usings    []csn.UsingDirective
	Artifacts *csn.Dict[*RawArtifact] // local top-level name -> definition
	Extensions []*RawExtension
	Vocabularies *csn.Dict[*RawArtifact]
	I18n      map[string]map[string]string

	// CSN-shaped input: definitions, keyed by absolute name, decoded from a
	// JSON (or otherwise deserialised) CSN document.
	CSN *RawCSNDoc

	// ParseFailed marks a source whose upstream parser failed; the
	// ingestor still assigns it kind="source" and continues (spec.md
	// §4.1 "Edge cases").
	ParseFailed bool

	Loc csn.Location
}

// RawCSNDoc is a decoded CSN document: `definitions` plus whatever `using`/
// i18n sections a CSN-as-input file carries in the rare case a whole
// dependency is supplied as already-compiled CSN.
type RawCSNDoc struct {
	Definitions *csn.Dict[*RawArtifact]
	Namespace   string
	I18n        map[string]map[string]string
}

// RawArtifact mirrors csn.Artifact's shape before arena materialisation:
// no ID, no link slots, references expressed as RawRef instead of
// csn.PathRef (since path resolution happens long after ingest).
type RawArtifact struct {
	Kind ArtifactKindHint

	Elements *csn.Dict[*RawArtifact]
	Actions  *csn.Dict[*RawArtifact]
	Params   *csn.Dict[*RawArtifact]
	Enum     *csn.Dict[*RawArtifact]

	Type         *RawRef
	Target       *RawRef
	InlineAspect *csn.Dict[*RawArtifact] // set when Target names an anonymous inline aspect

	AssocKind   csn.AssocKind
	Cardinality csn.Cardinality
	OnCondition csn.Expr
	ForeignKeys []string

	Includes []*RawRef

	Query *RawQuery

	Annotations map[string]csn.Value

	Key       bool
	Masked    bool
	NotNull   bool
	Localized bool
	Virtual   bool
	Default   *csn.Value
	Length    int

	Loc csn.Location
}

// ArtifactKindHint is the kind tag a raw input carries; it is looser than
// csn.ArtifactKind/MemberKind because the same shape is reused for both
// top-level artifacts and members before the definer decides which of the
// two a given name becomes.
type ArtifactKindHint int

const (
	HintUnknown ArtifactKindHint = iota
	HintNamespace
	HintContext
	HintService
	HintEntity
	HintType
	HintAspect
	HintEvent
	HintAction
	HintFunction
	HintAnnotationDecl
	HintElement
	HintEnumValue
	HintParam
	HintReturns
)

// RawRef is an unresolved path reference as it appears in source: a
// sequence of dotted-path ids, each optionally filtered/called, with
// expand/inline continuations.
type RawRef struct {
	Items      []csn.PathItem
	ContextKey csn.ReferenceContext
}

// RawQuery mirrors csn.Query before arena materialisation; From/Mixins
// reference RawRef/raw mixin definitions rather than resolved IDs.
type RawQuery struct {
	Kind csn.QueryKind

	From    *RawFromClause
	Columns []csn.Column
	Where   csn.Expr
	GroupBy []csn.Expr
	Having  csn.Expr
	OrderBy []csn.OrderItem
	Limit   *csn.Value
	Offset  *csn.Value
	Mixins  *csn.Dict[*RawArtifact] // mixin name -> association-shaped definition

	SetOp   string
	SetArgs []*RawQuery
}

// RawFromClause mirrors csn.FromClause.
type RawFromClause struct {
	Path     *RawRef
	Subquery *RawQuery
	Join     *RawJoinClause
	Alias    string
}

// RawJoinClause mirrors csn.JoinClause.
type RawJoinClause struct {
	Kind        string
	Left, Right *RawFromClause
	On          csn.Expr
	Natural     bool
}

// RawExtension is one `extend`/`annotate` directive as it appears in
// source, before the target name has been resolved against the global
// dictionary.
type RawExtension struct {
	Kind         csn.ExtensionKind
	TargetPath   []string // dotted target name, split
	ExpectedKind csn.ArtifactKind

	NewElements *csn.Dict[*RawArtifact]
	NewActions  *csn.Dict[*RawArtifact]
	Columns     []csn.Column
	Includes    []*RawRef
	Annotations map[string]csn.Value

	Loc csn.Location
}
