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

// ExtensionKind distinguishes `extend` from `annotate` directives.
type ExtensionKind int

const (
	ExtendDirective ExtensionKind = iota
	AnnotateDirective
)

// Extension is one `extend` or `annotate` directive (spec.md §3
// "Extension"). Extensions are collected by the ingestor into a global
// index keyed by absolute target name, and applied at most once per
// applicable artifact by the extend package; AppliedArt records which
// artifact the extension was folded into once that happens.
type Extension struct {
	ID         ID
	Kind       ExtensionKind
	TargetName string // absolute dotted target name
	Block      ID     // owning Source
	ExpectedKind ArtifactKind

	NewElements *Dict[ID] // new Member IDs to add
	NewActions  *Dict[ID]
	Columns     []Column // for `extend projection`
	Includes    []*PathRef
	Annotations map[string]Value

	// AppliedArt is set once this extension has been folded into an
	// artifact; NoID means "not yet applied". Per spec.md §4.3 this is the
	// "_artifact link on an extension's name indicates 'applied'" rule.
	AppliedArt ID

	Loc Location
}

// IsApplied reports whether this extension has already been folded in.
func (e *Extension) IsApplied() bool {
	return e.AppliedArt != NoID
}
