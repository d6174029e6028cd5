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

// MagicVar enumerates the fixed set of `$`-prefixed names with built-in
// meaning (spec.md §9 "'Magic' names starting with $"). Any other
// `$`-prefixed identifier (e.g. a user-defined mixin alias that happens to
// be quoted as `$foo`) falls through to the free-form lexical-chain lookup
// instead of this enum.
type MagicVar int

const (
	NotMagic MagicVar = iota
	MagicSelf
	MagicProjection
	MagicParameters
	MagicUser
	MagicNow
	MagicTenant
	MagicLocale
)

var magicNames = map[string]MagicVar{
	"$self":       MagicSelf,
	"$projection": MagicProjection,
	"$parameters": MagicParameters,
	"$user":       MagicUser,
	"$now":        MagicNow,
	"$tenant":     MagicTenant,
	"$locale":     MagicLocale,
}

// LookupMagic returns the MagicVar for name's first path segment, trying
// the fixed enum before falling back to NotMagic for the lexical chain to
// handle (spec.md §9: "lookup tries the enum first, then the lexical chain
// with a stable tie-break rule").
func LookupMagic(name string) MagicVar {
	if m, ok := magicNames[name]; ok {
		return m
	}
	return NotMagic
}

// ReferenceContext is the canonical string key selecting name-resolution
// semantics for a path (spec.md §4.5's table, and the GLOSSARY's "Reference
// context").
type ReferenceContext string

const (
	CtxType      ReferenceContext = "type"
	CtxIncludes  ReferenceContext = "includes"
	CtxTarget    ReferenceContext = "target"
	CtxTargetAspect ReferenceContext = "targetAspect"
	CtxFrom      ReferenceContext = "from"
	CtxKeys      ReferenceContext = "keys"
	CtxExcluding ReferenceContext = "excluding"
	CtxExpand    ReferenceContext = "expand"
	CtxInline    ReferenceContext = "inline"
	CtxRefWhere  ReferenceContext = "ref_where"
	CtxOn        ReferenceContext = "on"
	CtxOrderBy   ReferenceContext = "orderBy"
	CtxOrderBySet ReferenceContext = "orderBy_set"
	CtxDefault   ReferenceContext = "default" // combined source elements (SELECT columns/where/etc.)
)
