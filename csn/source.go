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

// UsingDirective is one `using X from 'y'` (or its path-prefix-synthesized
// equivalent, spec.md §4.1) local alias -> module/source dependency.
type UsingDirective struct {
	Alias string
	From  string // target module path, resolved to a Source by the layer graph
	Loc   Location
}

// Source represents one ingested file (spec.md §3 "Source"): a parsed CDL
// AST or a CSN document, normalised into a dictionary of local top-level
// names (pointing at either an Artifact ID or a UsingDirective), plus the
// file's `using` list, optional i18n block, and a back-link to its Layer.
type Source struct {
	ID        ID
	Path      string // the file path/key this source was ingested from
	Namespace string
	Kind      string // "source"; kept even though it's constant, to mirror
	// spec.md §4.1's note that a source with a failed parse still gets
	// kind="source" and is processed rather than dropped.

	// Members maps a local top-level name to a locally defined Artifact ID.
	// `using` entries are not stored here: they live in Usings and, by
	// alias, in UsingsByAlias.
	Members *Dict[ID] // local name -> Artifact ID, for locally-defined artifacts
	UsingsByAlias *Dict[UsingDirective]

	Usings []UsingDirective

	I18n map[string]map[string]string // locale -> key -> text

	Layer ID // back-link to this source's Layer

	ParseFailed bool
	Loc         Location
}

// NewSource returns an empty Source ready for the ingestor to populate.
func NewSource(id ID, path string) *Source {
	return &Source{
		ID:            id,
		Path:          path,
		Kind:          "source",
		Members:       NewDict[ID](),
		UsingsByAlias: NewDict[UsingDirective](),
	}
}
