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

package probe

import "github.com/ehb93/cds-pg-sub004/csn"

// CompleteResult is the completion answer for one Complete call: the kinds
// of token the grammar expects at the cursor (derived from the reference
// context, since the lexer/grammar itself is out of scope), and the
// identifier names that would actually resolve there.
type CompleteResult struct {
	ExpectedTokens []string
	ValidNames     []string
}

// expectedTokensByContext maps a PathRef's ContextKey to the human-readable
// token categories valid there (spec.md §4.5's reference-context table).
var expectedTokensByContext = map[string][]string{
	"type":         {"type name", "entity name"},
	"includes":     {"aspect name", "entity name"},
	"target":       {"entity name"},
	"targetAspect": {"aspect name", "entity name"},
	"from":         {"entity name", "view name"},
	"keys":         {"element name"},
	"excluding":    {"element name"},
	"expand":       {"element name"},
	"inline":       {"element name"},
	"ref_where":    {"element name", "magic variable"},
	"on":           {"element name", "magic variable"},
	"orderBy":      {"element name"},
	"orderBy_set":  {"element name"},
	"default":      {"element name", "magic variable"},
}

// Complete substitutes the identifier at pos and reports what it could
// validly have been (spec.md §6 "substitutes an unreachable identifier at
// the cursor and reports expectedTokens plus validNames from the compiler's
// diagnostics").
func Complete(model *csn.Model, pos Position) CompleteResult {
	ref := refAt(model, pos)
	if ref == nil {
		return CompleteResult{}
	}

	result := CompleteResult{ExpectedTokens: expectedTokensByContext[ref.ContextKey]}

	if ref.Unresolved {
		result.ValidNames = ref.ValidNames
		return result
	}
	if !ref.IsResolved() {
		return result
	}

	if art, ok := model.Artifacts[ref.TerminalArt]; ok && art.Elements != nil {
		result.ValidNames = art.Elements.Names()
		return result
	}
	if mem, ok := model.Members[ref.TerminalArt]; ok && mem.Elements != nil {
		result.ValidNames = mem.Elements.Names()
	}
	return result
}
