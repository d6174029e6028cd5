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

// Package probe is the editor-probe core of spec.md §6: `complete`/`find`/
// `lint` over a 1-based `line col file` position, grounded on
// internal/similartext's "maybe you mean X?" shape (adapted into
// internal/similarname) for the identifier candidates completion reports,
// which the resolver stores on an unresolved PathRef; expectedTokens come
// from a fixed per-reference-context table.
package probe

import "github.com/ehb93/cds-pg-sub004/csn"

// Position is a 1-based cursor location, matching cmd/cdsprobe's `line col
// file` command-line shape.
type Position struct {
	File string
	Line int
	Col  int
}

// contains reports whether pos falls within loc's span. A zero EndLine/EndCol
// (a PathItem whose span wasn't tracked past its start) falls back to
// same-line, same-or-later-column.
func contains(loc csn.Location, pos Position) bool {
	if loc.File != pos.File {
		return false
	}
	if loc.EndLine == 0 {
		return loc.Line == pos.Line && pos.Col >= loc.Col
	}
	if pos.Line < loc.Line || pos.Line > loc.EndLine {
		return false
	}
	if pos.Line == loc.Line && pos.Col < loc.Col {
		return false
	}
	if pos.Line == loc.EndLine && pos.Col > loc.EndCol {
		return false
	}
	return true
}

// refAt returns the PathRef whose location most tightly covers pos, i.e. the
// one with the shortest span among all matches (so a nested reference wins
// over its enclosing query).
func refAt(model *csn.Model, pos Position) *csn.PathRef {
	var best *csn.PathRef
	bestSpan := -1
	for _, ref := range model.PathRefs {
		if !contains(ref.Loc, pos) {
			continue
		}
		span := ref.Loc.EndLine*100000 + ref.Loc.EndCol - (ref.Loc.Line*100000 + ref.Loc.Col)
		if best == nil || span < bestSpan {
			best = ref
			bestSpan = span
		}
	}
	return best
}
