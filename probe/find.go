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

// FindResult is the go-to-definition answer for one Find call.
type FindResult struct {
	Found bool
	Name  string // absolute name of the artifact/member the reference resolved to
	Kind  string // "artifact" | "member"
	Loc   csn.Location
}

// Find resolves the reference under pos to its definition site (spec.md §6
// `find ‹line› ‹col› ‹file›`).
func Find(model *csn.Model, pos Position) FindResult {
	ref := refAt(model, pos)
	if ref == nil || !ref.IsResolved() {
		return FindResult{}
	}
	if art, ok := model.Artifacts[ref.TerminalArt]; ok {
		return FindResult{Found: true, Name: art.Name, Kind: "artifact", Loc: art.Loc}
	}
	if mem, ok := model.Members[ref.TerminalArt]; ok {
		return FindResult{Found: true, Name: mem.Name, Kind: "member", Loc: mem.Loc}
	}
	return FindResult{}
}
