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

package definer

import "github.com/ehb93/cds-pg-sub004/csn"

// Init fills in _main on every member of every top-level artifact (the
// enclosing top-level artifact, found by walking _parent member links to
// their root) and _service (the nearest ancestor artifact, by _parent
// chain, whose Kind is Service). It must run after Add, since Service
// resolution depends on Add's context/service parent links.
//
// Target-vs-targetAspect normalisation (spec.md §4.2: an association whose
// `target` path actually resolves to a type or aspect, not an entity, is
// rewritten to `targetAspect`) is not done here, since it requires a
// resolved PathRef, and resolve does not do it either: `target` and
// `targetAspect` are resolved as written.
func Init(ctx *csn.CompileContext) error {
	span := ctx.Phase("define.init")
	defer span.Finish()

	model := ctx.Model
	for _, art := range model.Artifacts {
		if !art.IsTopLevel() {
			continue
		}
		art.Service = nearestService(model, art.ID)
		setMembersMain(model, art.ID, art.ID, art.Elements)
		setMembersMain(model, art.ID, art.ID, art.Actions)
		setMembersMain(model, art.ID, art.ID, art.Params)
		setMembersMain(model, art.ID, art.ID, art.Enum)
	}
	return nil
}

func nearestService(model *csn.Model, id csn.ID) csn.ID {
	cur := id
	for cur != csn.NoID {
		art, ok := model.Artifacts[cur]
		if !ok {
			break
		}
		if art.Kind == csn.KindService {
			return art.ID
		}
		cur = art.Parent
	}
	return csn.NoID
}

// setMembersMain recursively stamps Main on every member reachable from
// dict (elements/actions/params/enum), descending into nested structural
// shapes (Elements/Params/Enum/InlineAspect of a member).
func setMembersMain(model *csn.Model, main, parent csn.ID, dict *csn.Dict[csn.ID]) {
	if dict == nil {
		return
	}
	for _, id := range dict.Values() {
		mem, ok := model.Members[id]
		if !ok {
			continue
		}
		mem.Main = main
		mem.Parent = parent
		setMembersMain(model, main, mem.ID, mem.Elements)
		setMembersMain(model, main, mem.ID, mem.Actions)
		setMembersMain(model, main, mem.ID, mem.Params)
		setMembersMain(model, main, mem.ID, mem.Enum)
		setMembersMain(model, main, mem.ID, mem.InlineAspect)
	}
}
