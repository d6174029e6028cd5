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

// Package definer runs the two definer sub-phases of spec.md §4.2: Add
// links every top-level artifact to its nearest enclosing context/service
// (_parent, _subArtifacts), and Init fills in the remaining back-links
// (_main on members, _service, query hierarchy) that depend on Add having
// run first.
package definer

import (
	"sort"
	"strings"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// Add walks model.Definitions and, for every definition whose absolute name
// is dotted, finds the nearest enclosing definition that is itself a
// context or service and records the parent/child link (_parent,
// _subArtifacts). A namespace segment in the dotted name that is not itself
// a definition contributes nothing but naming structure, matching spec.md
// §3's "namespace is a naming device, not an owning artifact".
func Add(ctx *csn.CompileContext) error {
	span := ctx.Phase("define.add")
	defer span.Finish()

	model := ctx.Model
	names := model.Definitions.Names()
	sort.Strings(names) // deterministic regardless of ingestion order

	for _, name := range names {
		id, _ := model.Definitions.Get(name)
		art := model.Artifacts[id]
		parentID, parentName := nearestOwningParent(model, name)
		if parentID == csn.NoID {
			continue
		}
		parent := model.Artifacts[parentID]
		if parent.Kind != csn.KindContext && parent.Kind != csn.KindService {
			continue
		}
		art.Parent = parentID
		parent.SubArtifacts = append(parent.SubArtifacts, art.ID)
		_ = parentName
	}
	return nil
}

// nearestOwningParent returns the longest strict dotted prefix of name that
// is itself a registered definition, or csn.NoID if none is.
func nearestOwningParent(model *csn.Model, name string) (csn.ID, string) {
	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i > 0; i-- {
		prefix := strings.Join(parts[:i], ".")
		if id, ok := model.Definitions.Get(prefix); ok {
			return id, prefix
		}
	}
	return csn.NoID, ""
}
