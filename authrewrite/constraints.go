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

package authrewrite

import "github.com/ehb93/cds-pg-sub004/csn"

// OnDeleteRule is the referential action a Constraint enforces.
type OnDeleteRule int

const (
	// OnDeleteRestrict refuses to delete a row that a plain association
	// still points at.
	OnDeleteRestrict OnDeleteRule = iota
	// OnDeleteCascade deletes a composition's children along with its
	// parent.
	OnDeleteCascade
)

func (r OnDeleteRule) String() string {
	if r == OnDeleteCascade {
		return "CASCADE"
	}
	return "RESTRICT"
}

// Constraint is one referential constraint generated from an association or
// composition's `on` condition (spec.md §4.6): Member is the association/
// composition element, Keys is the ordered list of (child key, parent key)
// column pairs the `on` condition equated, and OnDelete is RESTRICT for
// plain associations and CASCADE for compositions.
type Constraint struct {
	Member   csn.ID
	Target   csn.ID
	Keys     [][2]string
	OnDelete OnDeleteRule
}

// GenerateConstraints walks every element of every top-level entity and
// emits a Constraint for each association/composition whose `on` condition
// is covered by spec.md §4.6's supported subset: operators restricted to
// `=`/`and`, and both sides fully covered by keys of the parent. An
// association/composition outside that subset (a third operator, a
// condition that doesn't fully cover the parent's keys, no `on` condition
// at all, an unresolved target) is silently skipped -- such
// entities still compile, they simply don't get a generated constraint.
func GenerateConstraints(model *csn.Model) []Constraint {
	var out []Constraint
	for _, art := range model.Artifacts {
		if !art.IsTopLevel() || art.Elements == nil {
			continue
		}
		walkConstraintMembers(model, art.Elements, &out)
	}
	return out
}

func walkConstraintMembers(model *csn.Model, dict *csn.Dict[csn.ID], out *[]Constraint) {
	for _, id := range dict.Values() {
		mem, ok := model.Members[id]
		if !ok || mem.AssocKind == csn.NotAssoc {
			continue
		}
		if mem.OnCondition == nil || mem.Target == nil || !mem.Target.IsResolved() {
			continue
		}
		keys, ok := equalityKeyPairs(mem.OnCondition)
		if !ok || len(keys) == 0 {
			continue
		}
		if !coversParentKeys(model, mem.Target.TerminalArt, keys) {
			continue
		}
		rule := OnDeleteRestrict
		if mem.AssocKind == csn.Composition {
			rule = OnDeleteCascade
		}
		*out = append(*out, Constraint{
			Member:   mem.ID,
			Target:   mem.Target.TerminalArt,
			Keys:     keys,
			OnDelete: rule,
		})
	}
}

// equalityKeyPairs flattens an `on` condition built from `=` comparisons
// chained with `and` into (left, right) column-name pairs, and reports
// whether every operand was a plain element reference (not a literal or
// function call) and every operator in the tree was `=`/`and`.
func equalityKeyPairs(expr csn.Expr) ([][2]string, bool) {
	switch e := expr.(type) {
	case *csn.LogicalOp:
		if e.Op != "and" {
			return nil, false
		}
		var out [][2]string
		for _, sub := range e.Exprs {
			pairs, ok := equalityKeyPairs(sub)
			if !ok {
				return nil, false
			}
			out = append(out, pairs...)
		}
		return out, true
	case *csn.BinOp:
		if e.Op != "=" {
			return nil, false
		}
		left, ok := leafName(e.Left)
		if !ok {
			return nil, false
		}
		right, ok := leafName(e.Right)
		if !ok {
			return nil, false
		}
		return [][2]string{{left, right}}, true
	default:
		return nil, false
	}
}

func leafName(expr csn.Expr) (string, bool) {
	ref, ok := expr.(*csn.Ref)
	if !ok || ref.Path == nil || len(ref.Path.Path) == 0 {
		return "", false
	}
	last := ref.Path.Path[len(ref.Path.Path)-1]
	return last.ID, true
}

// coversParentKeys reports whether target has key elements and every one of
// them is named, on either side, by at least one pair in keys.
func coversParentKeys(model *csn.Model, target csn.ID, keys [][2]string) bool {
	art, ok := model.Artifacts[target]
	if !ok || art.Elements == nil {
		return false
	}
	var parentKeys []string
	for _, name := range art.Elements.Names() {
		id, _ := art.Elements.Get(name)
		if mem, ok := model.Members[id]; ok && mem.Key {
			parentKeys = append(parentKeys, name)
		}
	}
	if len(parentKeys) == 0 {
		return false
	}

	covered := make(map[string]bool, len(keys))
	for _, pair := range keys {
		covered[pair[0]] = true
		covered[pair[1]] = true
	}
	for _, k := range parentKeys {
		if !covered[k] {
			return false
		}
	}
	return true
}
