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

import (
	"fmt"
	"strings"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// RestrictEntry is one entry of a `@restrict` array: a grant of permissions
// to a set of roles, optionally narrowed by a where-condition (spec.md
// §4.6).
type RestrictEntry struct {
	Grant []string
	To    []string
	Where csn.Expr
}

// restrictEntries parses the `@restrict` annotation Value. The ingester
// hands a structured annotation down as a []csn.Value of per-entry
// map[string]csn.Value objects; any other shape is treated as "no entries"
// rather than an error, since a malformed annotation is a definition-phase
// concern, not a request-time one.
func restrictEntries(v csn.Value) []RestrictEntry {
	list, ok := v.Raw.([]csn.Value)
	if !ok {
		return nil
	}
	var out []RestrictEntry
	for _, item := range list {
		obj, ok := item.Raw.(map[string]csn.Value)
		if !ok {
			continue
		}
		entry := RestrictEntry{}
		if grantV, ok := obj["grant"]; ok {
			entry.Grant = stringList(grantV)
		}
		if toV, ok := obj["to"]; ok {
			entry.To = stringList(toV)
		}
		if whereV, ok := obj["where"]; ok {
			if expr, ok := whereV.Raw.(csn.Expr); ok {
				entry.Where = expr
			}
		}
		out = append(out, entry)
	}
	return out
}

// stringList parses a `@requires`/`@restrict.grant`/`@restrict.to` value,
// which the ingester may have handed down as a single string or a []csn.Value
// of strings.
func stringList(v csn.Value) []string {
	switch raw := v.Raw.(type) {
	case string:
		return []string{raw}
	case []string:
		return raw
	case []csn.Value:
		var out []string
		for _, item := range raw {
			if s, ok := item.Raw.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// evaluate interprets a `@restrict.where` expression against user, per
// spec.md §4.6's restricted subset: `=` comparisons combined with `and`,
// `or` and a one-operand `not`, where each operand is a literal or a
// `$user.<attr>` reference.
func (c *Checker) evaluate(expr csn.Expr, user *UserContext) (bool, error) {
	switch e := expr.(type) {
	case *csn.LogicalOp:
		switch e.Op {
		case "and":
			for _, sub := range e.Exprs {
				ok, err := c.evaluate(sub, user)
				if err != nil || !ok {
					return ok, err
				}
			}
			return true, nil
		case "or":
			for _, sub := range e.Exprs {
				ok, err := c.evaluate(sub, user)
				if err != nil {
					return false, err
				}
				if ok {
					return true, nil
				}
			}
			return false, nil
		case "not":
			if len(e.Exprs) != 1 {
				return false, ErrUnsupportedWhere.New(e.Op)
			}
			ok, err := c.evaluate(e.Exprs[0], user)
			return !ok, err
		default:
			return false, ErrUnsupportedWhere.New(e.Op)
		}
	case *csn.BinOp:
		if e.Op != "=" {
			return false, ErrUnsupportedWhere.New(e.Op)
		}
		left, err := c.operand(e.Left, user)
		if err != nil {
			return false, err
		}
		right, err := c.operand(e.Right, user)
		if err != nil {
			return false, err
		}
		return fmt.Sprintf("%v", left.Raw) == fmt.Sprintf("%v", right.Raw), nil
	default:
		return false, ErrUnsupportedWhere.New(fmt.Sprintf("%T", expr))
	}
}

func (c *Checker) operand(expr csn.Expr, user *UserContext) (csn.Value, error) {
	switch e := expr.(type) {
	case *csn.Literal:
		return e.Value, nil
	case *csn.Ref:
		return c.userAttr(e.Path, user)
	default:
		return csn.Value{}, ErrUnsupportedWhere.New(fmt.Sprintf("%T", expr))
	}
}

// userAttr resolves a `$user.<attr>` PathRef against user, expanding a
// structured reference into its covering leaf paths and requiring exactly
// one (spec.md §4.6's where-conditions compare scalars).
func (c *Checker) userAttr(ref *csn.PathRef, user *UserContext) (csn.Value, error) {
	if len(ref.Path) == 0 || ref.Path[0].ID != "$user" {
		return csn.Value{}, ErrUnsupportedWhere.New("only $user.<attr> references are supported")
	}
	leaves := ExpandLeafPaths(c.insp, ref)
	if len(leaves) != 1 {
		return csn.Value{}, ErrUnsupportedWhere.New("$user reference must name a single scalar attribute")
	}
	v, _ := user.Attr(leaves[0])
	return v, nil
}

// ExpandLeafPaths expands ref into the dotted attribute paths it covers,
// preserving declaration order, following ref's terminal artifact's element
// dictionary one level when it resolved to a structured type (spec.md §4.6
// "expand structured references into leaf paths preserving order"). The
// leading path segment (e.g. "$user") is dropped; an unresolved or scalar
// ref yields its own remaining path as the sole leaf.
func ExpandLeafPaths(insp interface {
	Elements(csn.ID) *csn.Dict[csn.ID]
}, ref *csn.PathRef) []string {
	tail := make([]string, 0, len(ref.Path)-1)
	for _, item := range ref.Path[1:] {
		tail = append(tail, item.ID)
	}
	base := strings.Join(tail, ".")

	if !ref.IsResolved() || insp == nil {
		return []string{base}
	}
	els := insp.Elements(ref.TerminalArt)
	if els == nil || els.Len() == 0 {
		return []string{base}
	}

	var out []string
	for _, name := range els.Names() {
		if base == "" {
			out = append(out, name)
		} else {
			out = append(out, base+"."+name)
		}
	}
	return out
}
