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

// Package authrewrite is the request-layer authorisation rewriter of
// spec.md §4.6, adapted from the teacher's auth package: where auth.Auth
// checks a connection's granted Permission bitset, Checker evaluates a CSN
// artifact's `@requires`/`@restrict` annotations against a request's user
// attributes, using the inspector to resolve `$user.<attr>` references and
// to expand structured references into leaf paths preserving declaration
// order.
package authrewrite

import (
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/ehb93/cds-pg-sub004/csn"
	"github.com/ehb93/cds-pg-sub004/inspect"
)

// Permission holds the CRUD-ish grants an entity/event can require.
type Permission int

const (
	// ReadPerm means the request reads data.
	ReadPerm Permission = 1 << iota
	// WritePerm means the request creates, updates, or deletes data.
	WritePerm
	// CreatePerm means the request creates an entry.
	CreatePerm
	// UpdatePerm means the request updates an existing entry.
	UpdatePerm
	// DeletePerm means the request deletes an entry.
	DeletePerm
)

// AllPermissions holds all defined permissions.
var AllPermissions = ReadPerm | WritePerm | CreatePerm | UpdatePerm | DeletePerm

// PermissionNames translates a `@restrict.grant` entry to a Permission.
var PermissionNames = map[string]Permission{
	"READ":   ReadPerm,
	"WRITE":  WritePerm,
	"CREATE": CreatePerm,
	"UPDATE": UpdatePerm,
	"DELETE": DeletePerm,
	"*":      AllPermissions,
}

func (p Permission) String() string {
	var names []string
	for name, v := range PermissionNames {
		if v == AllPermissions {
			continue
		}
		if p&v != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

var (
	// ErrNotAuthorized is returned when a request is refused by
	// `@requires`/`@restrict`.
	ErrNotAuthorized = errors.NewKind("not authorized")
	// ErrNoPermission is returned when the user lacks the needed permission.
	ErrNoPermission = errors.NewKind("user does not have permission: %s")
	// ErrUnsupportedWhere is returned when a `@restrict.where` condition uses
	// an operator or reference shape outside the supported subset (`=`
	// combined with `and`/`or`/`not`, operands that are literals or
	// `$user.<attr>` references).
	ErrUnsupportedWhere = errors.NewKind("unsupported @restrict where-condition: %s")
)

// UserContext is the runtime user a request is evaluated against: the
// `$user` that `@restrict.where` conditions and the texts-entity
// `localized` on-condition's `$user.locale` are resolved to.
type UserContext struct {
	Name  string
	Roles []string
	// Attrs maps a dotted attribute path (the path after "$user", e.g.
	// "level" or "address.country") to its value.
	Attrs map[string]csn.Value
}

// HasRole reports whether u holds any of the given roles.
func (u *UserContext) HasRole(roles []string) bool {
	if u == nil {
		return false
	}
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Attr looks up a dotted attribute path.
func (u *UserContext) Attr(path string) (csn.Value, bool) {
	if u == nil || u.Attrs == nil {
		return csn.Value{}, false
	}
	v, ok := u.Attrs[path]
	return v, ok
}

// AccessChecker is satisfied by both Checker and AllowAll, so a consumer
// can be handed either without caring which authorisation mode is active.
type AccessChecker interface {
	Allowed(user *UserContext, id csn.ID, permission Permission) error
}

// Checker evaluates `@requires`/`@restrict` against a UserContext for
// artifacts of one Model (spec.md §4.6).
type Checker struct {
	model *csn.Model
	insp  *inspect.Inspector
}

// New returns a Checker over model.
func New(model *csn.Model) *Checker {
	return &Checker{model: model, insp: inspect.New(model)}
}

// Allowed checks whether user may use permission on the artifact id names.
// It returns ErrNotAuthorized (wrapping ErrNoPermission or the where-clause
// mismatch) when the request must be refused, and nil when it may proceed.
// An artifact with neither annotation is public.
func (c *Checker) Allowed(user *UserContext, id csn.ID, permission Permission) error {
	art, ok := c.model.Artifacts[id]
	if !ok {
		return nil
	}

	if reqV, ok := art.Annotations["@requires"]; ok {
		roles := stringList(reqV)
		if len(roles) > 0 && !user.HasRole(roles) {
			return ErrNotAuthorized.Wrap(ErrNoPermission.New(permission))
		}
	}

	restrV, ok := art.Annotations["@restrict"]
	if !ok {
		return nil
	}
	entries := restrictEntries(restrV)
	if len(entries) == 0 {
		return nil
	}
	return c.evalRestrict(entries, user, permission)
}

func (c *Checker) evalRestrict(entries []RestrictEntry, user *UserContext, permission Permission) error {
	for _, entry := range entries {
		if !grants(entry.Grant, permission) {
			continue
		}
		if len(entry.To) > 0 && !user.HasRole(entry.To) {
			continue
		}
		if entry.Where != nil {
			ok, err := c.evaluate(entry.Where, user)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}
		return nil
	}
	return ErrNotAuthorized.Wrap(ErrNoPermission.New(permission))
}

func grants(grant []string, permission Permission) bool {
	if len(grant) == 0 {
		return true
	}
	for _, name := range grant {
		if p, ok := PermissionNames[strings.ToUpper(name)]; ok && p&permission != 0 {
			return true
		}
	}
	return false
}
