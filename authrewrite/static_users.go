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
	"encoding/json"
	"os"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// ErrParseUserFile is given when the static users file is malformed.
var ErrParseUserFile = errors.NewKind("error parsing user file")

// staticUserEntry is one row of a StaticUsers JSON file.
type staticUserEntry struct {
	Name  string            `json:"Name"`
	Roles []string          `json:"Roles"`
	Attrs map[string]string `json:"Attrs"`
}

// StaticUsers is a file-backed user/role/attribute table, the
// @requires/@restrict counterpart of native.go's mysql_native_password user
// file: instead of a password hash and a read/write bitset, each row carries
// the role and `$user.<attr>` values authrewrite.Checker needs to evaluate a
// request for that user.
type StaticUsers struct {
	users map[string]*UserContext
}

// NewStaticUsersFile loads a StaticUsers table from a JSON file: an array of
// {"Name", "Roles", "Attrs"} objects.
func NewStaticUsersFile(path string) (*StaticUsers, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrParseUserFile.New(err)
	}

	var rows []staticUserEntry
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, ErrParseUserFile.New(err)
	}

	users := make(map[string]*UserContext, len(rows))
	for _, row := range rows {
		attrs := make(map[string]csn.Value, len(row.Attrs))
		for k, v := range row.Attrs {
			attrs[k] = csn.NewStringValue(v, "cds.String")
		}
		users[row.Name] = &UserContext{Name: row.Name, Roles: row.Roles, Attrs: attrs}
	}
	return &StaticUsers{users: users}, nil
}

// Lookup returns the UserContext for name, or nil if name isn't in the
// table.
func (s *StaticUsers) Lookup(name string) *UserContext {
	if s == nil {
		return nil
	}
	return s.users[name]
}
