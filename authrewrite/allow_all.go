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

// AllowAll is a Checker replacement that never refuses a request, the
// `@requires`/`@restrict` counterpart of none.go's always-succeed Auth. Used
// by lintMode compiles, which skip authorisation rewriting entirely, and by
// tooling that only needs the model's shape, not its access rules.
type AllowAll struct{}

// Allowed always returns nil.
func (AllowAll) Allowed(*UserContext, csn.ID, Permission) error {
	return nil
}
