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

package ingest

import "strings"

// reservedNamespaceAllowed is the one carve-out under the `cds` namespace
// that user definitions may still land in (spec.md §4.1).
const reservedNamespaceAllowed = "cds.foundation"

// isReservedNamespace reports whether absoluteName falls under a reserved
// namespace: `cds` (except `cds.foundation`), or `localized`.
func isReservedNamespace(absoluteName string) (reserved bool, namespace string) {
	if absoluteName == "localized" || strings.HasPrefix(absoluteName, "localized.") {
		return true, "localized"
	}
	if absoluteName == "cds" {
		return true, "cds"
	}
	if strings.HasPrefix(absoluteName, "cds.") {
		if absoluteName == reservedNamespaceAllowed || strings.HasPrefix(absoluteName, reservedNamespaceAllowed+".") {
			return false, ""
		}
		return true, "cds"
	}
	return false, ""
}
