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

import "github.com/ehb93/cds-pg-sub004/csn"

// BuiltinScalars is the fixed set of predefined `cds.*` scalar type names a
// member's Type may reference without any `using`/definition of its own
// (spec.md §4.1 "reserved namespace `cds`" implies these names already
// exist; spec.md §6's `anno-builtin` message id implies annotations can
// target them, which requires them to be resolvable artifacts in the first
// place).
var BuiltinScalars = []string{
	"cds.UUID",
	"cds.Boolean",
	"cds.Integer",
	"cds.Integer64",
	"cds.Decimal",
	"cds.Double",
	"cds.Date",
	"cds.Time",
	"cds.DateTime",
	"cds.Timestamp",
	"cds.String",
	"cds.LargeString",
	"cds.Binary",
	"cds.LargeBinary",
	"cds.Vector",
}

// SeedBuiltins registers one KindType artifact per BuiltinScalars entry
// directly into model.Definitions, bypassing the reserved-cds-namespace
// check ingestAST applies to user sources (spec.md §4.1): these are the
// compiler's own definitions, not something a source file declared. Every
// cdsc.Compile call seeds a fresh model before Ingest runs, so a plain
// dictionary insert -- not a once-per-process global -- keeps builtins
// scoped to one compile the same way every other artifact is.
func SeedBuiltins(model *csn.Model) {
	for _, name := range BuiltinScalars {
		art := model.NewArtifactID(name, csn.KindType)
		art.Generated = true
		model.Definitions.Set(name, art.ID)
	}
}
