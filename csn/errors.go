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

package csn

import "gopkg.in/src-d/go-errors.v1"

// Message-id sentinels, one *errors.Kind per stable message id in spec.md
// §6/§7. Grounded on auth.ErrNotAuthorized/auth.ErrNoPermission's
// errors.NewKind(...) pattern: a package-level *errors.Kind var, constructed
// with .New(args...) at the call site and matched with .Is(err) in tests.
var (
	// Invocation errors (§7 "Invocation"): these abort compilation before any
	// phase runs.
	ErrMissingFile     = errors.NewKind("file not found: %s")
	ErrRepeatedFile    = errors.NewKind("file name used more than once: %s")
	ErrUnknownExtension = errors.NewKind("don't know how to parse a file with extension %q")

	// Definition errors (§7 "Definition").
	ErrReservedNamespaceCds      = errors.NewKind("reserved namespace %q is not allowed here")
	ErrReservedNamespaceLocalized = errors.NewKind("reserved namespace %q is not allowed here")
	ErrDuplicateDefinition       = errors.NewKind("duplicate definition of %q")
	ErrIllegalSubArtifact        = errors.NewKind("%q can only appear inside a context or service")

	// Extension errors (§7 "Extension").
	ErrExtendUndefined        = errors.NewKind("%q was never defined, so it cannot be extended")
	ErrExtendQueryWithElements = errors.NewKind("can't add elements to %q because it has a query; only actions can be added")
	ErrExtendForGenerated     = errors.NewKind("%q was generated by the compiler and cannot be extended")
	ExtendUnrelatedLayer      = errors.NewKind("extensions of %q from unrelated layers are applied in an unspecified order")
	ExtendRepeatedIntralayer  = errors.NewKind("%q is extended more than once in the same layer")

	// Reference errors (§7 "Reference").
	ErrRefUndefined         = errors.NewKind("%q not found in %s")
	ErrCircularType         = errors.NewKind("circular type reference: %s")
	ErrTargetVsTargetAspect = errors.NewKind("%q cannot have both target and targetAspect")
	ErrTypeOfOutsideMember  = errors.NewKind("typeof can only be used inside a member")

	// Shape errors (§7 "Shape").
	ErrForeignKeysWithAspect  = errors.NewKind("can't combine foreignKeys with a managed aspect composition")
	ErrOnWithManagedAspect    = errors.NewKind("can't specify on-condition for a managed aspect composition")
	ErrDefaultOnIllegalMember = errors.NewKind("default values are not allowed on %s")

	// Late errors (§7 "Late").
	ErrLateStructuralExtend = errors.NewKind("structural extension of builtin %q is not allowed")

	// Query errors.
	ErrQueryRequiresAlias = errors.NewKind("an alias is required for subquery in FROM")

	// Derived-artefact errors.
	ErrAspectSelfTarget   = errors.NewKind("%q can't be used as the target of its own composition aspect")
	ErrGeneratedNameClash = errors.NewKind("generated entity name %q already exists")

	// Phase/pipeline errors.
	ErrMaxPassesExceeded  = errors.NewKind("exceeded the maximum number of extension-application passes (%d)")
	ErrFatalThreshold     = errors.NewKind("compilation stopped after %d error(s) in phase %q")

	// Recompile errors.
	ErrRecompileMismatch = errors.NewKind("recompile: generated artifact %q has a different element set than its source")
)
