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

import (
	"strings"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// Ingest walks every RawSource in sources (in the caller's deterministic
// order) and materialises csn.Source/Artifact/Member/Extension nodes into
// ctx.Model. On return, model.Definitions contains every top-level
// definition keyed by absolute name; duplicates are recorded via
// Dict.Duplicates rather than silently overwritten (spec.md §4.1).
func Ingest(ctx *csn.CompileContext, sources *csn.Dict[*RawSource]) error {
	span := ctx.Phase("ingest")
	defer span.Finish()

	model := ctx.Model

	sources.Each(func(path string, raw *RawSource) bool {
		src := model.NewSourceID(path)
		src.Loc = raw.Loc
		src.ParseFailed = raw.ParseFailed

		switch {
		case raw.CSN != nil:
			ingestCSN(ctx, src, raw.CSN)
		default:
			ingestAST(ctx, src, raw)
		}
		return true
	})

	return nil
}

func ingestAST(ctx *csn.CompileContext, src *csn.Source, raw *RawSource) {
	src.Namespace = raw.Namespace
	src.Usings = raw.Usings
	for _, u := range raw.Usings {
		src.UsingsByAlias.Set(u.Alias, u)
	}
	src.I18n = raw.I18n

	if src.ParseFailed {
		return
	}

	if raw.Artifacts != nil {
		raw.Artifacts.Each(func(localName string, def *RawArtifact) bool {
			absName := qualify(src.Namespace, localName)
			synthesizePathPrefixUsings(src, absName)
			materializeTopLevel(ctx, src, localName, absName, def)
			return true
		})
	}

	for _, ext := range raw.Extensions {
		materializeExtension(ctx, src, ext)
	}

	if raw.Vocabularies != nil {
		raw.Vocabularies.Each(func(localName string, def *RawArtifact) bool {
			absName := qualify(src.Namespace, localName)
			materializeTopLevel(ctx, src, localName, absName, def)
			return true
		})
	}
}

func ingestCSN(ctx *csn.CompileContext, src *csn.Source, doc *RawCSNDoc) {
	src.Namespace = doc.Namespace
	src.I18n = doc.I18n
	if doc.Definitions == nil {
		return
	}
	doc.Definitions.Each(func(absName string, def *RawArtifact) bool {
		localName := absName
		if doc.Namespace != "" && strings.HasPrefix(absName, doc.Namespace+".") {
			localName = strings.TrimPrefix(absName, doc.Namespace+".")
		}
		materializeTopLevel(ctx, src, localName, absName, def)
		return true
	})
}

func qualify(namespace, localName string) string {
	if namespace == "" {
		return localName
	}
	return namespace + "." + localName
}

// synthesizePathPrefixUsings makes every non-final dotted prefix of absName
// addressable as a local alias within src, so `A.B.C` makes `A` and `A.B`
// resolvable as local names (spec.md §4.1).
func synthesizePathPrefixUsings(src *csn.Source, absName string) {
	parts := strings.Split(absName, ".")
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		if src.UsingsByAlias.Has(prefix) {
			continue
		}
		src.UsingsByAlias.Set(prefix, csn.UsingDirective{Alias: prefix, From: prefix})
	}
}

func materializeTopLevel(ctx *csn.CompileContext, src *csn.Source, localName, absName string, def *RawArtifact) {
	model := ctx.Model

	if reserved, ns := isReservedNamespace(absName); reserved {
		if ns == "localized" {
			ctx.Sink.Errorf("reserved-namespace-localized", def.Loc, absName,
				"%q is in the reserved 'localized' namespace", absName)
		} else {
			ctx.Sink.Errorf("reserved-namespace-cds", def.Loc, absName,
				"%q is in the reserved 'cds' namespace", absName)
		}
		return
	}

	art := materializeArtifact(ctx, absName, def)
	art.Block = src.ID

	if !model.Definitions.Set(absName, art.ID) {
		ctx.Sink.Errorf("duplicate-definition", def.Loc, absName, "duplicate definition of %q", absName)
	}
	src.Members.Set(localName, art.ID)
}
