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

package extend

import "github.com/ehb93/cds-pg-sub004/csn"

// Apply folds every collected Extension onto its resolved target artifact,
// in two passes (spec.md §4.3): pass one applies extensions of context/
// service artifacts, so that any entity nested beneath them by a later
// `extend` sees a fully-extended enclosing scope; pass two applies every
// remaining artifact-level extension (entities, types, aspects, actions).
// A target name unresolved against model.Definitions is reported once, at
// whichever pass first looks it up.
func Apply(ctx *csn.CompileContext) error {
	span := ctx.Phase("extend")
	defer span.Finish()

	model := ctx.Model

	applyPass(ctx, func(k csn.ArtifactKind) bool {
		return k == csn.KindContext || k == csn.KindService
	})
	applyPass(ctx, func(k csn.ArtifactKind) bool {
		return k != csn.KindContext && k != csn.KindService
	})

	_ = model
	return nil
}

func applyPass(ctx *csn.CompileContext, wantKind func(csn.ArtifactKind) bool) {
	model := ctx.Model

	for targetName, exts := range model.Extensions {
		id, ok := model.Definitions.Get(targetName)
		if !ok {
			reportUndefinedOnce(ctx, targetName, exts)
			continue
		}
		art := model.Artifacts[id]
		if !wantKind(art.Kind) {
			continue
		}

		ordered := orderedExtensions(ctx, targetName, artifactLayer(model, art), exts)
		for _, ext := range ordered {
			applyOne(ctx, art, ext)
		}
	}
}

func artifactLayer(model *csn.Model, art *csn.Artifact) csn.ID {
	src, ok := model.Sources[art.Block]
	if !ok {
		return csn.NoID
	}
	return src.Layer
}

// reportUndefinedOnce reports every extension targeting targetName once its
// definition still hasn't resolved by the time a pass looks it up. An
// `extend` against an undefined target is an error; a pure `annotate`
// carries no structure to lose, so it's only worth an info (spec.md §7
// "Late": "unused extensions after all passes yield info (annotation
// carriers) or error (structural extends)"). Sink.Add dedups by id+loc+
// params, so calling this once per pass for the same unresolved target is
// harmless.
func reportUndefinedOnce(ctx *csn.CompileContext, targetName string, exts []*csn.Extension) {
	for _, ext := range exts {
		if ext.IsApplied() {
			continue
		}
		if isStructural(ext) {
			ctx.Sink.Errorf("extend-undefined", ext.Loc, targetName,
				"%q was never defined, so it cannot be extended", targetName)
		} else {
			ctx.Sink.Infof("annotate-undefined", ext.Loc, targetName,
				"%q was never defined; this annotation has no effect", targetName)
		}
	}
}

func isStructural(ext *csn.Extension) bool {
	return ext.Kind == csn.ExtendDirective
}

func applyOne(ctx *csn.CompileContext, art *csn.Artifact, ext *csn.Extension) {
	if ext.IsApplied() {
		return
	}
	if art.Generated {
		ctx.Sink.Errorf("extend-for-generated", ext.Loc, art.Name,
			"%q was generated by the compiler and cannot be extended", art.Name)
		ext.AppliedArt = art.ID
		return
	}

	switch ext.Kind {
	case csn.AnnotateDirective:
		mergeAnnotations(art, ext.Annotations)
	case csn.ExtendDirective:
		if art.Query != nil && ext.NewElements != nil && ext.NewElements.Len() > 0 {
			ctx.Sink.Errorf("extend-query-with-elements", ext.Loc, art.Name,
				"can't add elements to %q because it has a query; only actions can be added", art.Name)
		} else if ext.NewElements != nil {
			if art.Elements == nil {
				art.Elements = csn.NewDict[csn.ID]()
			}
			mergeMembers(art.Elements, ext.NewElements)
		}
		if ext.NewActions != nil {
			if art.Actions == nil {
				art.Actions = csn.NewDict[csn.ID]()
			}
			mergeMembers(art.Actions, ext.NewActions)
		}
		art.Includes = append(art.Includes, ext.Includes...)
		mergeAnnotations(art, ext.Annotations)
	}

	ext.AppliedArt = art.ID
}

func mergeMembers(into, from *csn.Dict[csn.ID]) {
	if from == nil {
		return
	}
	from.Each(func(name string, id csn.ID) bool {
		into.Set(name, id)
		return true
	})
}

func mergeAnnotations(art *csn.Artifact, from map[string]csn.Value) {
	if len(from) == 0 {
		return
	}
	if art.Annotations == nil {
		art.Annotations = make(map[string]csn.Value)
	}
	for k, v := range from {
		art.Annotations[k] = v
	}
}
