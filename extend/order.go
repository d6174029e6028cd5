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

// Package extend applies `extend`/`annotate` directives collected by ingest
// onto the artifacts they target (spec.md §4.3), in an order derived from
// the layer graph rather than raw file-ingestion order.
package extend

import (
	"sort"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// orderedExtensions sorts exts for one target by ascending layer rank so
// that the lowest (most upstream) layer's extension is applied first,
// flagging two diagnostics along the way:
//   - ExtendUnrelatedLayer: an extension whose layer is neither the target's
//     own layer nor transitively reachable from it via LayerExtends -- the
//     order between such a layer and the target is, by construction,
//     unspecified.
//   - ExtendRepeatedIntralayer: two extensions of the same target land in
//     the exact same layer. Per the Open Question decision recorded in
//     DESIGN.md, same-rank extensions are applied in ingestion (ID) order
//     rather than treated as an error; a warning is still raised since the
//     result is file-order dependent.
func orderedExtensions(ctx *csn.CompileContext, targetName string, targetLayer csn.ID, exts []*csn.Extension) []*csn.Extension {
	model := ctx.Model
	targetRank := rankOfLayerRep(model, targetLayer)

	type scored struct {
		ext  *csn.Extension
		rank int
	}
	scoredExts := make([]scored, 0, len(exts))
	for _, e := range exts {
		src, ok := model.Sources[e.Block]
		layerRep := csn.NoID
		if ok {
			layerRep = src.Layer
		}
		rank := rankOfLayerRep(model, layerRep)
		if !relatedLayer(model, targetLayer, layerRep) {
			ctx.Sink.Warnf("extend-unrelated-layer", e.Loc, targetName,
				"extension of %q from an unrelated layer is applied in an unspecified order relative to other extensions", targetName)
		}
		scoredExts = append(scoredExts, scored{e, rank})
	}
	_ = targetRank

	sort.SliceStable(scoredExts, func(i, j int) bool {
		if scoredExts[i].rank != scoredExts[j].rank {
			return scoredExts[i].rank < scoredExts[j].rank
		}
		return scoredExts[i].ext.ID < scoredExts[j].ext.ID
	})

	seenRank := map[int]int{}
	out := make([]*csn.Extension, 0, len(scoredExts))
	for _, s := range scoredExts {
		seenRank[s.rank]++
		if seenRank[s.rank] > 1 {
			ctx.Sink.Warnf("extend-repeated-intralayer", s.ext.Loc, targetName,
				"%q is extended more than once in the same layer; applying in ingestion order", targetName)
		}
		out = append(out, s.ext)
	}
	return out
}

func rankOfLayerRep(model *csn.Model, rep csn.ID) int {
	for _, l := range model.Layers {
		if l.Representative == rep {
			return l.Rank
		}
	}
	return -1
}

// relatedLayer reports whether fromLayer is the same layer as targetLayer
// or is transitively reachable from it via LayerExtends.
func relatedLayer(model *csn.Model, targetLayer, fromLayer csn.ID) bool {
	if targetLayer == fromLayer {
		return true
	}
	for _, l := range model.Layers {
		if l.Representative != targetLayer {
			continue
		}
		for _, ext := range l.LayerExtends {
			if ext == fromLayer {
				return true
			}
		}
	}
	return false
}
