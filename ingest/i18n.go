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
	"sort"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// MergeI18n merges every ingested Source's i18n block into
// ctx.Model.I18nBundle. It must run after the layer phase has assigned each
// Source's Layer/Rank, since a key defined at more than one layer resolves
// to the lowest-rank (most upstream) layer's value -- the layer a
// definition's own model is extended from wins over a later re-statement,
// mirroring how `extend` itself prefers the earliest layer (spec.md §4.2).
// Every conflicting value for a key already in the table is reported as
// "i18n-different-value"; within one rank the first value observed is kept.
func MergeI18n(ctx *csn.CompileContext) {
	model := ctx.Model

	type entry struct {
		locale, key, value string
		rank               int
		loc                csn.Location
	}

	var entries []entry
	for _, src := range model.Sources {
		rank := rankOf(model, src.Layer)
		for locale, table := range src.I18n {
			for key, value := range table {
				entries = append(entries, entry{locale, key, value, rank, src.Loc})
			}
		}
	}

	// Stable order: by locale, key, then rank, so that within one (locale,
	// key) the lowest rank is always seen first.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].locale != entries[j].locale {
			return entries[i].locale < entries[j].locale
		}
		if entries[i].key != entries[j].key {
			return entries[i].key < entries[j].key
		}
		return entries[i].rank < entries[j].rank
	})

	bundle := make(map[string]map[string]string)

	for _, e := range entries {
		table, ok := bundle[e.locale]
		if !ok {
			table = make(map[string]string)
			bundle[e.locale] = table
		}
		if existing, ok := table[e.key]; ok {
			if existing != e.value {
				ctx.Sink.Warnf("i18n-different-value", e.loc, e.key,
					"translation %q for locale %q has conflicting values; the lowest layer's value is kept", e.key, e.locale)
			}
			continue
		}
		table[e.key] = e.value
	}

	model.I18nBundle = bundle
}

func rankOf(model *csn.Model, layerRep csn.ID) int {
	for _, l := range model.Layers {
		if l.Representative == layerRep {
			return l.Rank
		}
	}
	return -1
}
