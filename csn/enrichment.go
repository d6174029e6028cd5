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

// This file is the accessor surface for Model's enrichment side tables
// (spec.md §9: `_type`/`_links`/`_art`/`$path`/`$scope` as external side
// tables rather than object fields, attached by enrich.Run and discarded by
// enrich.Cleanup).

// SetEnrichedType records the resolved terminal artifact/member type for a
// PathRef id.
func (m *Model) SetEnrichedType(pathRefID, typeID ID) {
	if m.enrichedType == nil {
		m.enrichedType = make(map[ID]ID)
	}
	m.enrichedType[pathRefID] = typeID
}

// EnrichedType returns the `_type` previously recorded for pathRefID.
func (m *Model) EnrichedType(pathRefID ID) (ID, bool) {
	id, ok := m.enrichedType[pathRefID]
	return id, ok
}

// SetEnrichedLinks records the per-step resolution trail (`_links`) for a
// PathRef id.
func (m *Model) SetEnrichedLinks(pathRefID ID, links []LinkStep) {
	if m.enrichedLinks == nil {
		m.enrichedLinks = make(map[ID][]LinkStep)
	}
	m.enrichedLinks[pathRefID] = links
}

// EnrichedLinks returns the `_links` previously recorded for pathRefID.
func (m *Model) EnrichedLinks(pathRefID ID) ([]LinkStep, bool) {
	l, ok := m.enrichedLinks[pathRefID]
	return l, ok
}

// SetEnrichedArt records the terminal artifact (`_art`) for a PathRef id.
func (m *Model) SetEnrichedArt(pathRefID, artID ID) {
	if m.enrichedArt == nil {
		m.enrichedArt = make(map[ID]ID)
	}
	m.enrichedArt[pathRefID] = artID
}

// EnrichedArt returns the `_art` previously recorded for pathRefID.
func (m *Model) EnrichedArt(pathRefID ID) (ID, bool) {
	id, ok := m.enrichedArt[pathRefID]
	return id, ok
}

// SetEnrichedPath records the dotted `$path` segment list for a PathRef id.
func (m *Model) SetEnrichedPath(pathRefID ID, path []string) {
	if m.enrichedPath == nil {
		m.enrichedPath = make(map[ID][]string)
	}
	m.enrichedPath[pathRefID] = path
}

// EnrichedPath returns the `$path` previously recorded for pathRefID.
func (m *Model) EnrichedPath(pathRefID ID) ([]string, bool) {
	p, ok := m.enrichedPath[pathRefID]
	return p, ok
}

// SetEnrichedScope records the `$scope` label for a PathRef id.
func (m *Model) SetEnrichedScope(pathRefID ID, scope string) {
	if m.enrichedScope == nil {
		m.enrichedScope = make(map[ID]string)
	}
	m.enrichedScope[pathRefID] = scope
}

// EnrichedScope returns the `$scope` previously recorded for pathRefID.
func (m *Model) EnrichedScope(pathRefID ID) (string, bool) {
	s, ok := m.enrichedScope[pathRefID]
	return s, ok
}

// ClearEnrichment discards every enrichment side table (enrich.Cleanup).
func (m *Model) ClearEnrichment() {
	m.enrichedType = nil
	m.enrichedLinks = nil
	m.enrichedArt = nil
	m.enrichedPath = nil
	m.enrichedScope = nil
}
