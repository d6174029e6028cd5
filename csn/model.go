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

// Model is the arena that owns every Artifact, Member, Query, PathRef,
// Source, Layer, and Extension for one compile, plus the enrichment side
// tables the Enricher attaches and cleans up. A Model is mutated in place
// by the pipeline; external consumers must not mutate it between Inspector
// calls (spec.md §5).
type Model struct {
	ids idGen

	Artifacts  map[ID]*Artifact
	Members    map[ID]*Member
	Queries    map[ID]*Query
	PathRefs   map[ID]*PathRef
	Sources    map[ID]*Source
	Layers     []*Layer
	Extensions map[string][]*Extension // target absolute name -> extensions

	// Definitions is the global dictionary: absolute name -> top-level
	// Artifact ID (spec.md §8 "absolute-name uniqueness").
	Definitions *Dict[ID]

	// CompositionTargets is the set of composition-target Artifact IDs:
	// derive marks the aspect-composition targets and texts entities it
	// generates, and propagate.Run marks the resolved Target of every
	// Composition element (spec.md §4.3 "Propagation ... marks composition
	// targets in a global set").
	CompositionTargets map[ID]bool

	// I18nBundle is the layer-merged translation table (locale -> key ->
	// text), populated by ingest.MergeI18n once the layer graph is known.
	I18nBundle map[string]map[string]string

	// enrichment side tables (spec.md §9: non-enumerable back-links as side
	// tables rather than object fields). Populated by enrich.Run, cleared by
	// enrich.Cleanup.
	enrichedType  map[ID]ID          // $path node -> _type
	enrichedLinks map[ID][]LinkStep  // $path node -> _links
	enrichedArt   map[ID]ID          // $path node -> _art
	enrichedPath  map[ID][]string    // $path node -> $path
	enrichedScope map[ID]string      // $path node -> $scope
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{
		Artifacts:          make(map[ID]*Artifact),
		Members:            make(map[ID]*Member),
		Queries:            make(map[ID]*Query),
		PathRefs:           make(map[ID]*PathRef),
		Sources:            make(map[ID]*Source),
		Extensions:         make(map[string][]*Extension),
		Definitions:        NewDict[ID](),
		CompositionTargets: make(map[ID]bool),
	}
}

// NewArtifactID allocates an ID and registers a new Artifact under it.
func (m *Model) NewArtifactID(name string, kind ArtifactKind) *Artifact {
	id := m.ids.allocate()
	a := &Artifact{ID: id, Name: name, Kind: kind}
	m.Artifacts[id] = a
	return a
}

// NewMemberID allocates an ID and registers a new Member under it.
func (m *Model) NewMemberID(name string, kind MemberKind) *Member {
	id := m.ids.allocate()
	mem := &Member{ID: id, Name: name, Kind: kind}
	m.Members[id] = mem
	return mem
}

// NewQueryID allocates an ID and registers a new Query under it.
func (m *Model) NewQueryID(kind QueryKind) *Query {
	id := m.ids.allocate()
	q := &Query{ID: id, Kind: kind}
	m.Queries[id] = q
	return q
}

// NewPathRefID allocates an ID and registers a new PathRef under it.
func (m *Model) NewPathRefID(items []PathItem, ctxKey ReferenceContext) *PathRef {
	id := m.ids.allocate()
	p := &PathRef{ID: id, Path: items, ContextKey: string(ctxKey)}
	m.PathRefs[id] = p
	return p
}

// NewSourceID allocates an ID and registers a new Source under it.
func (m *Model) NewSourceID(path string) *Source {
	id := m.ids.allocate()
	s := NewSource(id, path)
	m.Sources[id] = s
	return s
}

// NewExtensionID allocates an ID for an Extension. Extensions are indexed by
// target name in m.Extensions rather than by ID, but still draw from the
// shared ID space so every node in the model is uniquely addressable.
func (m *Model) NewExtensionID() ID {
	return m.ids.allocate()
}

// Node is any arena-owned value; a thin interface for generic tree-walk
// utilities that operate across artifact/member/query/pathref boundaries
// (used by enrich and the checker).
type Node interface {
	nodeID() ID
}

func (a *Artifact) nodeID() ID { return a.ID }
func (m *Member) nodeID() ID   { return m.ID }
func (q *Query) nodeID() ID    { return q.ID }
func (p *PathRef) nodeID() ID  { return p.ID }

// MemberOwnerChain returns start followed by the Parent of each Member on
// the way up, ending with the first ID that is not a Member (normally the
// owning Artifact) or with a Member whose Parent is unset. It exists to verify spec.md §8's
// "parent/main" invariant independent of the Main field.
func (m *Model) MemberOwnerChain(start ID) []ID {
	var chain []ID
	cur := start
	for cur != NoID {
		chain = append(chain, cur)
		if mem, ok := m.Members[cur]; ok {
			cur = mem.Parent
			continue
		}
		break
	}
	return chain
}
