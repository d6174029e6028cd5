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

// Package layer builds the source dependency graph (`using from` edges) and
// computes a stable linear layer order over it (spec.md §4.2), using a
// standard iterative Tarjan SCC so that arbitrarily deep `using from`
// chains never overflow the call stack. No example in the retrieval pack
// carries a graph/SCC library, so this is hand-rolled against the standard
// library -- a deliberate, justified exception to "prefer a pack
// dependency" (see DESIGN.md).
package layer

import (
	"sort"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// Build runs Tarjan's algorithm over sources' Usings edges and returns the
// Layer list in rank order (lowest rank first), registering each Layer on
// model and setting each Source's Layer back-link.
func Build(model *csn.Model, sources []*csn.Source) ([]*csn.Layer, error) {
	g := newGraph(sources)
	sccs := g.tarjanSCCs()

	// tarjanSCCs returns SCCs in reverse topological order (a Tarjan
	// property): a component that only other components depend on comes out
	// first. That is already dependency order (leaves == no-dependency
	// sources first, lowest rank), so ranks follow the output order.
	layers := make([]*csn.Layer, 0, len(sccs))
	repOf := make(map[csn.ID]*csn.Layer, len(sources))

	rank := 0
	for _, scc := range sccs {
		sort.Slice(scc, func(a, b int) bool { return scc[a] < scc[b] })

		l := &csn.Layer{Representative: scc[0], Rank: rank, Sources: append([]csn.ID(nil), scc...)}
		model.Layers = append(model.Layers, l)
		layers = append(layers, l)
		for _, sid := range scc {
			repOf[sid] = l
			if src, ok := model.Sources[sid]; ok {
				src.Layer = l.Representative
			}
		}
		rank++
	}

	// _layerExtends: transitive closure of reachable lower-rank representatives.
	for _, l := range layers {
		reach := map[csn.ID]bool{}
		for _, sid := range l.Sources {
			for _, dep := range g.edges[sid] {
				depLayer := repOf[dep]
				if depLayer == nil || depLayer == l {
					continue
				}
				reach[depLayer.Representative] = true
				for _, t := range depLayer.LayerExtends {
					reach[t] = true
				}
			}
		}
		for id := range reach {
			l.LayerExtends = append(l.LayerExtends, id)
		}
		sort.Slice(l.LayerExtends, func(a, b int) bool { return l.LayerExtends[a] < l.LayerExtends[b] })
	}

	return layers, nil
}

type graph struct {
	nodes []csn.ID
	edges map[csn.ID][]csn.ID
}

func newGraph(sources []*csn.Source) *graph {
	g := &graph{edges: make(map[csn.ID][]csn.ID)}
	byPath := make(map[string]csn.ID, len(sources))
	for _, s := range sources {
		byPath[s.Path] = s.ID
		g.nodes = append(g.nodes, s.ID)
	}
	for _, s := range sources {
		for _, u := range s.Usings {
			if dep, ok := byPath[u.From]; ok {
				g.edges[s.ID] = append(g.edges[s.ID], dep)
			}
		}
	}
	return g
}

// tarjanSCCs runs an iterative (non-recursive) Tarjan SCC over the graph and
// returns components in the algorithm's natural reverse-topological order.
func (g *graph) tarjanSCCs() [][]csn.ID {
	index := make(map[csn.ID]int)
	lowlink := make(map[csn.ID]int)
	onStack := make(map[csn.ID]bool)
	var stack []csn.ID
	var result [][]csn.ID
	counter := 0

	type frame struct {
		node     csn.ID
		childIdx int
	}

	for _, start := range g.nodes {
		if _, seen := index[start]; seen {
			continue
		}

		var work []frame
		work = append(work, frame{node: start})
		index[start] = counter
		lowlink[start] = counter
		counter++
		stack = append(stack, start)
		onStack[start] = true

		for len(work) > 0 {
			top := &work[len(work)-1]
			children := g.edges[top.node]

			if top.childIdx < len(children) {
				child := children[top.childIdx]
				top.childIdx++

				if _, seen := index[child]; !seen {
					index[child] = counter
					lowlink[child] = counter
					counter++
					stack = append(stack, child)
					onStack[child] = true
					work = append(work, frame{node: child})
				} else if onStack[child] {
					if index[child] < lowlink[top.node] {
						lowlink[top.node] = index[child]
					}
				}
				continue
			}

			// Done with children: pop frame, propagate lowlink to parent.
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := &work[len(work)-1]
				if lowlink[top.node] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[top.node]
				}
			}

			if lowlink[top.node] == index[top.node] {
				var scc []csn.ID
				for {
					n := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[n] = false
					scc = append(scc, n)
					if n == top.node {
						break
					}
				}
				result = append(result, scc)
			}
		}
	}

	return result
}
