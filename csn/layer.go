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

// Layer is an equivalence class of sources belonging to one strongly
// connected component of the `using from` dependency graph (spec.md §3
// "Layer"). Rank is monotonic in dependency order: if A depends
// (transitively) on B and they land in different layers, layer(A).Rank >
// layer(B).Rank (spec.md §8 "layer monotonicity").
type Layer struct {
	ID             ID
	Representative ID   // representative Source ID for this SCC
	Rank           int
	Sources        []ID // every Source ID in this SCC
	LayerExtends   []ID // transitively reachable lower-layer representative IDs
}
