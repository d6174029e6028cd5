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

package similarname

import "sort"

// Find returns a ", maybe you mean X?" (or "X, Y or Z") suffix for want
// against names, or "" if want is empty or nothing is close enough to
// suggest.
func Find(names []string, want string) string {
	candidates := Suggest(names, want)
	return render(candidates)
}

// FindFromMap is Find over a map's keys.
func FindFromMap[V any](names map[string]V, want string) string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Find(keys, want)
}

// Suggest returns the names at the smallest edit distance from want, if that
// distance is within the similarity threshold, sorted by name, for callers (the resolver's validNames payload, the
// editor probe) that want the raw candidate list rather than a rendered
// sentence fragment.
func Suggest(names []string, want string) []string {
	if want == "" || len(names) == 0 {
		return nil
	}
	t := threshold(want)

	type scored struct {
		name string
		dist int
	}
	var matches []scored
	for _, n := range names {
		if d := distance(n, want); d <= t {
			matches = append(matches, scored{n, d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	best := -1
	var out []string
	for _, m := range matches {
		if best == -1 {
			best = m.dist
		}
		if m.dist != best {
			break
		}
		out = append(out, m.name)
	}
	return out
}

func render(candidates []string) string {
	switch len(candidates) {
	case 0:
		return ""
	case 1:
		return ", maybe you mean " + candidates[0] + "?"
	default:
		out := ", maybe you mean "
		for i, c := range candidates {
			switch {
			case i == 0:
				out += c
			case i == len(candidates)-1:
				out += " or " + c
			default:
				out += ", " + c
			}
		}
		return out + "?"
	}
}
