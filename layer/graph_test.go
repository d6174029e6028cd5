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

package layer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
)

func newSrc(model *csn.Model, path string, uses ...string) *csn.Source {
	s := model.NewSourceID(path)
	for _, u := range uses {
		s.Usings = append(s.Usings, csn.UsingDirective{From: u})
	}
	return s
}

func TestBuildLinearChain(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	a := newSrc(model, "a.cds", "b.cds")
	b := newSrc(model, "b.cds", "c.cds")
	c := newSrc(model, "c.cds")

	layers, err := Build(model, []*csn.Source{a, b, c})
	require.NoError(err)
	require.Len(layers, 3)

	rankOf := func(s *csn.Source) int {
		for _, l := range layers {
			for _, sid := range l.Sources {
				if sid == s.ID {
					return l.Rank
				}
			}
		}
		t.Fatalf("source %s not placed in any layer", s.Path)
		return -1
	}

	require.Less(rankOf(c), rankOf(b))
	require.Less(rankOf(b), rankOf(a))
}

func TestBuildCycleSharesLayer(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	a := newSrc(model, "a.cds", "b.cds")
	b := newSrc(model, "b.cds", "a.cds")

	layers, err := Build(model, []*csn.Source{a, b})
	require.NoError(err)
	require.Len(layers, 1)
	require.ElementsMatch([]csn.ID{a.ID, b.ID}, layers[0].Sources)
}

func TestLayerExtendsIsTransitive(t *testing.T) {
	require := require.New(t)
	model := csn.NewModel()

	a := newSrc(model, "a.cds", "b.cds")
	b := newSrc(model, "b.cds", "c.cds")
	c := newSrc(model, "c.cds")

	layers, err := Build(model, []*csn.Source{a, b, c})
	require.NoError(err)

	var aLayer *csn.Layer
	for _, l := range layers {
		for _, sid := range l.Sources {
			if sid == a.ID {
				aLayer = l
			}
		}
	}
	require.NotNil(aLayer)
	require.Len(aLayer.LayerExtends, 2, "a's layer should transitively extend both b's and c's layers")
}
