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

package cdsc

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/csn"
	"github.com/ehb93/cds-pg-sub004/ingest"
)

// fixedParser returns a pre-built RawSource regardless of content, letting
// tests exercise the pipeline without a real CDL grammar.
type fixedParser struct {
	sources map[string]*ingest.RawSource
}

func (p fixedParser) Parse(path string, _ []byte) (*ingest.RawSource, error) {
	return p.sources[path], nil
}

func authorsEntitySource() *ingest.RawSource {
	elements := csn.NewDict[*ingest.RawArtifact]()
	elements.Set("ID", &ingest.RawArtifact{
		Kind: ingest.HintElement,
		Type: &ingest.RawRef{Items: []csn.PathItem{{ID: "cds.Integer"}}},
		Key:  true,
	})
	elements.Set("name", &ingest.RawArtifact{
		Kind: ingest.HintElement,
		Type: &ingest.RawRef{Items: []csn.PathItem{{ID: "cds.String"}}},
	})

	artifacts := csn.NewDict[*ingest.RawArtifact]()
	artifacts.Set("Authors", &ingest.RawArtifact{
		Kind:     ingest.HintEntity,
		Elements: elements,
	})

	return &ingest.RawSource{
		Namespace: "my",
		Artifacts: artifacts,
	}
}

func TestCompileRunsFullPipelineAndProducesAccessChecker(t *testing.T) {
	require := require.New(t)

	parser := fixedParser{sources: map[string]*ingest.RawSource{
		"db/schema.cds": authorsEntitySource(),
	}}
	sources := map[string][]byte{"db/schema.cds": []byte("entity Authors { key ID: Integer; name: String; }")}

	res, err := Compile(context.Background(), sources, parser, Options{TestMode: true})
	require.NoError(err)
	require.NotNil(res.Model)
	require.False(res.Sink.HasErrors())

	id, ok := res.Model.Definitions.Get("my.Authors")
	require.True(ok)
	art, ok := res.Model.Artifacts[id]
	require.True(ok)
	require.Equal(csn.KindEntity, art.Kind)
	require.NotNil(res.Checker)
}

func TestCompileParseOnlyStopsAfterIngest(t *testing.T) {
	require := require.New(t)

	parser := fixedParser{sources: map[string]*ingest.RawSource{
		"db/schema.cds": authorsEntitySource(),
	}}
	sources := map[string][]byte{"db/schema.cds": []byte("entity Authors { key ID: Integer; name: String; }")}

	res, err := Compile(context.Background(), sources, parser, Options{ParseOnly: true})
	require.NoError(err)
	require.NotNil(res.Model)

	id, ok := res.Model.Definitions.Get("my.Authors")
	require.True(ok)
	art := res.Model.Artifacts[id]
	// definer never ran, so the artifact's query/init-time fields are untouched;
	// its raw elements are still present from ingest.
	require.NotNil(art.Elements)
}

func TestCompileSourcesPopulatesFileCache(t *testing.T) {
	require := require.New(t)

	parser := fixedParser{sources: map[string]*ingest.RawSource{
		"db/schema.cds": authorsEntitySource(),
	}}
	sources := map[string][]byte{"db/schema.cds": []byte("entity Authors { key ID: Integer; name: String; }")}
	cache := NewFileCache()

	_, err := CompileSources(context.Background(), sources, cache, parser, Options{})
	require.NoError(err)

	entry, ok := cache.Get("db/schema.cds")
	require.True(ok)
	require.Equal(string(sources["db/schema.cds"]), entry.Content)
}

func TestCompileReportsParseFailure(t *testing.T) {
	require := require.New(t)

	parser := ParserFunc(func(path string, content []byte) (*ingest.RawSource, error) {
		return nil, errParseBoom
	})
	sources := map[string][]byte{"bad.cds": []byte("???")}

	res, err := Compile(context.Background(), sources, parser, Options{})
	require.NoError(err)
	require.True(res.Sink.HasErrors())
}

// TestCompileIsIdempotentOverDefinitionNames re-compiles the same sources
// twice in TestMode and asserts the resulting definition-name sets are
// identical (spec.md §8's idempotence property), using go-cmp over
// reflect.DeepEqual the way the pack's own test suites reach for go-cmp when
// diffing structural output, since a failing cmp.Diff prints exactly which
// name appeared in one run and not the other.
func TestCompileIsIdempotentOverDefinitionNames(t *testing.T) {
	require := require.New(t)

	newParser := func() fixedParser {
		return fixedParser{sources: map[string]*ingest.RawSource{
			"db/schema.cds": authorsEntitySource(),
		}}
	}
	sources := map[string][]byte{"db/schema.cds": []byte("entity Authors { key ID: Integer; name: String; }")}

	first, err := Compile(context.Background(), sources, newParser(), Options{TestMode: true})
	require.NoError(err)
	second, err := Compile(context.Background(), sources, newParser(), Options{TestMode: true})
	require.NoError(err)

	if diff := cmp.Diff(definitionNames(first.Model), definitionNames(second.Model)); diff != "" {
		t.Fatalf("definition names differ between identical compiles (-first +second):\n%s", diff)
	}
}

func definitionNames(model *csn.Model) []string {
	names := model.Definitions.Names()
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

var errParseBoom = &parseError{"boom"}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }
