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

package csnjson

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehb93/cds-pg-sub004/ingest"
)

const sampleCSN = `{
  "namespace": "my",
  "definitions": {
    "my.Authors": {
      "kind": "entity",
      "elements": {
        "ID": {"key": true, "type": "cds.Integer"},
        "name": {"type": "cds.String", "@restrict": [{"grant": "READ", "to": "public"}]}
      }
    }
  }
}`

func TestParseDecodesEntityWithElementsAndAnnotations(t *testing.T) {
	require := require.New(t)

	rs, err := Parser{}.Parse("authors.csn.json", []byte(sampleCSN))
	require.NoError(err)
	require.NotNil(rs.CSN)
	require.Equal("my", rs.CSN.Namespace)

	def, ok := rs.CSN.Definitions.Get("my.Authors")
	require.True(ok)
	require.Equal(ingest.HintEntity, def.Kind)

	id, ok := def.Elements.Get("ID")
	require.True(ok)
	require.True(id.Key)
	require.Equal("cds.Integer", id.Type.Items[0].ID)

	name, ok := def.Elements.Get("name")
	require.True(ok)
	require.Contains(name.Annotations, "@restrict")
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	require := require.New(t)
	_, err := Parser{}.Parse("bad.csn.json", []byte("not json"))
	require.Error(err)
}
