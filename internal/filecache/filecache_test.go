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

package filecache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheGetMissReturnsFalse(t *testing.T) {
	require := require.New(t)
	c := New()
	_, ok := c.Get("db/schema.cds")
	require.False(ok)
}

func TestCacheRoundTripsContentAbsentAndStatted(t *testing.T) {
	require := require.New(t)
	c := New()

	c.SetContent("db/schema.cds", "entity Foo { key ID: Integer; }")
	e, ok := c.Get("db/schema.cds")
	require.True(ok)
	require.Equal(Loaded, e.State)
	require.Equal("entity Foo { key ID: Integer; }", e.Content)

	c.SetAbsent("db/missing.cds")
	e, ok = c.Get("db/missing.cds")
	require.True(ok)
	require.Equal(KnownAbsent, e.State)

	c.SetStatted("db/seen-not-read.cds")
	e, ok = c.Get("db/seen-not-read.cds")
	require.True(ok)
	require.Equal(Statted, e.State)

	c.Delete("db/schema.cds")
	_, ok = c.Get("db/schema.cds")
	require.False(ok)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	require := require.New(t)
	dbPath := filepath.Join(t.TempDir(), "filecache.db")

	store, err := OpenBoltStore(dbPath)
	require.NoError(err)
	c, err := Open(store)
	require.NoError(err)
	c.SetContent("db/schema.cds", "entity Foo { key ID: Integer; }")
	require.NoError(store.Close())

	reopened, err := OpenBoltStore(dbPath)
	require.NoError(err)
	defer reopened.Close()
	c2, err := Open(reopened)
	require.NoError(err)

	e, ok := c2.Get("db/schema.cds")
	require.True(ok)
	require.Equal(Loaded, e.State)
	require.Equal("entity Foo { key ID: Integer; }", e.Content)
}
