// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"
)

func TestPrefixDatabaseIsolation(t *testing.T) {
	require := require.New(t)
	base := memdb.New()

	a := NewPrefixDatabase([]byte{0xa}, base)
	b := NewPrefixDatabase([]byte{0xb}, base)

	batch := a.NewBatch()
	require.NoError(batch.Put([]byte("k"), []byte("va")))
	require.NoError(batch.Write())

	v, err := a.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("va"), v)

	_, err = b.Get([]byte("k"))
	require.ErrorIs(err, database.ErrNotFound)

	has, err := base.Has([]byte{0xa, 'k'})
	require.NoError(err)
	require.True(has)

	v, err = NewReader(a).GetValue(context.Background(), []byte("k"))
	require.NoError(err)
	require.Equal([]byte("va"), v)
}

func TestPrefixBatchReplay(t *testing.T) {
	require := require.New(t)
	a := NewPrefixDatabase([]byte("shard/"), memdb.New())

	batch := a.NewBatch()
	require.NoError(batch.Put([]byte("x"), []byte{1}))
	require.NoError(batch.Delete([]byte("y")))

	target := memdb.New()
	require.NoError(batch.Replay(target))
	v, err := target.Get([]byte("x"))
	require.NoError(err)
	require.Equal([]byte{1}, v)
}
