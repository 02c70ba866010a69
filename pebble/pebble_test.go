// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

const batchSize = 10_000

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func TestDatabaseBatch(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	db, registry, err := New(dir, NewDefaultConfig())
	require.NoError(err)
	require.NotNil(registry)

	_, err = db.Get([]byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)

	batch := db.NewBatch()
	require.NoError(batch.Put([]byte("a"), []byte("1")))
	require.NoError(batch.Put([]byte("b"), []byte("2")))
	require.NoError(batch.Delete([]byte("b")))

	// Unwritten batches are invisible.
	has, err := db.Has([]byte("a"))
	require.NoError(err)
	require.False(has)

	require.NoError(batch.Write())
	v, err := db.Get([]byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), v)
	has, err = db.Has([]byte("b"))
	require.NoError(err)
	require.False(has)

	// Committed batches are accounted per key.
	require.Equal(2.0, testutil.ToFloat64(db.metrics.keys))
	require.Equal(1.0, testutil.ToFloat64(db.metrics.deletes))
	families, err := registry.Gather()
	require.NoError(err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(names, "state_db_commit_latency_count")
	require.Contains(names, "state_db_disk_usage")

	require.NoError(db.Close())
	require.NoError(db.Close())

	// Reopen and read back.
	db, _, err = New(dir, NewDefaultConfig())
	require.NoError(err)
	v, err = db.Get([]byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), v)
	require.NoError(db.Close())
}

func BenchmarkBatchInsertion(b *testing.B) {
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}

			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for j := 0; j < batchSize; j++ {
					if err := batch.Put(keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
