// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"bytes"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Database       = (*PrefixDatabase)(nil)
	_ database.Batch = (*prefixBatch)(nil)
)

// PrefixDatabase namespaces every key of an underlying [Database]. Prefixes
// handed to sibling namespaces must not be prefixes of one another.
//
// Closing a PrefixDatabase does not close the underlying database.
type PrefixDatabase struct {
	prefix []byte
	db     Database
}

func NewPrefixDatabase(prefix []byte, db Database) *PrefixDatabase {
	return &PrefixDatabase{prefix: bytes.Clone(prefix), db: db}
}

func (p *PrefixDatabase) key(k []byte) []byte {
	pk := make([]byte, len(p.prefix)+len(k))
	copy(pk, p.prefix)
	copy(pk[len(p.prefix):], k)
	return pk
}

func (p *PrefixDatabase) Has(key []byte) (bool, error) {
	return p.db.Has(p.key(key))
}

func (p *PrefixDatabase) Get(key []byte) ([]byte, error) {
	return p.db.Get(p.key(key))
}

func (p *PrefixDatabase) NewBatch() database.Batch {
	return &prefixBatch{db: p, inner: p.db.NewBatch()}
}

func (*PrefixDatabase) Close() error {
	return nil
}

type prefixBatch struct {
	db    *PrefixDatabase
	inner database.Batch
}

func (b *prefixBatch) Put(key, value []byte) error {
	return b.inner.Put(b.db.key(key), value)
}

func (b *prefixBatch) Delete(key []byte) error {
	return b.inner.Delete(b.db.key(key))
}

func (b *prefixBatch) Size() int {
	return b.inner.Size()
}

func (b *prefixBatch) Write() error {
	return b.inner.Write()
}

func (b *prefixBatch) Reset() {
	b.inner.Reset()
}

func (b *prefixBatch) Replay(w database.KeyValueWriterDeleter) error {
	return b.inner.Replay(&unprefixWriter{prefix: b.db.prefix, w: w})
}

func (b *prefixBatch) Inner() database.Batch {
	return b.inner
}

type unprefixWriter struct {
	prefix []byte
	w      database.KeyValueWriterDeleter
}

func (u *unprefixWriter) Put(key, value []byte) error {
	return u.w.Put(bytes.TrimPrefix(key, u.prefix), value)
}

func (u *unprefixWriter) Delete(key []byte) error {
	return u.w.Delete(bytes.TrimPrefix(key, u.prefix))
}
