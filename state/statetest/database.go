// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package statetest

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"go.uber.org/atomic"

	"github.com/ava-labs/fairlaunch/state"
)

var (
	_ state.Database = (*FlakyDatabase)(nil)

	ErrWriteFailed = errors.New("batch write failed")
)

// FlakyDatabase is an in-memory [state.Database] whose batch writes can be
// made to fail.
type FlakyDatabase struct {
	*memdb.Database

	fail atomic.Bool
}

func NewFlakyDatabase() *FlakyDatabase {
	return &FlakyDatabase{Database: memdb.New()}
}

// FailWrites makes every later batch write return [ErrWriteFailed] until
// it is called with false.
func (d *FlakyDatabase) FailWrites(fail bool) {
	d.fail.Store(fail)
}

func (d *FlakyDatabase) NewBatch() database.Batch {
	return &flakyBatch{Batch: d.Database.NewBatch(), db: d}
}

type flakyBatch struct {
	database.Batch

	db *FlakyDatabase
}

func (b *flakyBatch) Write() error {
	if b.db.fail.Load() {
		return ErrWriteFailed
	}
	return b.Batch.Write()
}
