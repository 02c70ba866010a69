// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/fairlaunch/state"
)

var _ state.Mutable = (*TStateView)(nil)

// TStateView buffers the writes of a single operation on top of committed
// state. Nothing reaches the database until [TStateView.Commit], so an
// operation that fails halfway leaves no trace.
type TStateView struct {
	base               state.Immutable
	pendingChangedKeys map[string]maybe.Maybe[[]byte]
}

func New(base state.Immutable) *TStateView {
	return &TStateView{
		base:               base,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte]),
	}
}

func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	v, exists, err := ts.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (ts *TStateView) getValue(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, false, nil
		}
		return v.Value(), true, nil
	}
	v, err := ts.base.GetValue(ctx, []byte(key))
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	default:
		return v, true, nil
	}
}

// Insert sets or updates [key] to [value].
//
// Any bytes passed into [Insert] will be consumed by the view and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(_ context.Context, key []byte, value []byte) error {
	ts.pendingChangedKeys[string(key)] = maybe.Some(value)
	return nil
}

// Remove deletes a key. Removing a missing key is a no-op.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	k := string(key)
	_, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	return nil
}

// WriteChanges replays all pending changes into [w] in key order.
func (ts *TStateView) WriteChanges(w database.KeyValueWriterDeleter) error {
	keys := maps.Keys(ts.pendingChangedKeys)
	slices.Sort(keys)
	for _, k := range keys {
		v := ts.pendingChangedKeys[k]
		if v.IsNothing() {
			if err := w.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := w.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	return nil
}

// Commit writes all pending changes to [db] as a single batch.
func (ts *TStateView) Commit(db database.Batcher) error {
	batch := db.NewBatch()
	if err := ts.WriteChanges(batch); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	ts.pendingChangedKeys = make(map[string]maybe.Maybe[[]byte])
	return nil
}
