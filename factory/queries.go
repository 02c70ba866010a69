// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package factory

import (
	"context"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
	"github.com/ava-labs/fairlaunch/types"
	"github.com/ava-labs/fairlaunch/utils"
)

// Launch returns the cached entry for [asset]. Supply, raise and
// lifecycle may lag behind the token shard.
func (s *Shard) Launch(ctx context.Context, asset codec.Address) (*types.LaunchEntry, bool, error) {
	return storage.GetLaunch(ctx, s.State(), asset)
}

func (s *Shard) Count(ctx context.Context) (uint64, error) {
	return storage.GetLaunchCount(ctx, s.State())
}

// Launches returns entries in creation order, starting at [offset]. A
// zero limit returns everything.
func (s *Shard) Launches(ctx context.Context, offset, limit uint64) ([]*types.LaunchEntry, error) {
	im := s.State()
	count, err := storage.GetLaunchCount(ctx, im)
	if err != nil {
		return nil, err
	}
	start, end := utils.Paginate(count, offset, limit)
	return collect(ctx, im, start, end, func(i uint64) (codec.Address, bool, error) {
		return storage.GetLaunchAt(ctx, im, i)
	})
}

// LaunchesByCreator returns every launch of [creator] in creation order.
func (s *Shard) LaunchesByCreator(ctx context.Context, creator codec.Address) ([]*types.LaunchEntry, error) {
	im := s.State()
	count, err := storage.GetCreatorCount(ctx, im, creator)
	if err != nil {
		return nil, err
	}
	return collect(ctx, im, 0, count, func(i uint64) (codec.Address, bool, error) {
		return storage.GetCreatorLaunchAt(ctx, im, creator, i)
	})
}

func collect(
	ctx context.Context,
	im state.Immutable,
	start, end uint64,
	at func(uint64) (codec.Address, bool, error),
) ([]*types.LaunchEntry, error) {
	entries := make([]*types.LaunchEntry, 0, end-start)
	for i := start; i < end; i++ {
		asset, ok, err := at(i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		entry, ok, err := storage.GetLaunch(ctx, im, asset)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
