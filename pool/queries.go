// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/storage"
	"github.com/ava-labs/fairlaunch/types"
	"github.com/ava-labs/fairlaunch/utils"
)

func (s *Shard) Pool(ctx context.Context, pool codec.Address) (*types.PoolInfo, bool, error) {
	return storage.GetPool(ctx, s.State(), pool)
}

func (s *Shard) PoolByAsset(ctx context.Context, asset codec.Address) (*types.PoolInfo, bool, error) {
	im := s.State()
	pool, ok, err := storage.GetAssetPool(ctx, im, asset)
	if err != nil || !ok {
		return nil, false, err
	}
	return storage.GetPool(ctx, im, pool)
}

// Pools returns pools in creation order. A zero limit returns everything.
func (s *Shard) Pools(ctx context.Context, offset, limit uint64) ([]*types.PoolInfo, error) {
	im := s.State()
	stats, err := storage.GetPoolStats(ctx, im)
	if err != nil {
		return nil, err
	}
	start, end := utils.Paginate(stats.PoolCount, offset, limit)
	pools := make([]*types.PoolInfo, 0, end-start)
	for i := start; i < end; i++ {
		id, ok, err := storage.GetPoolAt(ctx, im, i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		info, ok, err := storage.GetPool(ctx, im, id)
		if err != nil {
			return nil, err
		}
		if ok {
			pools = append(pools, info)
		}
	}
	return pools, nil
}

func (s *Shard) Stats(ctx context.Context) (*storage.PoolStats, error) {
	return storage.GetPoolStats(ctx, s.State())
}
