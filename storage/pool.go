// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/types"
)

type PoolStats struct {
	PoolCount uint64       `json:"poolCount"`
	TotalTVL  *uint256.Int `json:"totalTvl"`
}

func PoolStatsKey() []byte {
	return []byte{poolStatsPrefix}
}

func PoolKey(pool codec.Address) []byte {
	return addressKey(poolPrefix, pool)
}

func AssetPoolKey(asset codec.Address) []byte {
	return addressKey(assetPoolPrefix, asset)
}

func PoolIndexKey(seq uint64) []byte {
	return sequenceKey(poolIndexPrefix, seq)
}

func GetPoolStats(ctx context.Context, im state.Immutable) (*PoolStats, error) {
	v, err := im.GetValue(ctx, PoolStatsKey())
	if errors.Is(err, database.ErrNotFound) {
		return &PoolStats{TotalTVL: new(uint256.Int)}, nil
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, consts.Uint64Len+consts.Uint256Len)
	stats := &PoolStats{
		PoolCount: p.UnpackUint64(false),
		TotalTVL:  p.UnpackUint256(false),
	}
	return stats, p.Err()
}

func setPoolStats(ctx context.Context, mu state.Mutable, stats *PoolStats) error {
	p := codec.NewWriter(consts.Uint64Len+consts.Uint256Len, consts.Uint64Len+consts.Uint256Len)
	p.PackUint64(stats.PoolCount)
	p.PackUint256(stats.TotalTVL)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, PoolStatsKey(), p.Bytes())
}

func GetPool(ctx context.Context, im state.Immutable, pool codec.Address) (*types.PoolInfo, bool, error) {
	return getRecord(ctx, im, PoolKey(pool), types.ParsePoolInfo)
}

func GetAssetPool(ctx context.Context, im state.Immutable, asset codec.Address) (codec.Address, bool, error) {
	return getAddress(ctx, im, AssetPoolKey(asset))
}

func GetPoolAt(ctx context.Context, im state.Immutable, seq uint64) (codec.Address, bool, error) {
	return getAddress(ctx, im, PoolIndexKey(seq))
}

// InsertPool records a new pool and folds it into the aggregate stats.
// Pools are never updated or removed once inserted. The TVL total
// saturates rather than refusing a pool.
func InsertPool(ctx context.Context, mu state.Mutable, info *types.PoolInfo) error {
	stats, err := GetPoolStats(ctx, mu)
	if err != nil {
		return err
	}
	tvl, overflow := new(uint256.Int).AddOverflow(stats.TotalTVL, info.TVL)
	if overflow {
		tvl.SetAllOne()
	}
	info.Index = stats.PoolCount
	if err := mu.Insert(ctx, PoolKey(info.PoolID), info.Bytes()); err != nil {
		return err
	}
	if err := setAddress(ctx, mu, AssetPoolKey(info.AssetID), info.PoolID); err != nil {
		return err
	}
	if err := setAddress(ctx, mu, PoolIndexKey(info.Index), info.PoolID); err != nil {
		return err
	}
	return setPoolStats(ctx, mu, &PoolStats{PoolCount: stats.PoolCount + 1, TotalTVL: tvl})
}
