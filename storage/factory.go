// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/types"
)

func LaunchCountKey() []byte {
	return []byte{launchCountPrefix}
}

func LaunchKey(asset codec.Address) []byte {
	return addressKey(launchPrefix, asset)
}

func LaunchIndexKey(seq uint64) []byte {
	return sequenceKey(launchIndexPrefix, seq)
}

func CreatorCountKey(creator codec.Address) []byte {
	return addressKey(creatorCountPrefix, creator)
}

func CreatorIndexKey(creator codec.Address, i uint64) []byte {
	k := make([]byte, 1+codec.AddressLen+consts.Uint64Len)
	k[0] = creatorIndexPrefix
	copy(k[1:], creator[:])
	binary.BigEndian.PutUint64(k[1+codec.AddressLen:], i)
	return k
}

func GetLaunchCount(ctx context.Context, im state.Immutable) (uint64, error) {
	return getUint64(ctx, im, LaunchCountKey())
}

func GetLaunch(ctx context.Context, im state.Immutable, asset codec.Address) (*types.LaunchEntry, bool, error) {
	return getRecord(ctx, im, LaunchKey(asset), types.ParseLaunchEntry)
}

func SetLaunch(ctx context.Context, mu state.Mutable, e *types.LaunchEntry) error {
	return mu.Insert(ctx, LaunchKey(e.AssetID), e.Bytes())
}

// InsertLaunch stores a new entry, assigning it the next sequential index
// and appending it to its creator's index.
func InsertLaunch(ctx context.Context, mu state.Mutable, e *types.LaunchEntry) error {
	seq, err := GetLaunchCount(ctx, mu)
	if err != nil {
		return err
	}
	e.Index = seq
	if err := SetLaunch(ctx, mu, e); err != nil {
		return err
	}
	if err := setAddress(ctx, mu, LaunchIndexKey(seq), e.AssetID); err != nil {
		return err
	}
	if err := setUint64(ctx, mu, LaunchCountKey(), seq+1); err != nil {
		return err
	}
	n, err := GetCreatorCount(ctx, mu, e.Creator)
	if err != nil {
		return err
	}
	if err := setAddress(ctx, mu, CreatorIndexKey(e.Creator, n), e.AssetID); err != nil {
		return err
	}
	return setUint64(ctx, mu, CreatorCountKey(e.Creator), n+1)
}

func GetLaunchAt(ctx context.Context, im state.Immutable, seq uint64) (codec.Address, bool, error) {
	return getAddress(ctx, im, LaunchIndexKey(seq))
}

func GetCreatorCount(ctx context.Context, im state.Immutable, creator codec.Address) (uint64, error) {
	return getUint64(ctx, im, CreatorCountKey(creator))
}

func GetCreatorLaunchAt(ctx context.Context, im state.Immutable, creator codec.Address, i uint64) (codec.Address, bool, error) {
	return getAddress(ctx, im, CreatorIndexKey(creator, i))
}
