// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/state"
)

// Every shard owns its own namespace, so prefixes only need to be unique
// within one shard kind. They are kept globally distinct anyway.
const (
	// token shard
	tokenConfigPrefix byte = iota
	tokenStatePrefix
	balancePrefix
	allowancePrefix
	nativeBalancePrefix
	positionPrefix
	tradePrefix

	// factory shard
	launchCountPrefix
	launchPrefix
	launchIndexPrefix
	creatorCountPrefix
	creatorIndexPrefix

	// pool shard
	poolStatsPrefix
	poolPrefix
	assetPoolPrefix
	poolIndexPrefix

	// runtime
	shardPrefix
	shardNoncePrefix
)

var ErrInvalidBalance = errors.New("invalid balance")

func addressKey(prefix byte, addr codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = prefix
	copy(k[1:], addr[:])
	return k
}

func addressPairKey(prefix byte, a, b codec.Address) []byte {
	k := make([]byte, 1+2*codec.AddressLen)
	k[0] = prefix
	copy(k[1:], a[:])
	copy(k[1+codec.AddressLen:], b[:])
	return k
}

func sequenceKey(prefix byte, seq uint64) []byte {
	k := make([]byte, 1+consts.Uint64Len)
	k[0] = prefix
	binary.BigEndian.PutUint64(k[1:], seq)
	return k
}

// getAmount returns zero for a missing key.
func getAmount(ctx context.Context, im state.Immutable, key []byte) (*uint256.Int, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}
	if len(v) != consts.Uint256Len {
		return nil, ErrInvalidBalance
	}
	return new(uint256.Int).SetBytes(v), nil
}

// setAmount removes the key once the amount reaches zero.
func setAmount(ctx context.Context, mu state.Mutable, key []byte, v *uint256.Int) error {
	if v.IsZero() {
		return mu.Remove(ctx, key)
	}
	b := v.Bytes32()
	return mu.Insert(ctx, key, b[:])
}

func getUint64(ctx context.Context, im state.Immutable, key []byte) (uint64, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, codec.ErrInvalidSize
	}
	return binary.BigEndian.Uint64(v), nil
}

func setUint64(ctx context.Context, mu state.Mutable, key []byte, v uint64) error {
	return mu.Insert(ctx, key, binary.BigEndian.AppendUint64(nil, v))
}

func getAddress(ctx context.Context, im state.Immutable, key []byte) (codec.Address, bool, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, false, nil
	}
	if err != nil {
		return codec.EmptyAddress, false, err
	}
	if len(v) != codec.AddressLen {
		return codec.EmptyAddress, false, codec.ErrInvalidSize
	}
	return codec.Address(v), true, nil
}

func setAddress(ctx context.Context, mu state.Mutable, key []byte, addr codec.Address) error {
	return mu.Insert(ctx, key, addr[:])
}

// getRecord loads and parses a record, reporting whether it exists.
func getRecord[T any](ctx context.Context, im state.Immutable, key []byte, parse func([]byte) (T, error)) (T, bool, error) {
	var empty T
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return empty, false, nil
	}
	if err != nil {
		return empty, false, err
	}
	r, err := parse(v)
	if err != nil {
		return empty, false, err
	}
	return r, true, nil
}
