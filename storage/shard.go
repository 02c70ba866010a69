// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/state"
)

// ShardRecord is what the runtime needs to re-instantiate a shard after a
// restart.
type ShardRecord struct {
	Address  codec.Address
	Kind     uint8
	Owner    codec.Address
	Parent   codec.Address
	InitArgs []byte
}

func (r *ShardRecord) Bytes() []byte {
	p := codec.NewWriter(3*codec.AddressLen+consts.ByteLen+codec.BytesLen(r.InitArgs), consts.MaxMessageSize)
	p.PackAddress(r.Address)
	p.PackByte(r.Kind)
	p.PackAddress(r.Owner)
	p.PackAddress(r.Parent)
	p.PackBytes(r.InitArgs)
	return p.Bytes()
}

func ParseShardRecord(b []byte) (*ShardRecord, error) {
	p := codec.NewReader(b, consts.MaxMessageSize)
	var r ShardRecord
	p.UnpackAddress(true, &r.Address)
	r.Kind = p.UnpackByte()
	p.UnpackAddress(false, &r.Owner)
	p.UnpackAddress(false, &r.Parent)
	p.UnpackBytes(consts.MaxMessageSize, false, &r.InitArgs)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrTrailingBytes
	}
	return &r, nil
}

func ShardKey(seq uint64) []byte {
	return sequenceKey(shardPrefix, seq)
}

func ShardCountKey() []byte {
	return []byte{shardNoncePrefix}
}

func GetShardCount(ctx context.Context, im state.Immutable) (uint64, error) {
	return getUint64(ctx, im, ShardCountKey())
}

func GetShard(ctx context.Context, im state.Immutable, seq uint64) (*ShardRecord, bool, error) {
	return getRecord(ctx, im, ShardKey(seq), ParseShardRecord)
}

// AppendShard registers [r] and returns its sequence number.
func AppendShard(ctx context.Context, mu state.Mutable, r *ShardRecord) (uint64, error) {
	seq, err := GetShardCount(ctx, mu)
	if err != nil {
		return 0, err
	}
	if err := mu.Insert(ctx, ShardKey(seq), r.Bytes()); err != nil {
		return 0, err
	}
	return seq, setUint64(ctx, mu, ShardCountKey(), seq+1)
}
