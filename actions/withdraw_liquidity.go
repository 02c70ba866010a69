// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
)

var _ Action = (*WithdrawLiquidity)(nil)

// WithdrawLiquidity exists so that the lock is observable: it never
// succeeds.
type WithdrawLiquidity struct {
	PoolID codec.Address `json:"poolId"`
}

func (*WithdrawLiquidity) GetTypeID() uint8 {
	return consts.WithdrawLiquidityID
}

func (*WithdrawLiquidity) Size() int {
	return codec.AddressLen
}

func (w *WithdrawLiquidity) Marshal(p *codec.Packer) {
	p.PackAddress(w.PoolID)
}

func UnmarshalWithdrawLiquidity(p *codec.Packer) (Action, error) {
	var w WithdrawLiquidity
	p.UnpackAddress(true, &w.PoolID)
	return &w, p.Err()
}

func (w *WithdrawLiquidity) Execute(ctx context.Context, _ Rules, _ Env, mu state.Mutable, _ codec.Address) (codec.Typed, error) {
	_, ok, err := storage.GetPool(ctx, mu, w.PoolID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, w.PoolID)
	}
	return nil, fmt.Errorf("%w: pool %s", ErrLiquidityLocked, w.PoolID)
}
