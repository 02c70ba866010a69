// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/actions"
	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/pricing"
	"github.com/ava-labs/fairlaunch/storage"
	"github.com/ava-labs/fairlaunch/types"
	"github.com/ava-labs/fairlaunch/utils"
)

// Queries read committed state only and may run concurrently with the
// shard's mailbox.

func (s *Shard) TokenState(ctx context.Context) (*types.TokenState, error) {
	return storage.GetTokenState(ctx, s.State())
}

// Config returns nil until the shard has been initialized.
func (s *Shard) Config(ctx context.Context) (*types.TokenConfig, error) {
	return storage.GetTokenConfig(ctx, s.State())
}

func (s *Shard) BalanceOf(ctx context.Context, account codec.Address) (*uint256.Int, error) {
	return storage.GetBalance(ctx, s.State(), account)
}

// NativeBalanceOf returns the settlement currency [account] holds on this
// shard. The shard's own address holds the curve reserve.
func (s *Shard) NativeBalanceOf(ctx context.Context, account codec.Address) (*uint256.Int, error) {
	return storage.GetNativeBalance(ctx, s.State(), account)
}

func (s *Shard) Allowance(ctx context.Context, owner, spender codec.Address) (*uint256.Int, error) {
	return storage.GetAllowance(ctx, s.State(), owner, spender)
}

func (s *Shard) Position(ctx context.Context, account codec.Address) (*types.Position, error) {
	return storage.GetPosition(ctx, s.State(), account)
}

// Trades returns the trade log window [offset, offset+limit).
func (s *Shard) Trades(ctx context.Context, offset, limit uint64) ([]*types.TradeRecord, error) {
	im := s.State()
	st, err := storage.GetTokenState(ctx, im)
	if err != nil {
		return nil, err
	}
	start, end := utils.Paginate(st.TradeCount, offset, limit)
	trades := make([]*types.TradeRecord, 0, end-start)
	for i := start; i < end; i++ {
		trade, ok, err := storage.GetTrade(ctx, im, i)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, actions.ErrLedgerMismatch
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func (s *Shard) Price(ctx context.Context) (*uint256.Int, error) {
	curve, st, err := s.curve(ctx)
	if err != nil {
		return nil, err
	}
	return curve.Price(st.CurrentSupply)
}

func (s *Shard) QuoteBuy(ctx context.Context, amount *uint256.Int) (*pricing.BuyQuote, error) {
	curve, st, err := s.curve(ctx)
	if err != nil {
		return nil, err
	}
	return curve.QuoteBuy(st.CurrentSupply, amount)
}

func (s *Shard) QuoteSell(ctx context.Context, amount *uint256.Int) (*pricing.SellQuote, error) {
	curve, st, err := s.curve(ctx)
	if err != nil {
		return nil, err
	}
	return curve.QuoteSell(st.CurrentSupply, amount)
}

func (s *Shard) curve(ctx context.Context) (*pricing.Curve, *types.TokenState, error) {
	im := s.State()
	cfg, err := storage.GetTokenConfig(ctx, im)
	if err != nil {
		return nil, nil, err
	}
	if cfg == nil {
		return nil, nil, actions.ErrNotInitialized
	}
	st, err := storage.GetTokenState(ctx, im)
	if err != nil {
		return nil, nil, err
	}
	curve, err := pricing.New(cfg.Curve)
	if err != nil {
		return nil, nil, err
	}
	return curve, st, nil
}
