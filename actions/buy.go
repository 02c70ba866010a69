// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
	"github.com/ava-labs/fairlaunch/types"
)

var (
	_ codec.Typed = (*BuyResult)(nil)
	_ Action      = (*Buy)(nil)
)

type BuyResult struct {
	Cost       *uint256.Int         `json:"cost"`
	Fee        *uint256.Int         `json:"fee"`
	TotalCost  *uint256.Int         `json:"totalCost"`
	Sequence   uint64               `json:"sequence"`
	NewSupply  *uint256.Int         `json:"newSupply"`
	NewPrice   *uint256.Int         `json:"newPrice"`
	Lifecycle  types.LifecycleState `json:"lifecycle"`
	Graduating bool                 `json:"graduating"`
}

func (*BuyResult) GetTypeID() uint8 {
	return consts.BuyID
}

// Buy mints Amount tokens along the curve for at most MaxCost, fee
// included.
type Buy struct {
	Amount  *uint256.Int `json:"amount"`
	MaxCost *uint256.Int `json:"maxCost"`
}

func (*Buy) GetTypeID() uint8 {
	return consts.BuyID
}

func (*Buy) Size() int {
	return 2 * consts.Uint256Len
}

func (b *Buy) Marshal(p *codec.Packer) {
	p.PackUint256(b.Amount)
	p.PackUint256(b.MaxCost)
}

func UnmarshalBuy(p *codec.Packer) (Action, error) {
	var b Buy
	b.Amount = p.UnpackUint256(false)
	b.MaxCost = p.UnpackUint256(false)
	return &b, p.Err()
}

func (b *Buy) Execute(ctx context.Context, r Rules, env Env, mu state.Mutable, actor codec.Address) (codec.Typed, error) {
	m, err := loadTradable(ctx, mu)
	if err != nil {
		return nil, err
	}
	quote, err := m.curve.QuoteBuy(m.state.CurrentSupply, b.Amount)
	if err != nil {
		return nil, err
	}
	if b.MaxCost == nil || quote.Total.Gt(b.MaxCost) {
		return nil, fmt.Errorf("%w: total cost %s exceeds max %s", ErrSlippageExceeded, quote.Total, b.MaxCost)
	}
	funds, err := storage.GetNativeBalance(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	if funds.Lt(quote.Total) {
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, funds, quote.Total)
	}

	// Settlement: caller pays cost into the reserve and fee to the creator.
	self := env.Self()
	if err := storage.SubNativeBalance(ctx, mu, actor, quote.Total); err != nil {
		return nil, err
	}
	if err := storage.AddNativeBalance(ctx, mu, self, quote.Cost); err != nil {
		return nil, err
	}
	if err := storage.AddNativeBalance(ctx, mu, m.cfg.Creator, quote.Fee); err != nil {
		return nil, err
	}

	// Ledger: one credit of the minted amount.
	first, err := storage.AddBalance(ctx, mu, actor, b.Amount)
	if err != nil {
		return nil, err
	}
	if first {
		m.state.HolderCount++
	}
	// BuyCost already checked supply + amount <= maxSupply.
	m.state.CurrentSupply = new(uint256.Int).Add(m.state.CurrentSupply, b.Amount)
	raised, overflow := new(uint256.Int).AddOverflow(m.state.TotalRaised, quote.Cost)
	if overflow {
		return nil, ErrOverflow
	}
	m.state.TotalRaised = raised

	trade, err := m.appendTrade(ctx, mu, env, actor, true, b.Amount, quote.Cost, quote.Fee, quote.Total, new(uint256.Int))
	if err != nil {
		return nil, err
	}
	if err := m.checkReserve(ctx, mu, self); err != nil {
		return nil, err
	}

	graduating := m.curve.ReachedGraduation(m.state.CurrentSupply, m.state.TotalRaised)
	if graduating {
		m.state.State = types.Graduating
		if err := env.Send(m.cfg.Pool, &messages.GraduateToken{
			AssetID:     self,
			TotalSupply: m.state.CurrentSupply.Clone(),
			TotalRaised: m.state.TotalRaised.Clone(),
		}, true); err != nil {
			return nil, err
		}
		if err := env.Send(m.cfg.Factory, m.update(self), true); err != nil {
			return nil, err
		}
	} else if err := m.notify(r, env); err != nil {
		return nil, err
	}
	if err := storage.SetTokenState(ctx, mu, m.state); err != nil {
		return nil, err
	}
	return &BuyResult{
		Cost:       quote.Cost,
		Fee:        quote.Fee,
		TotalCost:  quote.Total,
		Sequence:   trade.Sequence,
		NewSupply:  m.state.CurrentSupply,
		NewPrice:   trade.ResultingPrice,
		Lifecycle:  m.state.State,
		Graduating: graduating,
	}, nil
}
