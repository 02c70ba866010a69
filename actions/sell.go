// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
)

var (
	_ codec.Typed = (*SellResult)(nil)
	_ Action      = (*Sell)(nil)
)

type SellResult struct {
	GrossReturn *uint256.Int `json:"grossReturn"`
	Fee         *uint256.Int `json:"fee"`
	NetReturn   *uint256.Int `json:"netReturn"`
	Sequence    uint64       `json:"sequence"`
	NewSupply   *uint256.Int `json:"newSupply"`
	NewPrice    *uint256.Int `json:"newPrice"`
}

func (*SellResult) GetTypeID() uint8 {
	return consts.SellID
}

// Sell burns Amount tokens back into the curve for at least MinReturn,
// net of fee.
type Sell struct {
	Amount    *uint256.Int `json:"amount"`
	MinReturn *uint256.Int `json:"minReturn"`
}

func (*Sell) GetTypeID() uint8 {
	return consts.SellID
}

func (*Sell) Size() int {
	return 2 * consts.Uint256Len
}

func (s *Sell) Marshal(p *codec.Packer) {
	p.PackUint256(s.Amount)
	p.PackUint256(s.MinReturn)
}

func UnmarshalSell(p *codec.Packer) (Action, error) {
	var s Sell
	s.Amount = p.UnpackUint256(false)
	s.MinReturn = p.UnpackUint256(false)
	return &s, p.Err()
}

func (s *Sell) Execute(ctx context.Context, r Rules, env Env, mu state.Mutable, actor codec.Address) (codec.Typed, error) {
	m, err := loadTradable(ctx, mu)
	if err != nil {
		return nil, err
	}
	if s.Amount == nil || s.Amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	bal, err := storage.GetBalance(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	if bal.Lt(s.Amount) {
		return nil, fmt.Errorf("%w: have %s, selling %s", ErrInsufficientBalance, bal, s.Amount)
	}
	quote, err := m.curve.QuoteSell(m.state.CurrentSupply, s.Amount)
	if err != nil {
		return nil, err
	}
	minReturn := s.MinReturn
	if minReturn == nil {
		minReturn = new(uint256.Int)
	}
	if quote.Net.Lt(minReturn) {
		return nil, fmt.Errorf("%w: net return %s below min %s", ErrSlippageExceeded, quote.Net, minReturn)
	}

	// Ledger: one debit of the burned amount.
	emptied, err := storage.SubBalance(ctx, mu, actor, s.Amount)
	if err != nil {
		return nil, err
	}
	if emptied {
		m.state.HolderCount--
	}
	m.state.CurrentSupply = new(uint256.Int).Sub(m.state.CurrentSupply, s.Amount)
	if m.state.TotalRaised.Lt(quote.Gross) {
		m.state.TotalRaised = new(uint256.Int)
	} else {
		m.state.TotalRaised = new(uint256.Int).Sub(m.state.TotalRaised, quote.Gross)
	}

	// Settlement: the reserve pays out gross, split between caller and creator.
	self := env.Self()
	if err := storage.SubNativeBalance(ctx, mu, self, quote.Gross); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReserveShortfall, err)
	}
	if err := storage.AddNativeBalance(ctx, mu, actor, quote.Net); err != nil {
		return nil, err
	}
	if err := storage.AddNativeBalance(ctx, mu, m.cfg.Creator, quote.Fee); err != nil {
		return nil, err
	}

	trade, err := m.appendTrade(ctx, mu, env, actor, false, s.Amount, quote.Gross, quote.Fee, new(uint256.Int), quote.Net)
	if err != nil {
		return nil, err
	}
	if err := m.checkReserve(ctx, mu, self); err != nil {
		return nil, err
	}
	if err := m.notify(r, env); err != nil {
		return nil, err
	}
	if err := storage.SetTokenState(ctx, mu, m.state); err != nil {
		return nil, err
	}
	return &SellResult{
		GrossReturn: quote.Gross,
		Fee:         quote.Fee,
		NetReturn:   quote.Net,
		Sequence:    trade.Sequence,
		NewSupply:   m.state.CurrentSupply,
		NewPrice:    trade.ResultingPrice,
	}, nil
}
