// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/pricing"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
	"github.com/ava-labs/fairlaunch/types"
)

// market is the loaded curve state of a token shard.
type market struct {
	cfg   *types.TokenConfig
	state *types.TokenState
	curve *pricing.Curve
}

func loadMarket(ctx context.Context, im state.Immutable) (*market, error) {
	cfg, err := storage.GetTokenConfig(ctx, im)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrNotInitialized
	}
	st, err := storage.GetTokenState(ctx, im)
	if err != nil {
		return nil, err
	}
	curve, err := pricing.New(cfg.Curve)
	if err != nil {
		return nil, err
	}
	if st.CurrentSupply.Gt(cfg.Curve.MaxSupply) {
		return nil, fmt.Errorf("%w: supply %s above max %s", ErrLedgerMismatch, st.CurrentSupply, cfg.Curve.MaxSupply)
	}
	return &market{cfg: cfg, state: st, curve: curve}, nil
}

// loadTradable loads the market and rejects it unless it is Active.
func loadTradable(ctx context.Context, im state.Immutable) (*market, error) {
	m, err := loadMarket(ctx, im)
	if err != nil {
		return nil, err
	}
	if m.state.State != types.Active {
		return nil, fmt.Errorf("%w: state is %s", ErrAlreadyGraduated, m.state.State)
	}
	return m, nil
}

// appendTrade records the trade, bumps the trade count and the trader's
// position. [paid] is what the trader spent, [received] what they got back.
func (m *market) appendTrade(
	ctx context.Context,
	mu state.Mutable,
	env Env,
	actor codec.Address,
	isBuy bool,
	amount, currency, fee, paid, received *uint256.Int,
) (*types.TradeRecord, error) {
	price, err := m.curve.Price(m.state.CurrentSupply)
	if err != nil {
		return nil, err
	}
	trade := &types.TradeRecord{
		Sequence:       m.state.TradeCount,
		Trader:         actor,
		IsBuy:          isBuy,
		TokenAmount:    amount,
		CurrencyAmount: currency,
		Fee:            fee,
		ResultingPrice: price,
		Timestamp:      env.Timestamp(),
	}
	if err := storage.SetTrade(ctx, mu, trade); err != nil {
		return nil, err
	}
	m.state.TradeCount++

	pos, err := storage.GetPosition(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	var overflow bool
	if _, overflow = pos.TotalInvested.AddOverflow(pos.TotalInvested, paid); overflow {
		return nil, ErrOverflow
	}
	if _, overflow = pos.TotalReturned.AddOverflow(pos.TotalReturned, received); overflow {
		return nil, ErrOverflow
	}
	pos.Trades++
	if err := storage.SetPosition(ctx, mu, actor, pos); err != nil {
		return nil, err
	}
	return trade, nil
}

// update builds the factory notification for the current state.
func (m *market) update(self codec.Address) *messages.LaunchUpdate {
	return messages.NewLaunchUpdate(self, m.state)
}

// notify sends a best-effort refresh of the factory's cache.
func (m *market) notify(r Rules, env Env) error {
	if !r.NotifyTrades() {
		return nil
	}
	return env.Send(m.cfg.Factory, m.update(env.Self()), false)
}

// checkReserve fails if the shard's own settlement balance cannot cover
// everything ever raised and not yet returned.
func (m *market) checkReserve(ctx context.Context, im state.Immutable, self codec.Address) error {
	reserve, err := storage.GetNativeBalance(ctx, im, self)
	if err != nil {
		return err
	}
	if reserve.Lt(m.state.TotalRaised) {
		return fmt.Errorf("%w: reserve=%s raised=%s", ErrReserveShortfall, reserve, m.state.TotalRaised)
	}
	return nil
}
