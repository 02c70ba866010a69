// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool implements the shard that turns a completed curve into a
// permanently locked liquidity pool.
package pool

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ava-labs/fairlaunch/actions"
	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/host"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/pricing"
	"github.com/ava-labs/fairlaunch/shard"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
	"github.com/ava-labs/fairlaunch/types"
	"github.com/ava-labs/fairlaunch/utils"
)

var _ shard.Shard = (*Shard)(nil)

// ID derives the pool of [asset]. At most one pool exists per asset.
func ID(asset codec.Address) codec.Address {
	return codec.CreateAddress(consts.PoolID, utils.ToID(asset[:]))
}

type Shard struct {
	*shard.Base

	metrics *Metrics
}

func New(
	params shard.Params,
	db state.Database,
	h host.Host,
	rules actions.Rules,
	log logging.Logger,
	metrics *Metrics,
) *Shard {
	return &Shard{
		Base:    shard.NewBase(params, db, h, rules, log, consts.WithdrawLiquidityID),
		metrics: metrics,
	}
}

func (s *Shard) Execute(ctx context.Context, actor codec.Address, action actions.Action) (codec.Typed, error) {
	out, err := s.Base.Execute(ctx, actor, action)
	if err != nil {
		s.metrics.rejected.Inc()
		return nil, err
	}
	return out, nil
}

func (s *Shard) HandleMessage(ctx context.Context, from codec.Address, msg messages.Message) error {
	m, ok := msg.(*messages.GraduateToken)
	if !ok {
		s.drop("unsupported message", from, msg)
		return nil
	}
	if from != m.AssetID {
		s.drop("graduation for another asset", from, msg)
		return nil
	}
	var res graduation
	_, err := s.Run(ctx, func(ctx context.Context, mu state.Mutable, env *shard.Context) (codec.Typed, error) {
		var err error
		res, err = s.graduate(ctx, mu, env, m)
		return nil, err
	})
	if err != nil {
		return err
	}
	switch {
	case res.created != nil:
		s.metrics.pools.Inc()
		s.Log().Info("pool created",
			zap.Stringer("asset", res.created.AssetID),
			zap.Stringer("pool", res.created.PoolID),
			zap.Stringer("tokens", res.created.TokenLiquidity),
			zap.Stringer("base", res.created.BaseLiquidity),
		)
	case res.duplicate:
		s.metrics.duplicates.Inc()
	case len(res.rejected) > 0:
		s.drop(res.rejected, from, m)
	}
	return nil
}

// graduation is what a committed graduation did.
type graduation struct {
	created   *types.PoolInfo
	duplicate bool
	rejected  string
}

// graduate creates the pool for [m.AssetID] once. A repeated request
// only repeats the confirmation.
func (s *Shard) graduate(ctx context.Context, mu state.Mutable, env *shard.Context, m *messages.GraduateToken) (graduation, error) {
	existing, ok, err := storage.GetAssetPool(ctx, mu, m.AssetID)
	if err != nil {
		return graduation{}, err
	}
	if ok {
		s.Log().Info("duplicate graduation",
			zap.Stringer("asset", m.AssetID),
			zap.Stringer("pool", existing),
		)
		return graduation{duplicate: true}, env.Send(m.AssetID, &messages.PoolCreated{AssetID: m.AssetID, PoolID: existing}, true)
	}
	if m.TotalSupply == nil || m.TotalSupply.IsZero() || m.TotalRaised == nil || m.TotalRaised.IsZero() {
		return graduation{rejected: "graduation without liquidity"}, nil
	}
	// Unreachable from a curve that validated; kept for foreign senders.
	ratio, err := pricing.Ratio(m.TotalRaised, m.TotalSupply)
	if err != nil {
		return graduation{rejected: "graduation with unpriceable liquidity"}, nil
	}
	tvl, overflow := new(uint256.Int).MulOverflow(m.TotalRaised, uint256.NewInt(2))
	if overflow {
		return graduation{rejected: "graduation with unpriceable liquidity"}, nil
	}
	info := &types.PoolInfo{
		PoolID:         ID(m.AssetID),
		AssetID:        m.AssetID,
		TokenLiquidity: m.TotalSupply,
		BaseLiquidity:  m.TotalRaised,
		InitialRatio:   ratio,
		TVL:            tvl,
		CreatedAt:      env.Timestamp(),
	}
	if err := storage.InsertPool(ctx, mu, info); err != nil {
		return graduation{}, err
	}
	return graduation{created: info}, env.Send(m.AssetID, &messages.PoolCreated{AssetID: m.AssetID, PoolID: info.PoolID}, true)
}

// Recover has nothing to do: a token shard that missed its confirmation
// asks again, and the request is answered from committed state.
func (*Shard) Recover(context.Context) error {
	return nil
}

func (s *Shard) drop(reason string, from codec.Address, msg messages.Message) {
	s.metrics.dropped.Inc()
	s.Log().Warn("dropping message",
		zap.String("reason", reason),
		zap.Stringer("from", from),
		zap.Uint8("type", msg.GetTypeID()),
	)
}
