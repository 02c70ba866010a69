// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements the shard that owns one launched asset: its
// bonding curve, its ledger and its settlement reserve.
package token

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
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
)

var _ shard.Shard = (*Shard)(nil)

type Shard struct {
	*shard.Base

	pool    codec.Address
	metrics *Metrics
}

// New rebuilds a token shard from its creation parameters. Its parent is
// the factory that provisioned it.
func New(
	params shard.Params,
	db state.Database,
	h host.Host,
	rules actions.Rules,
	log logging.Logger,
	metrics *Metrics,
) (*Shard, error) {
	tp, err := types.ParseTokenParams(params.InitArgs)
	if err != nil {
		return nil, err
	}
	return &Shard{
		Base: shard.NewBase(
			params, db, h, rules, log,
			consts.BuyID, consts.SellID, consts.ApproveID, consts.TransferFromID,
		),
		pool:    tp.Pool,
		metrics: metrics,
	}, nil
}

func (s *Shard) Execute(ctx context.Context, actor codec.Address, action actions.Action) (codec.Typed, error) {
	out, err := s.Base.Execute(ctx, actor, action)
	if err != nil {
		s.metrics.rejected.Inc()
		s.Log().Debug("operation rejected",
			zap.Stringer("asset", s.ID()),
			zap.Stringer("actor", actor),
			zap.Uint8("type", action.GetTypeID()),
			zap.Error(err),
		)
		return nil, err
	}
	switch res := out.(type) {
	case *actions.BuyResult:
		s.metrics.buys.Inc()
		if res.Graduating {
			s.metrics.graduations.Inc()
			s.Log().Info("curve completed",
				zap.Stringer("asset", s.ID()),
				zap.Stringer("supply", res.NewSupply),
			)
		}
	case *actions.SellResult:
		s.metrics.sells.Inc()
	case *actions.TransferFromResult:
		s.metrics.transfers.Inc()
	}
	return out, nil
}

func (s *Shard) HandleMessage(ctx context.Context, from codec.Address, msg messages.Message) error {
	switch m := msg.(type) {
	case *messages.InitToken:
		return s.handleInit(ctx, from, m)
	case *messages.Credit:
		return s.handleCredit(ctx, from, m)
	case *messages.PoolCreated:
		return s.handlePoolCreated(ctx, from, m)
	default:
		s.drop("unsupported message", from, msg)
		return nil
	}
}

func (s *Shard) handleInit(ctx context.Context, from codec.Address, m *messages.InitToken) error {
	if from != s.Params().Parent {
		s.drop("init from unexpected sender", from, m)
		return nil
	}
	var rejected string
	_, err := s.Run(ctx, func(ctx context.Context, mu state.Mutable, env *shard.Context) (codec.Typed, error) {
		cfg, err := storage.GetTokenConfig(ctx, mu)
		if err != nil {
			return nil, err
		}
		ack := &messages.TokenInitialized{AssetID: env.Self()}
		if cfg != nil {
			existing := &messages.InitToken{
				Creator:   cfg.Creator,
				Metadata:  cfg.Metadata,
				Curve:     cfg.Curve,
				CreatedAt: cfg.CreatedAt,
			}
			if !existing.SameAs(m) {
				rejected = "conflicting init"
				return nil, nil
			}
			s.Log().Info("duplicate init", zap.Stringer("asset", env.Self()))
			return nil, env.Send(from, ack, true)
		}
		if err := pricing.Validate(m.Curve); err != nil {
			rejected = "init with invalid curve"
			return nil, nil
		}
		if err := storage.SetTokenConfig(ctx, mu, &types.TokenConfig{
			Creator:   m.Creator,
			Factory:   from,
			Pool:      s.pool,
			Metadata:  m.Metadata,
			Curve:     m.Curve,
			CreatedAt: m.CreatedAt,
		}); err != nil {
			return nil, err
		}
		st := types.NewTokenState()
		st.State = types.Active
		if err := storage.SetTokenState(ctx, mu, st); err != nil {
			return nil, err
		}
		return nil, env.Send(from, ack, true)
	})
	if err == nil && len(rejected) > 0 {
		s.drop(rejected, from, m)
	}
	return err
}

// handleCredit funds an account's settlement balance on this shard. Only
// the substrate itself may mint settlement currency.
func (s *Shard) handleCredit(ctx context.Context, from codec.Address, m *messages.Credit) error {
	if from != codec.EmptyAddress {
		s.drop("credit from non-system sender", from, m)
		return nil
	}
	_, err := s.Run(ctx, func(ctx context.Context, mu state.Mutable, _ *shard.Context) (codec.Typed, error) {
		return nil, storage.AddNativeBalance(ctx, mu, m.Account, m.Amount)
	})
	return err
}

func (s *Shard) handlePoolCreated(ctx context.Context, from codec.Address, m *messages.PoolCreated) error {
	if from != s.pool || m.AssetID != s.ID() {
		s.drop("pool confirmation from unexpected sender", from, m)
		return nil
	}
	var (
		graduated bool
		rejected  string
	)
	_, err := s.Run(ctx, func(ctx context.Context, mu state.Mutable, env *shard.Context) (codec.Typed, error) {
		cfg, err := storage.GetTokenConfig(ctx, mu)
		if err != nil {
			return nil, err
		}
		st, err := storage.GetTokenState(ctx, mu)
		if err != nil {
			return nil, err
		}
		switch st.State {
		case types.Graduated:
			s.Log().Info("duplicate pool confirmation",
				zap.Stringer("asset", env.Self()),
				zap.Stringer("pool", m.PoolID),
			)
			return nil, nil
		case types.Graduating:
		default:
			rejected = "pool confirmation before graduation"
			return nil, nil
		}
		st.State = types.Graduated
		st.PoolID = m.PoolID
		if err := storage.SetTokenState(ctx, mu, st); err != nil {
			return nil, err
		}
		graduated = true
		return nil, env.Send(cfg.Factory, messages.NewLaunchUpdate(env.Self(), st), true)
	})
	switch {
	case err != nil:
		return err
	case graduated:
		s.metrics.graduated.Inc()
		s.Log().Info("token graduated",
			zap.Stringer("asset", s.ID()),
			zap.Stringer("pool", m.PoolID),
		)
	case len(rejected) > 0:
		s.drop(rejected, from, m)
	}
	return nil
}

// Recover re-emits the graduation hand-off while the pool has not
// confirmed it, and refreshes the factory once it has.
func (s *Shard) Recover(ctx context.Context) error {
	im := s.State()
	cfg, err := storage.GetTokenConfig(ctx, im)
	if err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}
	st, err := storage.GetTokenState(ctx, im)
	if err != nil {
		return err
	}
	update := messages.NewLaunchUpdate(s.ID(), st)
	switch st.State {
	case types.Graduating:
		s.Log().Info("resuming graduation", zap.Stringer("asset", s.ID()))
		if err := s.Emit(ctx, cfg.Pool, &messages.GraduateToken{
			AssetID:     s.ID(),
			TotalSupply: st.CurrentSupply.Clone(),
			TotalRaised: st.TotalRaised.Clone(),
		}, true); err != nil {
			return err
		}
		return s.Emit(ctx, cfg.Factory, update, true)
	case types.Graduated:
		return s.Emit(ctx, cfg.Factory, update, true)
	default:
		return nil
	}
}

func (s *Shard) drop(reason string, from codec.Address, msg messages.Message) {
	s.metrics.dropped.Inc()
	s.Log().Warn("dropping message",
		zap.String("reason", reason),
		zap.Stringer("asset", s.ID()),
		zap.Stringer("from", from),
		zap.Uint8("type", msg.GetTypeID()),
	)
}
