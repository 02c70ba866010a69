// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package factory implements the shard that launches tokens and keeps a
// registry of them.
//
// The registry is a cache. Each token shard is authoritative for its own
// supply, raise and lifecycle; the values here may lag behind.
package factory

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/fairlaunch/actions"
	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/host"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/shard"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
)

var _ shard.Shard = (*Shard)(nil)

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
		Base:    shard.NewBase(params, db, h, rules, log, consts.CreateTokenID),
		metrics: metrics,
	}
}

func (s *Shard) Execute(ctx context.Context, actor codec.Address, action actions.Action) (codec.Typed, error) {
	out, err := s.Base.Execute(ctx, actor, action)
	if err != nil {
		s.metrics.rejected.Inc()
		return nil, err
	}
	if res, ok := out.(*actions.CreateTokenResult); ok {
		s.metrics.launches.Inc()
		s.Log().Info("token launched",
			zap.Stringer("asset", res.AssetID),
			zap.Stringer("creator", actor),
			zap.Uint64("index", res.Index),
		)
	}
	return out, nil
}

func (s *Shard) HandleMessage(ctx context.Context, from codec.Address, msg messages.Message) error {
	switch m := msg.(type) {
	case *messages.TokenInitialized:
		return s.handleInitialized(ctx, from, m)
	case *messages.LaunchUpdate:
		return s.handleUpdate(ctx, from, m)
	default:
		s.drop("unsupported message", from, msg)
		return nil
	}
}

func (s *Shard) handleInitialized(ctx context.Context, from codec.Address, m *messages.TokenInitialized) error {
	if from != m.AssetID {
		s.drop("acknowledgement for another asset", from, m)
		return nil
	}
	var (
		initialized bool
		unknown     bool
	)
	_, err := s.Run(ctx, func(ctx context.Context, mu state.Mutable, _ *shard.Context) (codec.Typed, error) {
		entry, ok, err := storage.GetLaunch(ctx, mu, m.AssetID)
		if err != nil {
			return nil, err
		}
		if !ok {
			unknown = true
			return nil, nil
		}
		if entry.Initialized {
			s.Log().Info("duplicate acknowledgement", zap.Stringer("asset", m.AssetID))
			return nil, nil
		}
		entry.Initialized = true
		initialized = true
		return nil, storage.SetLaunch(ctx, mu, entry)
	})
	switch {
	case err != nil:
		return err
	case initialized:
		s.metrics.initialized.Inc()
	case unknown:
		s.drop("acknowledgement for unknown asset", from, m)
	}
	return nil
}

// handleUpdate applies [m] unless it is older than what the registry
// already holds. Versions order trades; at equal versions the lifecycle
// decides, and it never moves backwards.
func (s *Shard) handleUpdate(ctx context.Context, from codec.Address, m *messages.LaunchUpdate) error {
	if from != m.AssetID {
		s.drop("update for another asset", from, m)
		return nil
	}
	var (
		applied bool
		stale   bool
		unknown bool
	)
	_, err := s.Run(ctx, func(ctx context.Context, mu state.Mutable, _ *shard.Context) (codec.Typed, error) {
		entry, ok, err := storage.GetLaunch(ctx, mu, m.AssetID)
		if err != nil {
			return nil, err
		}
		if !ok {
			unknown = true
			return nil, nil
		}
		switch {
		case m.State < entry.State,
			m.Version < entry.LastKnownVersion,
			m.Version == entry.LastKnownVersion && m.State == entry.State:
			stale = true
			s.Log().Debug("ignoring stale update",
				zap.Stringer("asset", m.AssetID),
				zap.Uint64("version", m.Version),
				zap.Uint64("known", entry.LastKnownVersion),
			)
			return nil, nil
		}
		entry.LastKnownVersion = m.Version
		entry.LastKnownSupply = m.Supply
		entry.LastKnownRaised = m.Raised
		entry.State = m.State
		entry.PoolID = m.PoolID
		applied = true
		return nil, storage.SetLaunch(ctx, mu, entry)
	})
	switch {
	case err != nil:
		return err
	case applied:
		s.metrics.updates.Inc()
	case stale:
		s.metrics.staleUpdates.Inc()
	case unknown:
		s.drop("update for unknown asset", from, m)
	}
	return nil
}

// Recover re-sends the init of every launch whose shard has not
// acknowledged it. Token shards answer duplicate inits idempotently.
func (s *Shard) Recover(ctx context.Context) error {
	im := s.State()
	count, err := storage.GetLaunchCount(ctx, im)
	if err != nil {
		return err
	}
	for i := uint64(0); i < count; i++ {
		asset, ok, err := storage.GetLaunchAt(ctx, im, i)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		entry, ok, err := storage.GetLaunch(ctx, im, asset)
		if err != nil {
			return err
		}
		if !ok || entry.Initialized {
			continue
		}
		s.Log().Info("resending init", zap.Stringer("asset", asset))
		if err := s.Emit(ctx, asset, &messages.InitToken{
			Creator:   entry.Creator,
			Metadata:  entry.Metadata,
			Curve:     entry.Curve,
			CreatedAt: entry.CreatedAt,
		}, true); err != nil {
			return err
		}
	}
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
