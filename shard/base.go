// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package shard

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.uber.org/zap"

	"github.com/ava-labs/fairlaunch/actions"
	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/host"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/tstate"
)

// Base runs operations for a shard: every operation gets a fresh
// [tstate.TStateView] over the committed state, its writes are committed
// in one batch, and the messages it produced are handed to the host only
// after that batch is written.
type Base struct {
	params    Params
	db        state.Database
	host      host.Host
	rules     actions.Rules
	log       logging.Logger
	supported set.Set[uint8]
}

func NewBase(
	params Params,
	db state.Database,
	h host.Host,
	rules actions.Rules,
	log logging.Logger,
	supported ...uint8,
) *Base {
	return &Base{
		params:    params,
		db:        db,
		host:      h,
		rules:     rules,
		log:       log,
		supported: set.Of(supported...),
	}
}

func (b *Base) ID() codec.Address {
	return b.params.ID
}

func (b *Base) Params() Params {
	return b.params
}

func (b *Base) Rules() actions.Rules {
	return b.rules
}

func (b *Base) Log() logging.Logger {
	return b.log
}

// State returns a read-only view of committed state.
func (b *Base) State() state.Immutable {
	return state.NewReader(b.db)
}

// Execute runs [action] if this shard kind supports it.
func (b *Base) Execute(ctx context.Context, actor codec.Address, action actions.Action) (codec.Typed, error) {
	if !b.supported.Contains(action.GetTypeID()) {
		return nil, fmt.Errorf("%w: type %d", ErrUnsupportedAction, action.GetTypeID())
	}
	return b.Run(ctx, func(ctx context.Context, mu state.Mutable, env *Context) (codec.Typed, error) {
		return action.Execute(ctx, b.rules, env, mu, actor)
	})
}

// Run executes [f] as one atomic operation. If [f] fails nothing is
// written and nothing is sent.
func (b *Base) Run(
	ctx context.Context,
	f func(context.Context, state.Mutable, *Context) (codec.Typed, error),
) (codec.Typed, error) {
	view := tstate.New(b.State())
	env := &Context{
		base:   b,
		now:    b.host.Now(),
		outbox: NewOutbox(b.params.ID),
	}
	out, err := f(ctx, view, env)
	if err != nil {
		return nil, err
	}
	if err := view.Commit(b.db); err != nil {
		return nil, err
	}
	b.flush(ctx, env.outbox)
	return out, nil
}

// Emit sends [msg] outside of any operation. It is used when recovering
// messages whose cause is already committed.
func (b *Base) Emit(ctx context.Context, to codec.Address, msg messages.Message, tracked bool) error {
	dest, err := messages.NewDestination(b.params.ID, to)
	if err != nil {
		return err
	}
	return b.host.Send(ctx, b.params.ID, dest, msg, tracked)
}

func (b *Base) flush(ctx context.Context, o *Outbox) {
	for _, e := range o.Envelopes() {
		if err := b.host.Send(ctx, e.From, e.To, e.Message, e.Tracked); err != nil {
			// Tracked messages are re-derived from state by Recover.
			b.log.Warn("unable to send message",
				zap.Stringer("from", e.From),
				zap.Stringer("to", e.To),
				zap.Uint8("type", e.Message.GetTypeID()),
				zap.Bool("tracked", e.Tracked),
				zap.Error(err),
			)
		}
	}
}

var _ actions.Env = (*Context)(nil)

// Context is the [actions.Env] of a single operation.
type Context struct {
	base   *Base
	now    int64
	outbox *Outbox
}

func (c *Context) Self() codec.Address {
	return c.base.params.ID
}

func (c *Context) Timestamp() int64 {
	return c.now
}

func (c *Context) Send(to codec.Address, msg messages.Message, tracked bool) error {
	return c.outbox.Add(to, msg, tracked)
}

func (c *Context) CreateShard(ctx context.Context, owner codec.Address, initArgs []byte) (codec.Address, error) {
	return c.base.host.CreateShard(ctx, c.base.params.ID, owner, initArgs)
}
