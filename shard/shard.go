// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package shard holds the plumbing shared by every shard kind.
package shard

import (
	"context"
	"errors"

	"github.com/ava-labs/fairlaunch/actions"
	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/messages"
)

var ErrUnsupportedAction = errors.New("action not supported by shard")

// Params identify a shard instance. They are fixed at creation and
// persisted by the host so the shard can be rebuilt after a restart.
type Params struct {
	ID       codec.Address
	Owner    codec.Address
	Parent   codec.Address
	InitArgs []byte
}

// Shard is a single-threaded unit of state. The host never invokes more
// than one of these methods at a time on the same shard.
type Shard interface {
	ID() codec.Address

	// Execute applies an operation submitted by [actor]. Either all of
	// its writes commit and its messages are sent, or neither happens.
	Execute(ctx context.Context, actor codec.Address, action actions.Action) (codec.Typed, error)

	// HandleMessage processes a message from another shard. Messages that
	// are rejected for good are logged and consumed; a returned error
	// means the delivery should be retried.
	HandleMessage(ctx context.Context, from codec.Address, msg messages.Message) error

	// Recover re-emits whatever tracked messages the committed state says
	// are still outstanding. It is called once each time the shard starts.
	Recover(ctx context.Context) error
}
