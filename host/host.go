// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/host.go . Host

// Package host defines what a shard needs from the substrate it runs on.
package host

import (
	"context"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/messages"
)

type Host interface {
	// Send hands [msg] to the substrate for delivery to [to]. Tracked
	// messages are delivered at least once and in order per sender;
	// untracked messages may be dropped.
	Send(ctx context.Context, from codec.Address, to messages.Destination, msg messages.Message, tracked bool) error

	// CreateShard provisions a new token shard owned by [owner] whose
	// parent is [parent]. [initArgs] are persisted with the shard and
	// handed back to it every time it is instantiated.
	CreateShard(ctx context.Context, parent, owner codec.Address, initArgs []byte) (codec.Address, error)

	// Now returns the substrate time in milliseconds.
	Now() int64
}
