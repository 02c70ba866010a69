// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/types"
)

// Rules are the engine-wide parameters an action may consult.
type Rules interface {
	DefaultCurve() types.CurveConfig
	NotifyTrades() bool
	PoolShard() codec.Address
}

// Env is what the executing shard exposes to an action besides its state.
// Messages passed to Send are only delivered if the action's writes commit.
type Env interface {
	Self() codec.Address
	Timestamp() int64
	Send(to codec.Address, msg messages.Message, tracked bool) error
	CreateShard(ctx context.Context, owner codec.Address, initArgs []byte) (codec.Address, error)
}

// Action is an operation submitted by an authenticated caller. Execute
// must either succeed or return an error with no expectation that its
// writes to [mu] are kept.
type Action interface {
	codec.Marshaler

	Execute(ctx context.Context, r Rules, env Env, mu state.Mutable, actor codec.Address) (codec.Typed, error)
}

var parser *codec.TypeParser[Action]

func init() {
	parser = codec.NewTypeParser[Action]()

	errs := &wrappers.Errs{}
	errs.Add(
		parser.Register(&CreateToken{}, UnmarshalCreateToken),
		parser.Register(&Buy{}, UnmarshalBuy),
		parser.Register(&Sell{}, UnmarshalSell),
		parser.Register(&Approve{}, UnmarshalApprove),
		parser.Register(&TransferFrom{}, UnmarshalTransferFrom),
		parser.Register(&WithdrawLiquidity{}, UnmarshalWithdrawLiquidity),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}

// Parse decodes an action produced by [codec.Marshal].
func Parse(b []byte) (Action, error) {
	return parser.Unmarshal(b)
}
