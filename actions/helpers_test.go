// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/state/statetest"
	"github.com/ava-labs/fairlaunch/storage"
	"github.com/ava-labs/fairlaunch/types"
)

var (
	tokenShard   = codec.CreateAddress(consts.TokenShardID, ids.GenerateTestID())
	factoryShard = codec.CreateAddress(consts.FactoryShardID, ids.GenerateTestID())
	poolShard    = codec.CreateAddress(consts.PoolShardID, ids.GenerateTestID())
	creator      = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
	alice        = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
	bob          = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

type sent struct {
	to      codec.Address
	msg     messages.Message
	tracked bool
}

type created struct {
	owner    codec.Address
	initArgs []byte
}

type testEnv struct {
	self      codec.Address
	timestamp int64
	sent      []sent
	created   []created
}

func (e *testEnv) Self() codec.Address { return e.self }

func (e *testEnv) Timestamp() int64 { return e.timestamp }

func (e *testEnv) Send(to codec.Address, msg messages.Message, tracked bool) error {
	if _, err := messages.NewDestination(e.self, to); err != nil {
		return err
	}
	e.sent = append(e.sent, sent{to: to, msg: msg, tracked: tracked})
	return nil
}

func (e *testEnv) CreateShard(_ context.Context, owner codec.Address, initArgs []byte) (codec.Address, error) {
	e.created = append(e.created, created{owner: owner, initArgs: initArgs})
	return codec.CreateAddress(consts.TokenShardID, ids.GenerateTestID()), nil
}

type testRules struct {
	notify bool
}

func (*testRules) DefaultCurve() types.CurveConfig { return types.DefaultCurveConfig() }

func (r *testRules) NotifyTrades() bool { return r.notify }

func (*testRules) PoolShard() codec.Address { return poolShard }

// newMarket returns the state of an Active token shard with funded accounts.
func newMarket(t *testing.T, funds map[codec.Address]uint64) *statetest.InMemoryStore {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()

	require.NoError(storage.SetTokenConfig(ctx, mu, &types.TokenConfig{
		Creator:  creator,
		Factory:  factoryShard,
		Pool:     poolShard,
		Metadata: types.Metadata{Name: "Frog", Symbol: "FRG"},
		Curve:    types.DefaultCurveConfig(),
	}))
	st := types.NewTokenState()
	st.State = types.Active
	require.NoError(storage.SetTokenState(ctx, mu, st))
	for addr, amount := range funds {
		require.NoError(storage.AddNativeBalance(ctx, mu, addr, u(amount)))
	}
	return mu
}

func tokenState(t *testing.T, mu *statetest.InMemoryStore) *types.TokenState {
	st, err := storage.GetTokenState(context.Background(), mu)
	require.NoError(t, err)
	return st
}

func native(t *testing.T, mu *statetest.InMemoryStore, addr codec.Address) *uint256.Int {
	v, err := storage.GetNativeBalance(context.Background(), mu, addr)
	require.NoError(t, err)
	return v
}

func balance(t *testing.T, mu *statetest.InMemoryStore, addr codec.Address) *uint256.Int {
	v, err := storage.GetBalance(context.Background(), mu, addr)
	require.NoError(t, err)
	return v
}
