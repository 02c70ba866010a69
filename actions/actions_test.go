// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"strings"
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

func TestApproveAndTransferFrom(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := newMarket(t, map[codec.Address]uint64{alice: 1_000})
	env := &testEnv{self: tokenShard}
	r := &testRules{}

	_, err := (&Buy{Amount: u(10_000), MaxCost: u(342)}).Execute(ctx, r, env, mu, alice)
	require.NoError(err)

	_, err = (&Approve{Spender: alice, Amount: u(1)}).Execute(ctx, r, env, mu, alice)
	require.ErrorIs(err, ErrInvalidOwner)
	_, err = (&Approve{Amount: u(1)}).Execute(ctx, r, env, mu, alice)
	require.ErrorIs(err, ErrInvalidAddress)

	out, err := (&Approve{Spender: bob, Amount: u(4_000)}).Execute(ctx, r, env, mu, alice)
	require.NoError(err)
	require.Equal(u(4_000), out.(*ApproveResult).Allowance)

	tests := []struct {
		name    string
		action  *TransferFrom
		actor   codec.Address
		wantErr error
	}{
		{
			name:    "caller is not spender",
			action:  &TransferFrom{Owner: alice, Spender: bob, To: creator, Amount: u(1)},
			actor:   creator,
			wantErr: ErrUnauthorized,
		},
		{
			name:    "owner is spender",
			action:  &TransferFrom{Owner: bob, Spender: bob, To: creator, Amount: u(1)},
			actor:   bob,
			wantErr: ErrInvalidOwner,
		},
		{
			name:    "empty recipient",
			action:  &TransferFrom{Owner: alice, Spender: bob, Amount: u(1)},
			actor:   bob,
			wantErr: ErrInvalidAddress,
		},
		{
			name:    "zero amount",
			action:  &TransferFrom{Owner: alice, Spender: bob, To: creator, Amount: u(0)},
			actor:   bob,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "above allowance",
			action:  &TransferFrom{Owner: alice, Spender: bob, To: creator, Amount: u(4_001)},
			actor:   bob,
			wantErr: ErrInsufficientAllowance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.action.Execute(ctx, r, env, mu, tt.actor)
			require.ErrorIs(err, tt.wantErr)
		})
	}

	out, err = (&TransferFrom{Owner: alice, Spender: bob, To: creator, Amount: u(3_000)}).Execute(ctx, r, env, mu, bob)
	require.NoError(err)
	require.Equal(u(1_000), out.(*TransferFromResult).RemainingAllowance)
	require.Equal(u(7_000), balance(t, mu, alice))
	require.Equal(u(3_000), balance(t, mu, creator))
	require.Equal(uint64(2), tokenState(t, mu).HolderCount)

	// Allowance left but the owner's balance is too small.
	require.NoError(storage.SetAllowance(ctx, mu, alice, bob, u(100_000)))
	_, err = (&TransferFrom{Owner: alice, Spender: bob, To: creator, Amount: u(7_001)}).Execute(ctx, r, env, mu, bob)
	require.ErrorIs(err, ErrInsufficientBalance)

	_, err = (&TransferFrom{Owner: alice, Spender: bob, To: creator, Amount: u(7_000)}).Execute(ctx, r, env, mu, bob)
	require.NoError(err)
	require.True(balance(t, mu, alice).IsZero())
	require.Equal(uint64(1), tokenState(t, mu).HolderCount)
	require.Equal(u(10_000), tokenState(t, mu).CurrentSupply)
}

func TestValidateMetadata(t *testing.T) {
	tests := []struct {
		name    string
		meta    types.Metadata
		wantErr error
	}{
		{
			name: "minimal",
			meta: types.Metadata{Name: "Frog", Symbol: "FRG"},
		},
		{
			name: "all fields",
			meta: types.Metadata{
				Name:        "Frog",
				Symbol:      "FRG",
				Description: "a frog",
				ImageURL:    "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
				Website:     "https://frog.example",
				Twitter:     "@frog",
				Telegram:    "frogchat",
			},
		},
		{
			name:    "blank name",
			meta:    types.Metadata{Name: "   ", Symbol: "FRG"},
			wantErr: ErrInvalidMetadata,
		},
		{
			name:    "missing symbol",
			meta:    types.Metadata{Name: "Frog"},
			wantErr: ErrInvalidMetadata,
		},
		{
			name:    "long name",
			meta:    types.Metadata{Name: strings.Repeat("a", MaxNameSize+1), Symbol: "FRG"},
			wantErr: ErrInvalidMetadata,
		},
		{
			name: "multibyte name at limit",
			meta: types.Metadata{Name: strings.Repeat("é", MaxNameSize), Symbol: "FRG"},
		},
		{
			name:    "long symbol",
			meta:    types.Metadata{Name: "Frog", Symbol: strings.Repeat("F", MaxSymbolSize+1)},
			wantErr: ErrInvalidMetadata,
		},
		{
			name:    "long description",
			meta:    types.Metadata{Name: "Frog", Symbol: "FRG", Description: strings.Repeat("d", MaxDescriptionSize+1)},
			wantErr: ErrInvalidMetadata,
		},
		{
			name:    "ipfs website",
			meta:    types.Metadata{Name: "Frog", Symbol: "FRG", Website: "ipfs://abc"},
			wantErr: ErrInvalidMetadata,
		},
		{
			name:    "ftp image",
			meta:    types.Metadata{Name: "Frog", Symbol: "FRG", ImageURL: "ftp://frog.example/a.png"},
			wantErr: ErrInvalidMetadata,
		},
		{
			name:    "long twitter",
			meta:    types.Metadata{Name: "Frog", Symbol: "FRG", Twitter: strings.Repeat("t", MaxSocialSize+1)},
			wantErr: ErrInvalidMetadata,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, ValidateMetadata(&tt.meta), tt.wantErr)
		})
	}
}

func TestCreateToken(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	env := &testEnv{self: factoryShard, timestamp: 42}
	r := &testRules{}

	meta := types.Metadata{Name: "Frog", Symbol: "FRG"}
	out, err := (&CreateToken{Metadata: meta}).Execute(ctx, r, env, mu, creator)
	require.NoError(err)
	res := out.(*CreateTokenResult)
	require.Zero(res.Index)

	require.Len(env.created, 1)
	require.Equal(creator, env.created[0].owner)
	params, err := types.ParseTokenParams(env.created[0].initArgs)
	require.NoError(err)
	require.Equal(poolShard, params.Pool)

	entry, ok, err := storage.GetLaunch(ctx, mu, res.AssetID)
	require.NoError(err)
	require.True(ok)
	require.False(entry.Initialized)
	require.Equal(types.Active, entry.State)
	require.True(entry.Curve.Equal(types.DefaultCurveConfig()))
	require.Equal(int64(42), entry.CreatedAt)

	require.Len(env.sent, 1)
	require.Equal(res.AssetID, env.sent[0].to)
	require.True(env.sent[0].tracked)
	msg := env.sent[0].msg.(*messages.InitToken)
	require.Equal(creator, msg.Creator)
	require.Equal(meta, msg.Metadata)

	// A second launch by the same creator is indexed after the first.
	out, err = (&CreateToken{Metadata: meta}).Execute(ctx, r, env, mu, creator)
	require.NoError(err)
	require.Equal(uint64(1), out.(*CreateTokenResult).Index)
	n, err := storage.GetCreatorCount(ctx, mu, creator)
	require.NoError(err)
	require.Equal(uint64(2), n)
}

func TestCreateTokenRejects(t *testing.T) {
	badCurve := types.DefaultCurveConfig()
	badCurve.CreatorFeeBps = 10_001

	tests := []struct {
		name    string
		action  *CreateToken
		wantErr error
	}{
		{
			name:    "invalid metadata",
			action:  &CreateToken{Metadata: types.Metadata{Symbol: "FRG"}},
			wantErr: ErrInvalidMetadata,
		},
		{
			name:    "invalid curve",
			action:  &CreateToken{Metadata: types.Metadata{Name: "Frog", Symbol: "FRG"}, Curve: badCurve},
			wantErr: ErrInvalidCurveConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			mu := statetest.NewInMemoryStore()
			env := &testEnv{self: factoryShard}

			_, err := tt.action.Execute(context.Background(), &testRules{}, env, mu, creator)
			require.ErrorIs(err, tt.wantErr)
			require.Empty(env.created)
			require.Empty(env.sent)
			require.Empty(mu.Storage)
		})
	}
}

func TestWithdrawLiquidity(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	env := &testEnv{self: poolShard}

	pool := codec.CreateAddress(consts.PoolID, ids.GenerateTestID())
	_, err := (&WithdrawLiquidity{PoolID: pool}).Execute(ctx, &testRules{}, env, mu, alice)
	require.ErrorIs(err, ErrPoolNotFound)

	require.NoError(storage.InsertPool(ctx, mu, &types.PoolInfo{
		PoolID:         pool,
		AssetID:        tokenShard,
		TokenLiquidity: u(100_000),
		BaseLiquidity:  u(333_333),
		InitialRatio:   u(3_333_330),
		TVL:            u(666_666),
	}))
	_, err = (&WithdrawLiquidity{PoolID: pool}).Execute(ctx, &testRules{}, env, mu, alice)
	require.ErrorIs(err, ErrLiquidityLocked)
}

func TestParseAction(t *testing.T) {
	require := require.New(t)

	b, err := codec.Marshal(&Buy{Amount: u(10), MaxCost: uint256.NewInt(20)})
	require.NoError(err)
	a, err := Parse(b)
	require.NoError(err)
	require.Equal(&Buy{Amount: u(10), MaxCost: u(20)}, a)

	_, err = Parse([]byte{0xff})
	require.ErrorIs(err, codec.ErrUnknownType)
}
