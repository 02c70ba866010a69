// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package messages

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/types"
)

func TestDestination(t *testing.T) {
	require := require.New(t)
	self := codec.CreateAddress(consts.TokenShardID, ids.GenerateTestID())
	pool := codec.CreateAddress(consts.PoolShardID, ids.GenerateTestID())

	_, err := NewDestination(self, self)
	require.ErrorIs(err, ErrSelfDestination)
	_, err = NewDestination(self, codec.EmptyAddress)
	require.ErrorIs(err, ErrEmptyDestination)

	d, err := NewDestination(self, pool)
	require.NoError(err)
	require.Equal(pool, d.Shard())
	require.False(d.IsZero())
	require.True(Destination{}.IsZero())
}

func TestParseInitToken(t *testing.T) {
	require := require.New(t)
	msg := &InitToken{
		Creator:  codec.CreateAddress(consts.AccountID, ids.GenerateTestID()),
		Metadata: types.Metadata{Name: "Frog", Symbol: "FRG", ImageURL: "ipfs://frog"},
		Curve:    types.DefaultCurveConfig(),
	}
	b, err := codec.Marshal(msg)
	require.NoError(err)
	require.Len(b, 1+msg.Size())

	parsed, err := Parse(b)
	require.NoError(err)
	decoded, ok := parsed.(*InitToken)
	require.True(ok)
	require.True(msg.SameAs(decoded))
}

func TestParseGraduateTokenAllowsZero(t *testing.T) {
	require := require.New(t)
	msg := &GraduateToken{
		AssetID:     codec.CreateAddress(consts.TokenShardID, ids.GenerateTestID()),
		TotalSupply: uint256.NewInt(0),
		TotalRaised: uint256.NewInt(5),
	}
	b, err := codec.Marshal(msg)
	require.NoError(err)
	parsed, err := Parse(b)
	require.NoError(err)
	require.True(parsed.(*GraduateToken).TotalSupply.IsZero())
}

func TestParseCreditRequiresAmount(t *testing.T) {
	require := require.New(t)
	b, err := codec.Marshal(&Credit{
		Account: codec.CreateAddress(consts.AccountID, ids.GenerateTestID()),
	})
	require.NoError(err)
	_, err = Parse(b)
	require.ErrorIs(err, codec.ErrFieldNotPopulated)
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse([]byte{99})
	require.ErrorIs(t, err, codec.ErrUnknownType)
}
