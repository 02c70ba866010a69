// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fairlaunch/codec"
)

func TestCurveConfigEqual(t *testing.T) {
	require := require.New(t)

	require.True(CurveConfig{}.IsZero())
	require.False(DefaultCurveConfig().IsZero())
	require.True(DefaultCurveConfig().Equal(DefaultCurveConfig()))

	other := DefaultCurveConfig()
	other.CreatorFeeBps = 0
	require.False(other.Equal(DefaultCurveConfig()))
}

func TestLaunchEntryBytes(t *testing.T) {
	require := require.New(t)
	entry := &LaunchEntry{
		AssetID:         codec.CreateAddress(3, ids.GenerateTestID()),
		Creator:         codec.CreateAddress(1, ids.GenerateTestID()),
		Metadata:        Metadata{Name: "Frog", Symbol: "FRG", Website: "https://frog.example"},
		Curve:           DefaultCurveConfig(),
		Index:           7,
		LastKnownSupply: uint256.NewInt(10),
		LastKnownRaised: uint256.NewInt(3),
		State:           Graduating,
		Initialized:     true,
		CreatedAt:       1_700_000_000_000,
	}
	parsed, err := ParseLaunchEntry(entry.Bytes())
	require.NoError(err)
	require.Equal(entry.Metadata, parsed.Metadata)
	require.True(entry.Curve.Equal(parsed.Curve))
	require.Equal(Graduating, parsed.State)
	require.Equal(codec.EmptyAddress, parsed.PoolID)

	_, err = ParseLaunchEntry(append(entry.Bytes(), 1))
	require.ErrorIs(err, codec.ErrTrailingBytes)
}

func TestParseTradeRecordRequiresTrader(t *testing.T) {
	require := require.New(t)
	tr := &TradeRecord{TokenAmount: uint256.NewInt(1)}
	_, err := ParseTradeRecord(tr.Bytes())
	require.ErrorIs(err, codec.ErrFieldNotPopulated)
}

func TestParseAmount(t *testing.T) {
	require := require.New(t)

	v, err := ParseAmount("1000000000")
	require.NoError(err)
	require.Equal(uint64(1_000_000_000), v.Uint64())
	require.Equal("1000000000", FormatAmount(v))
	require.Equal("0", FormatAmount(nil))

	_, err = ParseAmount("-1")
	require.ErrorIs(err, ErrInvalidAmountString)
	_, err = ParseAmount("1e9")
	require.ErrorIs(err, ErrInvalidAmountString)
	_, err = ParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639936")
	require.ErrorIs(err, ErrInvalidAmountString)
}

func TestLifecycleString(t *testing.T) {
	require.Equal(t, "graduated", Graduated.String())
	require.Equal(t, "unknown", LifecycleState(9).String())
}
