// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
)

// TokenConfig is written once when a token shard is initialized.
type TokenConfig struct {
	Creator   codec.Address `json:"creator"`
	Factory   codec.Address `json:"factory"`
	Pool      codec.Address `json:"pool"`
	Metadata  Metadata      `json:"metadata"`
	Curve     CurveConfig   `json:"curve"`
	CreatedAt int64         `json:"createdAt"`
}

func (c *TokenConfig) Bytes() []byte {
	return encode(3*codec.AddressLen+c.Metadata.Size()+CurveConfigLen+consts.Uint64Len, func(p *codec.Packer) {
		p.PackAddress(c.Creator)
		p.PackAddress(c.Factory)
		p.PackAddress(c.Pool)
		c.Metadata.Marshal(p)
		c.Curve.Marshal(p)
		p.PackInt64(c.CreatedAt)
	})
}

func ParseTokenConfig(b []byte) (*TokenConfig, error) {
	var c TokenConfig
	return &c, decode(b, func(p *codec.Packer) {
		p.UnpackAddress(true, &c.Creator)
		p.UnpackAddress(true, &c.Factory)
		p.UnpackAddress(true, &c.Pool)
		c.Metadata = UnmarshalMetadata(p)
		c.Curve = UnmarshalCurveConfig(p)
		c.CreatedAt = p.UnpackInt64(false)
	})
}

// TokenState is the curve header of a token shard. Balances, allowances
// and trades are stored under their own keys.
type TokenState struct {
	CurrentSupply *uint256.Int   `json:"currentSupply"`
	TotalRaised   *uint256.Int   `json:"totalRaised"`
	HolderCount   uint64         `json:"holderCount"`
	TradeCount    uint64         `json:"tradeCount"`
	State         LifecycleState `json:"state"`
	PoolID        codec.Address  `json:"poolId"`
}

func NewTokenState() *TokenState {
	return &TokenState{
		CurrentSupply: new(uint256.Int),
		TotalRaised:   new(uint256.Int),
	}
}

func (s *TokenState) Bytes() []byte {
	return encode(2*consts.Uint256Len+2*consts.Uint64Len+consts.ByteLen+codec.AddressLen, func(p *codec.Packer) {
		p.PackUint256(s.CurrentSupply)
		p.PackUint256(s.TotalRaised)
		p.PackUint64(s.HolderCount)
		p.PackUint64(s.TradeCount)
		p.PackByte(byte(s.State))
		p.PackAddress(s.PoolID)
	})
}

func ParseTokenState(b []byte) (*TokenState, error) {
	var s TokenState
	return &s, decode(b, func(p *codec.Packer) {
		s.CurrentSupply = p.UnpackUint256(false)
		s.TotalRaised = p.UnpackUint256(false)
		s.HolderCount = p.UnpackUint64(false)
		s.TradeCount = p.UnpackUint64(false)
		s.State = LifecycleState(p.UnpackByte())
		p.UnpackAddress(false, &s.PoolID)
	})
}

// TradeRecord is an entry of the append-only trade log. CurrencyAmount is
// the pre-fee cost of a buy or the gross return of a sell.
type TradeRecord struct {
	Sequence       uint64        `json:"sequence"`
	Trader         codec.Address `json:"trader"`
	IsBuy          bool          `json:"isBuy"`
	TokenAmount    *uint256.Int  `json:"tokenAmount"`
	CurrencyAmount *uint256.Int  `json:"currencyAmount"`
	Fee            *uint256.Int  `json:"fee"`
	ResultingPrice *uint256.Int  `json:"resultingPrice"`
	Timestamp      int64         `json:"timestamp"`
}

func (t *TradeRecord) Bytes() []byte {
	return encode(2*consts.Uint64Len+codec.AddressLen+consts.BoolLen+4*consts.Uint256Len, func(p *codec.Packer) {
		p.PackUint64(t.Sequence)
		p.PackAddress(t.Trader)
		p.PackBool(t.IsBuy)
		p.PackUint256(t.TokenAmount)
		p.PackUint256(t.CurrencyAmount)
		p.PackUint256(t.Fee)
		p.PackUint256(t.ResultingPrice)
		p.PackInt64(t.Timestamp)
	})
}

func ParseTradeRecord(b []byte) (*TradeRecord, error) {
	var t TradeRecord
	return &t, decode(b, func(p *codec.Packer) {
		t.Sequence = p.UnpackUint64(false)
		p.UnpackAddress(true, &t.Trader)
		t.IsBuy = p.UnpackBool()
		t.TokenAmount = p.UnpackUint256(true)
		t.CurrencyAmount = p.UnpackUint256(false)
		t.Fee = p.UnpackUint256(false)
		t.ResultingPrice = p.UnpackUint256(false)
		t.Timestamp = p.UnpackInt64(false)
	})
}

// Position aggregates an account's trading activity on one asset.
type Position struct {
	TotalInvested *uint256.Int `json:"totalInvested"`
	TotalReturned *uint256.Int `json:"totalReturned"`
	Trades        uint64       `json:"trades"`
}

func NewPosition() *Position {
	return &Position{TotalInvested: new(uint256.Int), TotalReturned: new(uint256.Int)}
}

func (p *Position) Bytes() []byte {
	return encode(2*consts.Uint256Len+consts.Uint64Len, func(w *codec.Packer) {
		w.PackUint256(p.TotalInvested)
		w.PackUint256(p.TotalReturned)
		w.PackUint64(p.Trades)
	})
}

func ParsePosition(b []byte) (*Position, error) {
	var pos Position
	return &pos, decode(b, func(p *codec.Packer) {
		pos.TotalInvested = p.UnpackUint256(false)
		pos.TotalReturned = p.UnpackUint256(false)
		pos.Trades = p.UnpackUint64(false)
	})
}

// LaunchEntry is the factory's cached view of a launched asset. It may lag
// behind the token shard, which stays authoritative for its own ledger.
type LaunchEntry struct {
	AssetID          codec.Address  `json:"assetId"`
	Creator          codec.Address  `json:"creator"`
	Metadata         Metadata       `json:"metadata"`
	Curve            CurveConfig    `json:"curve"`
	Index            uint64         `json:"index"`
	LastKnownSupply  *uint256.Int   `json:"lastKnownSupply"`
	LastKnownRaised  *uint256.Int   `json:"lastKnownRaised"`
	LastKnownVersion uint64         `json:"lastKnownVersion"`
	State            LifecycleState `json:"state"`
	PoolID           codec.Address  `json:"poolId"`
	Initialized      bool           `json:"initialized"`
	CreatedAt        int64          `json:"createdAt"`
}

func (e *LaunchEntry) Bytes() []byte {
	size := 3*codec.AddressLen + e.Metadata.Size() + CurveConfigLen + 4*consts.Uint64Len +
		2*consts.Uint256Len + consts.ByteLen + consts.BoolLen
	return encode(size, func(p *codec.Packer) {
		p.PackAddress(e.AssetID)
		p.PackAddress(e.Creator)
		e.Metadata.Marshal(p)
		e.Curve.Marshal(p)
		p.PackUint64(e.Index)
		p.PackUint256(e.LastKnownSupply)
		p.PackUint256(e.LastKnownRaised)
		p.PackUint64(e.LastKnownVersion)
		p.PackByte(byte(e.State))
		p.PackAddress(e.PoolID)
		p.PackBool(e.Initialized)
		p.PackInt64(e.CreatedAt)
	})
}

func ParseLaunchEntry(b []byte) (*LaunchEntry, error) {
	var e LaunchEntry
	return &e, decode(b, func(p *codec.Packer) {
		p.UnpackAddress(true, &e.AssetID)
		p.UnpackAddress(true, &e.Creator)
		e.Metadata = UnmarshalMetadata(p)
		e.Curve = UnmarshalCurveConfig(p)
		e.Index = p.UnpackUint64(false)
		e.LastKnownSupply = p.UnpackUint256(false)
		e.LastKnownRaised = p.UnpackUint256(false)
		e.LastKnownVersion = p.UnpackUint64(false)
		e.State = LifecycleState(p.UnpackByte())
		p.UnpackAddress(false, &e.PoolID)
		e.Initialized = p.UnpackBool()
		e.CreatedAt = p.UnpackInt64(false)
	})
}

// PoolInfo is the immutable record of a graduated asset's locked liquidity.
// InitialRatio is base liquidity per token, scaled by [RatioScale].
type PoolInfo struct {
	PoolID         codec.Address `json:"poolId"`
	AssetID        codec.Address `json:"assetId"`
	TokenLiquidity *uint256.Int  `json:"tokenLiquidity"`
	BaseLiquidity  *uint256.Int  `json:"baseLiquidity"`
	InitialRatio   *uint256.Int  `json:"initialRatio"`
	TVL            *uint256.Int  `json:"tvl"`
	CreatedAt      int64         `json:"createdAt"`
	Index          uint64        `json:"index"`
}

const RatioScale = 1_000_000

func (i *PoolInfo) Bytes() []byte {
	return encode(2*codec.AddressLen+4*consts.Uint256Len+2*consts.Uint64Len, func(p *codec.Packer) {
		p.PackAddress(i.PoolID)
		p.PackAddress(i.AssetID)
		p.PackUint256(i.TokenLiquidity)
		p.PackUint256(i.BaseLiquidity)
		p.PackUint256(i.InitialRatio)
		p.PackUint256(i.TVL)
		p.PackInt64(i.CreatedAt)
		p.PackUint64(i.Index)
	})
}

func ParsePoolInfo(b []byte) (*PoolInfo, error) {
	var i PoolInfo
	return &i, decode(b, func(p *codec.Packer) {
		p.UnpackAddress(true, &i.PoolID)
		p.UnpackAddress(true, &i.AssetID)
		i.TokenLiquidity = p.UnpackUint256(true)
		i.BaseLiquidity = p.UnpackUint256(true)
		i.InitialRatio = p.UnpackUint256(false)
		i.TVL = p.UnpackUint256(true)
		i.CreatedAt = p.UnpackInt64(false)
		i.Index = p.UnpackUint64(false)
	})
}

func encode(size int, f func(*codec.Packer)) []byte {
	p := codec.NewWriter(size, consts.MaxMessageSize)
	f(p)
	// Every record is bounded well below MaxMessageSize.
	return p.Bytes()
}

func decode(b []byte, f func(*codec.Packer)) error {
	p := codec.NewReader(b, consts.MaxMessageSize)
	f(p)
	if err := p.Err(); err != nil {
		return err
	}
	if !p.Empty() {
		return codec.ErrTrailingBytes
	}
	return nil
}
