// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package messages defines the typed messages exchanged between shards.
package messages

import (
	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/types"
)

// Message is anything that can be sent between shards.
type Message interface {
	codec.Marshaler
}

var (
	_ Message = (*InitToken)(nil)
	_ Message = (*TokenInitialized)(nil)
	_ Message = (*Credit)(nil)
	_ Message = (*GraduateToken)(nil)
	_ Message = (*PoolCreated)(nil)
	_ Message = (*LaunchUpdate)(nil)
)

// InitToken is sent by the factory to a freshly provisioned token shard.
type InitToken struct {
	Creator   codec.Address     `json:"creator"`
	Metadata  types.Metadata    `json:"metadata"`
	Curve     types.CurveConfig `json:"curve"`
	CreatedAt int64             `json:"createdAt"`
}

func (*InitToken) GetTypeID() uint8 { return consts.InitTokenID }

func (m *InitToken) Size() int {
	return codec.AddressLen + m.Metadata.Size() + types.CurveConfigLen + consts.Uint64Len
}

func (m *InitToken) Marshal(p *codec.Packer) {
	p.PackAddress(m.Creator)
	m.Metadata.Marshal(p)
	m.Curve.Marshal(p)
	p.PackInt64(m.CreatedAt)
}

func UnmarshalInitToken(p *codec.Packer) (Message, error) {
	var m InitToken
	p.UnpackAddress(true, &m.Creator)
	m.Metadata = types.UnmarshalMetadata(p)
	m.Curve = types.UnmarshalCurveConfig(p)
	m.CreatedAt = p.UnpackInt64(false)
	return &m, p.Err()
}

// SameAs reports whether [o] initializes the shard identically.
func (m *InitToken) SameAs(o *InitToken) bool {
	return m.Creator == o.Creator && m.Metadata == o.Metadata &&
		m.Curve.Equal(o.Curve)
}

// TokenInitialized acknowledges an [InitToken].
type TokenInitialized struct {
	AssetID codec.Address `json:"assetId"`
}

func (*TokenInitialized) GetTypeID() uint8 { return consts.TokenInitializedID }

func (*TokenInitialized) Size() int { return codec.AddressLen }

func (m *TokenInitialized) Marshal(p *codec.Packer) {
	p.PackAddress(m.AssetID)
}

func UnmarshalTokenInitialized(p *codec.Packer) (Message, error) {
	var m TokenInitialized
	p.UnpackAddress(true, &m.AssetID)
	return &m, p.Err()
}

// Credit funds an account's settlement balance on the receiving shard. Only
// the host may send it.
type Credit struct {
	Account codec.Address `json:"account"`
	Amount  *uint256.Int  `json:"amount"`
}

func (*Credit) GetTypeID() uint8 { return consts.CreditID }

func (*Credit) Size() int { return codec.AddressLen + consts.Uint256Len }

func (m *Credit) Marshal(p *codec.Packer) {
	p.PackAddress(m.Account)
	p.PackUint256(m.Amount)
}

func UnmarshalCredit(p *codec.Packer) (Message, error) {
	var m Credit
	p.UnpackAddress(true, &m.Account)
	m.Amount = p.UnpackUint256(true)
	return &m, p.Err()
}

// GraduateToken hands a completed curve to the pool shard. Zero amounts are
// decoded as-is so the pool can reject and log them.
type GraduateToken struct {
	AssetID     codec.Address `json:"assetId"`
	TotalSupply *uint256.Int  `json:"totalSupply"`
	TotalRaised *uint256.Int  `json:"totalRaised"`
}

func (*GraduateToken) GetTypeID() uint8 { return consts.GraduateTokenID }

func (*GraduateToken) Size() int { return codec.AddressLen + 2*consts.Uint256Len }

func (m *GraduateToken) Marshal(p *codec.Packer) {
	p.PackAddress(m.AssetID)
	p.PackUint256(m.TotalSupply)
	p.PackUint256(m.TotalRaised)
}

func UnmarshalGraduateToken(p *codec.Packer) (Message, error) {
	var m GraduateToken
	p.UnpackAddress(true, &m.AssetID)
	m.TotalSupply = p.UnpackUint256(false)
	m.TotalRaised = p.UnpackUint256(false)
	return &m, p.Err()
}

// PoolCreated confirms graduation back to the token shard.
type PoolCreated struct {
	AssetID codec.Address `json:"assetId"`
	PoolID  codec.Address `json:"poolId"`
}

func (*PoolCreated) GetTypeID() uint8 { return consts.PoolCreatedID }

func (*PoolCreated) Size() int { return 2 * codec.AddressLen }

func (m *PoolCreated) Marshal(p *codec.Packer) {
	p.PackAddress(m.AssetID)
	p.PackAddress(m.PoolID)
}

func UnmarshalPoolCreated(p *codec.Packer) (Message, error) {
	var m PoolCreated
	p.UnpackAddress(true, &m.AssetID)
	p.UnpackAddress(true, &m.PoolID)
	return &m, p.Err()
}

// LaunchUpdate refreshes the factory's cached view of a token shard.
// Version is the token's trade count, so stale updates can be ignored.
type LaunchUpdate struct {
	AssetID codec.Address        `json:"assetId"`
	Version uint64               `json:"version"`
	Supply  *uint256.Int         `json:"supply"`
	Raised  *uint256.Int         `json:"raised"`
	State   types.LifecycleState `json:"state"`
	PoolID  codec.Address        `json:"poolId"`
}

// NewLaunchUpdate snapshots [st] as seen by the token shard [asset].
func NewLaunchUpdate(asset codec.Address, st *types.TokenState) *LaunchUpdate {
	return &LaunchUpdate{
		AssetID: asset,
		Version: st.TradeCount,
		Supply:  st.CurrentSupply.Clone(),
		Raised:  st.TotalRaised.Clone(),
		State:   st.State,
		PoolID:  st.PoolID,
	}
}

func (*LaunchUpdate) GetTypeID() uint8 { return consts.LaunchUpdateID }

func (*LaunchUpdate) Size() int {
	return 2*codec.AddressLen + consts.Uint64Len + 2*consts.Uint256Len + consts.ByteLen
}

func (m *LaunchUpdate) Marshal(p *codec.Packer) {
	p.PackAddress(m.AssetID)
	p.PackUint64(m.Version)
	p.PackUint256(m.Supply)
	p.PackUint256(m.Raised)
	p.PackByte(byte(m.State))
	p.PackAddress(m.PoolID)
}

func UnmarshalLaunchUpdate(p *codec.Packer) (Message, error) {
	var m LaunchUpdate
	p.UnpackAddress(true, &m.AssetID)
	m.Version = p.UnpackUint64(false)
	m.Supply = p.UnpackUint256(false)
	m.Raised = p.UnpackUint256(false)
	m.State = types.LifecycleState(p.UnpackByte())
	p.UnpackAddress(false, &m.PoolID)
	return &m, p.Err()
}
