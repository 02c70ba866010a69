// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
)

// LifecycleState is the stage of a launched asset.
type LifecycleState uint8

const (
	// Pending is a provisioned token shard that has not yet received its
	// init message.
	Pending LifecycleState = iota
	Active
	// Graduating is set in the same commit as the trade that completed the
	// curve. The graduation message is (re-)sent until the pool confirms.
	Graduating
	Graduated
)

func (s LifecycleState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Graduating:
		return "graduating"
	case Graduated:
		return "graduated"
	default:
		return "unknown"
	}
}

// Metadata describes a launched asset. Optional fields are empty when absent.
type Metadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Website     string `json:"website,omitempty"`
}

func (m *Metadata) Size() int {
	return codec.StringLen(m.Name) + codec.StringLen(m.Symbol) +
		codec.StringLen(m.Description) + codec.StringLen(m.ImageURL) +
		codec.StringLen(m.Twitter) + codec.StringLen(m.Telegram) +
		codec.StringLen(m.Website)
}

func (m *Metadata) Marshal(p *codec.Packer) {
	p.PackString(m.Name)
	p.PackString(m.Symbol)
	p.PackString(m.Description)
	p.PackString(m.ImageURL)
	p.PackString(m.Twitter)
	p.PackString(m.Telegram)
	p.PackString(m.Website)
}

func UnmarshalMetadata(p *codec.Packer) Metadata {
	return Metadata{
		Name:        p.UnpackString(false),
		Symbol:      p.UnpackString(false),
		Description: p.UnpackString(false),
		ImageURL:    p.UnpackString(false),
		Twitter:     p.UnpackString(false),
		Telegram:    p.UnpackString(false),
		Website:     p.UnpackString(false),
	}
}

// CurveConfig parameterizes the quadratic bonding curve of one asset.
type CurveConfig struct {
	K             *uint256.Int `json:"k"`
	Scale         *uint256.Int `json:"scale"`
	TargetRaise   *uint256.Int `json:"targetRaise"`
	MaxSupply     *uint256.Int `json:"maxSupply"`
	CreatorFeeBps uint16       `json:"creatorFeeBps"`
}

// DefaultCurveConfig returns the launch defaults.
func DefaultCurveConfig() CurveConfig {
	return CurveConfig{
		K:             uint256.NewInt(1_000),
		Scale:         uint256.NewInt(1_000_000),
		TargetRaise:   uint256.NewInt(69_000),
		MaxSupply:     uint256.NewInt(1_000_000_000),
		CreatorFeeBps: 300,
	}
}

// IsZero reports whether no field has been set.
func (c CurveConfig) IsZero() bool {
	return isNilOrZero(c.K) && isNilOrZero(c.Scale) && isNilOrZero(c.TargetRaise) &&
		isNilOrZero(c.MaxSupply) && c.CreatorFeeBps == 0
}

func (c CurveConfig) Equal(o CurveConfig) bool {
	return eq(c.K, o.K) && eq(c.Scale, o.Scale) && eq(c.TargetRaise, o.TargetRaise) &&
		eq(c.MaxSupply, o.MaxSupply) && c.CreatorFeeBps == o.CreatorFeeBps
}

const CurveConfigLen = 4*32 + 2

func (c CurveConfig) Marshal(p *codec.Packer) {
	p.PackUint256(c.K)
	p.PackUint256(c.Scale)
	p.PackUint256(c.TargetRaise)
	p.PackUint256(c.MaxSupply)
	p.PackUint16(c.CreatorFeeBps)
}

func UnmarshalCurveConfig(p *codec.Packer) CurveConfig {
	return CurveConfig{
		K:             p.UnpackUint256(false),
		Scale:         p.UnpackUint256(false),
		TargetRaise:   p.UnpackUint256(false),
		MaxSupply:     p.UnpackUint256(false),
		CreatorFeeBps: p.UnpackUint16(),
	}
}

func isNilOrZero(v *uint256.Int) bool {
	return v == nil || v.IsZero()
}

func eq(a, b *uint256.Int) bool {
	if a == nil || b == nil {
		return isNilOrZero(a) && isNilOrZero(b)
	}
	return a.Eq(b)
}
