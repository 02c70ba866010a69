// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/pricing"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
	"github.com/ava-labs/fairlaunch/types"
)

var (
	_ codec.Typed = (*CreateTokenResult)(nil)
	_ Action      = (*CreateToken)(nil)
)

type CreateTokenResult struct {
	AssetID codec.Address `json:"assetId"`
	Index   uint64        `json:"index"`
}

func (*CreateTokenResult) GetTypeID() uint8 {
	return consts.CreateTokenID
}

// CreateToken launches a new asset. A zero Curve selects the configured
// default.
type CreateToken struct {
	Metadata types.Metadata    `json:"metadata"`
	Curve    types.CurveConfig `json:"curve"`
}

func (*CreateToken) GetTypeID() uint8 {
	return consts.CreateTokenID
}

func (c *CreateToken) Size() int {
	return c.Metadata.Size() + types.CurveConfigLen
}

func (c *CreateToken) Marshal(p *codec.Packer) {
	c.Metadata.Marshal(p)
	c.Curve.Marshal(p)
}

func UnmarshalCreateToken(p *codec.Packer) (Action, error) {
	var c CreateToken
	c.Metadata = types.UnmarshalMetadata(p)
	c.Curve = types.UnmarshalCurveConfig(p)
	return &c, p.Err()
}

func (c *CreateToken) Execute(ctx context.Context, r Rules, env Env, mu state.Mutable, actor codec.Address) (codec.Typed, error) {
	if err := ValidateMetadata(&c.Metadata); err != nil {
		return nil, err
	}
	curve := c.Curve
	if curve.IsZero() {
		curve = r.DefaultCurve()
	}
	if err := pricing.Validate(curve); err != nil {
		return nil, err
	}

	params := &types.TokenParams{Pool: r.PoolShard()}
	asset, err := env.CreateShard(ctx, actor, params.Bytes())
	if err != nil {
		return nil, err
	}
	entry := &types.LaunchEntry{
		AssetID:         asset,
		Creator:         actor,
		Metadata:        c.Metadata,
		Curve:           curve,
		LastKnownSupply: new(uint256.Int),
		LastKnownRaised: new(uint256.Int),
		State:           types.Active,
		CreatedAt:       env.Timestamp(),
	}
	if err := storage.InsertLaunch(ctx, mu, entry); err != nil {
		return nil, err
	}
	if err := env.Send(asset, &messages.InitToken{
		Creator:   actor,
		Metadata:  c.Metadata,
		Curve:     curve,
		CreatedAt: entry.CreatedAt,
	}, true); err != nil {
		return nil, err
	}
	return &CreateTokenResult{AssetID: asset, Index: entry.Index}, nil
}
