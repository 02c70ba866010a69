// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "github.com/ava-labs/fairlaunch/codec"

// TokenParams are the construction arguments of a token shard. They wire
// the shard to its counterparties and never change.
type TokenParams struct {
	Pool codec.Address `json:"pool"`
}

func (t *TokenParams) Bytes() []byte {
	return encode(codec.AddressLen, func(p *codec.Packer) {
		p.PackAddress(t.Pool)
	})
}

func ParseTokenParams(b []byte) (*TokenParams, error) {
	var t TokenParams
	return &t, decode(b, func(p *codec.Packer) {
		p.UnpackAddress(true, &t.Pool)
	})
}
