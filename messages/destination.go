// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package messages

import (
	"errors"

	"github.com/ava-labs/fairlaunch/codec"
)

var (
	ErrEmptyDestination = errors.New("empty destination")
	ErrSelfDestination  = errors.New("destination is the sending shard")
)

// Destination is a validated target shard. It can only be built through
// [NewDestination], which refuses the sender's own identity.
type Destination struct {
	shard codec.Address
}

func NewDestination(self, target codec.Address) (Destination, error) {
	switch target {
	case codec.EmptyAddress:
		return Destination{}, ErrEmptyDestination
	case self:
		return Destination{}, ErrSelfDestination
	}
	return Destination{shard: target}, nil
}

func (d Destination) Shard() codec.Address {
	return d.shard
}

func (d Destination) IsZero() bool {
	return d.shard == codec.EmptyAddress
}

func (d Destination) String() string {
	return d.shard.String()
}

// Envelope is a message in flight.
type Envelope struct {
	From    codec.Address
	To      Destination
	Tracked bool
	Message Message
}
