// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package shard

import (
	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/messages"
)

// Outbox holds the messages of one operation until its writes commit.
type Outbox struct {
	from      codec.Address
	envelopes []*messages.Envelope
}

func NewOutbox(from codec.Address) *Outbox {
	return &Outbox{from: from}
}

// Add validates the destination and queues [msg].
func (o *Outbox) Add(to codec.Address, msg messages.Message, tracked bool) error {
	dest, err := messages.NewDestination(o.from, to)
	if err != nil {
		return err
	}
	o.envelopes = append(o.envelopes, &messages.Envelope{
		From:    o.from,
		To:      dest,
		Tracked: tracked,
		Message: msg,
	})
	return nil
}

func (o *Outbox) Len() int {
	return len(o.envelopes)
}

func (o *Outbox) Envelopes() []*messages.Envelope {
	return o.envelopes
}
