// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package messages

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/fairlaunch/codec"
)

var parser *codec.TypeParser[Message]

func init() {
	parser = codec.NewTypeParser[Message]()

	errs := &wrappers.Errs{}
	errs.Add(
		parser.Register(&InitToken{}, UnmarshalInitToken),
		parser.Register(&TokenInitialized{}, UnmarshalTokenInitialized),
		parser.Register(&Credit{}, UnmarshalCredit),
		parser.Register(&GraduateToken{}, UnmarshalGraduateToken),
		parser.Register(&PoolCreated{}, UnmarshalPoolCreated),
		parser.Register(&LaunchUpdate{}, UnmarshalLaunchUpdate),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}

// Parse decodes a message produced by [codec.Marshal].
func Parse(b []byte) (Message, error) {
	return parser.Unmarshal(b)
}
