// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "errors"

var (
	ErrStopped       = errors.New("runtime stopped")
	ErrUnknownShard  = errors.New("unknown shard")
	ErrInvalidParent = errors.New("only the factory may create shards")
	ErrUnknownKind   = errors.New("unknown shard kind")
)
