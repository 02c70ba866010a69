// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/ava-labs/fairlaunch/consts"

// StringLen is the packed size of [msg].
func StringLen(msg string) int {
	return consts.Uint16Len + len(msg)
}

// BytesLen is the packed size of [msg].
func BytesLen(msg []byte) int {
	return consts.IntLen + len(msg)
}
