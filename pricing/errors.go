// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	ErrInvalidCurveConfig = errors.New("invalid curve config")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrSupplyExceeded     = errors.New("supply exceeded")
	ErrInsufficientSupply = errors.New("insufficient supply")
	ErrOverflow           = errors.New("arithmetic overflow")
	ErrZeroInput          = errors.New("zero input")
)
