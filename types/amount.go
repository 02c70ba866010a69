// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

var ErrInvalidAmountString = errors.New("invalid amount string")

// ParseAmount parses a base-10 unsigned integer into a 256-bit amount.
func ParseAmount(s string) (*uint256.Int, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmountString, s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%w: %q overflows 256 bits", ErrInvalidAmountString, s)
	}
	return v, nil
}

// FormatAmount renders [v] in base 10. Nil renders as zero.
func FormatAmount(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.ToBig().String()
}
