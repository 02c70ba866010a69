// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"errors"

	"github.com/ava-labs/fairlaunch/pricing"
)

var (
	// Validation
	ErrInvalidMetadata    = errors.New("invalid metadata")
	ErrInvalidCurveConfig = pricing.ErrInvalidCurveConfig
	ErrInvalidAmount      = pricing.ErrInvalidAmount
	ErrInvalidOwner       = errors.New("owner and spender are identical")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrUnauthorized       = errors.New("caller is not the spender")

	// Economic
	ErrSlippageExceeded      = errors.New("slippage exceeded")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrSupplyExceeded        = pricing.ErrSupplyExceeded
	ErrInsufficientSupply    = pricing.ErrInsufficientSupply

	// Lifecycle
	ErrNotInitialized   = errors.New("token not initialized")
	ErrAlreadyGraduated = errors.New("token already graduated")
	ErrLiquidityLocked  = errors.New("liquidity is permanently locked")
	ErrPoolNotFound     = errors.New("pool not found")

	// Invariants
	ErrOverflow         = pricing.ErrOverflow
	ErrReserveShortfall = errors.New("reserve below amount owed")
	ErrLedgerMismatch   = errors.New("ledger mismatch")
)
