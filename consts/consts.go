// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name = "fairlaunch"

	ByteLen   = 1
	BoolLen   = 1
	IntLen    = 4
	Uint16Len = 2
	Uint64Len = 8

	// Uint256Len is the fixed encoding size of a curve amount.
	Uint256Len = 32

	// MaxMessageSize bounds any encoded action, message or stored record.
	MaxMessageSize = 64 * 1024
)

// Address type prefixes.
const (
	AccountID      uint8 = 1
	FactoryShardID uint8 = 2
	TokenShardID   uint8 = 3
	PoolShardID    uint8 = 4
	PoolID         uint8 = 5
)

// Action type IDs.
const (
	CreateTokenID uint8 = iota
	BuyID
	SellID
	ApproveID
	TransferFromID
	WithdrawLiquidityID
)

// Message type IDs.
const (
	InitTokenID uint8 = iota
	TokenInitializedID
	CreditID
	GraduateTokenID
	PoolCreatedID
	LaunchUpdateID
)
