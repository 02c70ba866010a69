// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/types"
)

func TokenConfigKey() []byte {
	return []byte{tokenConfigPrefix}
}

func TokenStateKey() []byte {
	return []byte{tokenStatePrefix}
}

func BalanceKey(account codec.Address) []byte {
	return addressKey(balancePrefix, account)
}

func AllowanceKey(owner, spender codec.Address) []byte {
	return addressPairKey(allowancePrefix, owner, spender)
}

func NativeBalanceKey(account codec.Address) []byte {
	return addressKey(nativeBalancePrefix, account)
}

func PositionKey(account codec.Address) []byte {
	return addressKey(positionPrefix, account)
}

func TradeKey(seq uint64) []byte {
	return sequenceKey(tradePrefix, seq)
}

// GetTokenConfig returns nil if the shard has not been initialized.
func GetTokenConfig(ctx context.Context, im state.Immutable) (*types.TokenConfig, error) {
	c, _, err := getRecord(ctx, im, TokenConfigKey(), types.ParseTokenConfig)
	return c, err
}

func SetTokenConfig(ctx context.Context, mu state.Mutable, c *types.TokenConfig) error {
	return mu.Insert(ctx, TokenConfigKey(), c.Bytes())
}

// GetTokenState returns a zero [types.TokenState] in [types.Pending] if
// nothing has been stored yet.
func GetTokenState(ctx context.Context, im state.Immutable) (*types.TokenState, error) {
	s, ok, err := getRecord(ctx, im, TokenStateKey(), types.ParseTokenState)
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.NewTokenState(), nil
	}
	return s, nil
}

func SetTokenState(ctx context.Context, mu state.Mutable, s *types.TokenState) error {
	return mu.Insert(ctx, TokenStateKey(), s.Bytes())
}

func GetBalance(ctx context.Context, im state.Immutable, account codec.Address) (*uint256.Int, error) {
	return getAmount(ctx, im, BalanceKey(account))
}

func SetBalance(ctx context.Context, mu state.Mutable, account codec.Address, v *uint256.Int) error {
	return setAmount(ctx, mu, BalanceKey(account), v)
}

// AddBalance credits [account] and reports whether the account held
// nothing before.
func AddBalance(ctx context.Context, mu state.Mutable, account codec.Address, amount *uint256.Int) (bool, error) {
	bal, err := GetBalance(ctx, mu, account)
	if err != nil {
		return false, err
	}
	nbal, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return false, fmt.Errorf(
			"%w: could not add balance (bal=%s, addr=%v, amount=%s)",
			ErrInvalidBalance, bal, account, amount,
		)
	}
	return bal.IsZero() && !amount.IsZero(), SetBalance(ctx, mu, account, nbal)
}

// SubBalance debits [account] and reports whether the account is now empty.
func SubBalance(ctx context.Context, mu state.Mutable, account codec.Address, amount *uint256.Int) (bool, error) {
	bal, err := GetBalance(ctx, mu, account)
	if err != nil {
		return false, err
	}
	nbal, underflow := new(uint256.Int).SubOverflow(bal, amount)
	if underflow {
		return false, fmt.Errorf(
			"%w: could not subtract balance (bal=%s, addr=%v, amount=%s)",
			ErrInvalidBalance, bal, account, amount,
		)
	}
	return nbal.IsZero() && !amount.IsZero(), SetBalance(ctx, mu, account, nbal)
}

func GetAllowance(ctx context.Context, im state.Immutable, owner, spender codec.Address) (*uint256.Int, error) {
	return getAmount(ctx, im, AllowanceKey(owner, spender))
}

func SetAllowance(ctx context.Context, mu state.Mutable, owner, spender codec.Address, v *uint256.Int) error {
	return setAmount(ctx, mu, AllowanceKey(owner, spender), v)
}

func GetNativeBalance(ctx context.Context, im state.Immutable, account codec.Address) (*uint256.Int, error) {
	return getAmount(ctx, im, NativeBalanceKey(account))
}

func AddNativeBalance(ctx context.Context, mu state.Mutable, account codec.Address, amount *uint256.Int) error {
	bal, err := GetNativeBalance(ctx, mu, account)
	if err != nil {
		return err
	}
	nbal, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return fmt.Errorf(
			"%w: could not add native balance (bal=%s, addr=%v, amount=%s)",
			ErrInvalidBalance, bal, account, amount,
		)
	}
	return setAmount(ctx, mu, NativeBalanceKey(account), nbal)
}

func SubNativeBalance(ctx context.Context, mu state.Mutable, account codec.Address, amount *uint256.Int) error {
	bal, err := GetNativeBalance(ctx, mu, account)
	if err != nil {
		return err
	}
	nbal, underflow := new(uint256.Int).SubOverflow(bal, amount)
	if underflow {
		return fmt.Errorf(
			"%w: could not subtract native balance (bal=%s, addr=%v, amount=%s)",
			ErrInvalidBalance, bal, account, amount,
		)
	}
	return setAmount(ctx, mu, NativeBalanceKey(account), nbal)
}

func GetPosition(ctx context.Context, im state.Immutable, account codec.Address) (*types.Position, error) {
	p, ok, err := getRecord(ctx, im, PositionKey(account), types.ParsePosition)
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.NewPosition(), nil
	}
	return p, nil
}

func SetPosition(ctx context.Context, mu state.Mutable, account codec.Address, p *types.Position) error {
	return mu.Insert(ctx, PositionKey(account), p.Bytes())
}

func GetTrade(ctx context.Context, im state.Immutable, seq uint64) (*types.TradeRecord, bool, error) {
	return getRecord(ctx, im, TradeKey(seq), types.ParseTradeRecord)
}

func SetTrade(ctx context.Context, mu state.Mutable, t *types.TradeRecord) error {
	return mu.Insert(ctx, TradeKey(t.Sequence), t.Bytes())
}
