// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
)

var (
	_ codec.Typed = (*ApproveResult)(nil)
	_ codec.Typed = (*TransferFromResult)(nil)
	_ Action      = (*Approve)(nil)
	_ Action      = (*TransferFrom)(nil)
)

type ApproveResult struct {
	Allowance *uint256.Int `json:"allowance"`
}

func (*ApproveResult) GetTypeID() uint8 {
	return consts.ApproveID
}

// Approve sets the amount Spender may move out of the caller's balance.
// It replaces any previous allowance.
type Approve struct {
	Spender codec.Address `json:"spender"`
	Amount  *uint256.Int  `json:"amount"`
}

func (*Approve) GetTypeID() uint8 {
	return consts.ApproveID
}

func (*Approve) Size() int {
	return codec.AddressLen + consts.Uint256Len
}

func (a *Approve) Marshal(p *codec.Packer) {
	p.PackAddress(a.Spender)
	p.PackUint256(a.Amount)
}

func UnmarshalApprove(p *codec.Packer) (Action, error) {
	var a Approve
	p.UnpackAddress(true, &a.Spender)
	a.Amount = p.UnpackUint256(false)
	return &a, p.Err()
}

func (a *Approve) Execute(ctx context.Context, _ Rules, _ Env, mu state.Mutable, actor codec.Address) (codec.Typed, error) {
	if _, err := loadMarket(ctx, mu); err != nil {
		return nil, err
	}
	if a.Spender == codec.EmptyAddress {
		return nil, fmt.Errorf("%w: empty spender", ErrInvalidAddress)
	}
	if a.Spender == actor {
		return nil, ErrInvalidOwner
	}
	amount := a.Amount
	if amount == nil {
		amount = new(uint256.Int)
	}
	if err := storage.SetAllowance(ctx, mu, actor, a.Spender, amount); err != nil {
		return nil, err
	}
	return &ApproveResult{Allowance: amount}, nil
}

type TransferFromResult struct {
	RemainingAllowance *uint256.Int `json:"remainingAllowance"`
}

func (*TransferFromResult) GetTypeID() uint8 {
	return consts.TransferFromID
}

// TransferFrom moves Amount from Owner to To, spending the caller's
// allowance. The caller must be Spender.
type TransferFrom struct {
	Owner   codec.Address `json:"owner"`
	Spender codec.Address `json:"spender"`
	To      codec.Address `json:"to"`
	Amount  *uint256.Int  `json:"amount"`
}

func (*TransferFrom) GetTypeID() uint8 {
	return consts.TransferFromID
}

func (*TransferFrom) Size() int {
	return 3*codec.AddressLen + consts.Uint256Len
}

func (t *TransferFrom) Marshal(p *codec.Packer) {
	p.PackAddress(t.Owner)
	p.PackAddress(t.Spender)
	p.PackAddress(t.To)
	p.PackUint256(t.Amount)
}

func UnmarshalTransferFrom(p *codec.Packer) (Action, error) {
	var t TransferFrom
	p.UnpackAddress(true, &t.Owner)
	p.UnpackAddress(true, &t.Spender)
	p.UnpackAddress(true, &t.To)
	t.Amount = p.UnpackUint256(false)
	return &t, p.Err()
}

func (t *TransferFrom) Execute(ctx context.Context, _ Rules, _ Env, mu state.Mutable, actor codec.Address) (codec.Typed, error) {
	m, err := loadMarket(ctx, mu)
	if err != nil {
		return nil, err
	}
	switch {
	case t.Spender != actor:
		return nil, ErrUnauthorized
	case t.Owner == t.Spender:
		return nil, ErrInvalidOwner
	case t.To == codec.EmptyAddress:
		return nil, fmt.Errorf("%w: empty recipient", ErrInvalidAddress)
	case t.Amount == nil || t.Amount.IsZero():
		return nil, ErrInvalidAmount
	}
	allowance, err := storage.GetAllowance(ctx, mu, t.Owner, t.Spender)
	if err != nil {
		return nil, err
	}
	if allowance.Lt(t.Amount) {
		return nil, fmt.Errorf("%w: allowance %s, amount %s", ErrInsufficientAllowance, allowance, t.Amount)
	}
	bal, err := storage.GetBalance(ctx, mu, t.Owner)
	if err != nil {
		return nil, err
	}
	if bal.Lt(t.Amount) {
		return nil, fmt.Errorf("%w: have %s, moving %s", ErrInsufficientBalance, bal, t.Amount)
	}

	remaining := new(uint256.Int).Sub(allowance, t.Amount)
	if err := storage.SetAllowance(ctx, mu, t.Owner, t.Spender, remaining); err != nil {
		return nil, err
	}
	emptied, err := storage.SubBalance(ctx, mu, t.Owner, t.Amount)
	if err != nil {
		return nil, err
	}
	first, err := storage.AddBalance(ctx, mu, t.To, t.Amount)
	if err != nil {
		return nil, err
	}
	if emptied {
		m.state.HolderCount--
	}
	if first {
		m.state.HolderCount++
	}
	if emptied || first {
		if err := storage.SetTokenState(ctx, mu, m.state); err != nil {
			return nil, err
		}
	}
	return &TransferFromResult{RemainingAllowance: remaining}, nil
}
