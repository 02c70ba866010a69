// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/fairlaunch/types"
)

const MaxFeeBps = 10_000

var (
	three      = uint256.NewInt(3)
	bpsDen     = uint256.NewInt(MaxFeeBps)
	ratioScale = uint256.NewInt(types.RatioScale)
)

// Curve prices trades on the quadratic curve
//
//	price(s) = k * s^2 / scale^2
//
// Costs and returns are differences of the integral
//
//	I(s) = k * s^3 / (3 * scale^2)
//
// evaluated at both ends of the trade. Numerators are fully formed before
// the single floor division, and buys and sells share [Curve.Integral], so a
// buy of d at s-d costs exactly what a sell of d at s returns.
type Curve struct {
	cfg types.CurveConfig

	// 3 * scale^2
	integralDen *uint256.Int
	// scale^2
	priceDen *uint256.Int
}

// Validate checks the curve invariants and that every in-range evaluation
// fits in 256 bits.
func Validate(cfg types.CurveConfig) error {
	switch {
	case cfg.K == nil || cfg.K.IsZero():
		return fmt.Errorf("%w: k must be non-zero", ErrInvalidCurveConfig)
	case cfg.Scale == nil || cfg.Scale.IsZero():
		return fmt.Errorf("%w: scale must be non-zero", ErrInvalidCurveConfig)
	case cfg.TargetRaise == nil || cfg.TargetRaise.IsZero():
		return fmt.Errorf("%w: target raise must be non-zero", ErrInvalidCurveConfig)
	case cfg.MaxSupply == nil || cfg.MaxSupply.IsZero():
		return fmt.Errorf("%w: max supply must be non-zero", ErrInvalidCurveConfig)
	case !cfg.MaxSupply.Gt(cfg.Scale):
		return fmt.Errorf("%w: max supply must exceed scale", ErrInvalidCurveConfig)
	case cfg.CreatorFeeBps > MaxFeeBps:
		return fmt.Errorf("%w: creator fee %d bps exceeds %d", ErrInvalidCurveConfig, cfg.CreatorFeeBps, MaxFeeBps)
	}
	den, err := denominators(cfg.Scale)
	if err != nil {
		return fmt.Errorf("%w: scale too large", ErrInvalidCurveConfig)
	}
	top, err := cube(cfg.K, cfg.MaxSupply)
	if err != nil {
		return fmt.Errorf("%w: k * maxSupply^3 overflows", ErrInvalidCurveConfig)
	}
	// The raise never exceeds I(maxSupply). A completed curve must still
	// fit into a pool's ratio numerator, which also bounds its 2x TVL.
	if _, err := mul(top.Div(top, den), ratioScale); err != nil {
		return fmt.Errorf("%w: raise at max supply cannot be pooled", ErrInvalidCurveConfig)
	}
	return nil
}

func New(cfg types.CurveConfig) (*Curve, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	priceDen, _ := mul(cfg.Scale, cfg.Scale)
	integralDen, err := denominators(cfg.Scale)
	if err != nil {
		return nil, err
	}
	return &Curve{
		cfg:         cfg,
		integralDen: integralDen,
		priceDen:    priceDen,
	}, nil
}

func (c *Curve) Config() types.CurveConfig {
	return c.cfg
}

// Price returns the marginal price at [supply].
func (c *Curve) Price(supply *uint256.Int) (*uint256.Int, error) {
	num, err := mul(c.cfg.K, supply)
	if err != nil {
		return nil, err
	}
	num, err = mul(num, supply)
	if err != nil {
		return nil, err
	}
	return num.Div(num, c.priceDen), nil
}

// Integral returns I(supply), the total raised to mint [supply] from zero.
func (c *Curve) Integral(supply *uint256.Int) (*uint256.Int, error) {
	num, err := cube(c.cfg.K, supply)
	if err != nil {
		return nil, err
	}
	return num.Div(num, c.integralDen), nil
}

// BuyCost returns the pre-fee cost of minting [amount] at [supply].
func (c *Curve) BuyCost(supply, amount *uint256.Int) (*uint256.Int, error) {
	if amount == nil || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	end, overflow := new(uint256.Int).AddOverflow(supply, amount)
	if overflow || end.Gt(c.cfg.MaxSupply) {
		return nil, fmt.Errorf("%w: %s + %s > %s", ErrSupplyExceeded, supply, amount, c.cfg.MaxSupply)
	}
	return c.span(supply, end)
}

// SellReturn returns the pre-fee proceeds of burning [amount] at [supply].
func (c *Curve) SellReturn(supply, amount *uint256.Int) (*uint256.Int, error) {
	if amount == nil || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if amount.Gt(supply) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInsufficientSupply, amount, supply)
	}
	start := new(uint256.Int).Sub(supply, amount)
	return c.span(start, supply)
}

// span returns I(hi) - I(lo) for lo <= hi.
func (c *Curve) span(lo, hi *uint256.Int) (*uint256.Int, error) {
	upper, err := c.Integral(hi)
	if err != nil {
		return nil, err
	}
	lower, err := c.Integral(lo)
	if err != nil {
		return nil, err
	}
	diff, underflow := new(uint256.Int).SubOverflow(upper, lower)
	if underflow {
		return nil, ErrOverflow
	}
	return diff, nil
}

// Fee returns amount * creatorFeeBps / 10000, rounded down.
func (c *Curve) Fee(amount *uint256.Int) (*uint256.Int, error) {
	return FeeBps(amount, c.cfg.CreatorFeeBps)
}

func FeeBps(amount *uint256.Int, bps uint16) (*uint256.Int, error) {
	num, err := mul(amount, uint256.NewInt(uint64(bps)))
	if err != nil {
		return nil, err
	}
	return num.Div(num, bpsDen), nil
}

// ReachedGraduation reports whether the curve has completed.
func (c *Curve) ReachedGraduation(supply, raised *uint256.Int) bool {
	return !raised.Lt(c.cfg.TargetRaise) || !supply.Lt(c.cfg.MaxSupply)
}

// Ratio returns base * [types.RatioScale] / tokens. The product is kept
// at 512 bits, so only a quotient above 256 bits fails.
func Ratio(base, tokens *uint256.Int) (*uint256.Int, error) {
	if tokens == nil || tokens.IsZero() {
		return nil, ErrZeroInput
	}
	v, overflow := new(uint256.Int).MulDivOverflow(base, ratioScale, tokens)
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}

func denominators(scale *uint256.Int) (*uint256.Int, error) {
	sq, err := mul(scale, scale)
	if err != nil {
		return nil, err
	}
	return mul(sq, three)
}

// cube returns k * s^3.
func cube(k, s *uint256.Int) (*uint256.Int, error) {
	v, err := mul(k, s)
	if err != nil {
		return nil, err
	}
	if v, err = mul(v, s); err != nil {
		return nil, err
	}
	return mul(v, s)
}

func mul(a, b *uint256.Int) (*uint256.Int, error) {
	v, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}
