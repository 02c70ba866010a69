// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fairlaunch/types"
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func defaultCurve(t *testing.T) *Curve {
	c, err := New(types.DefaultCurveConfig())
	require.NoError(t, err)
	return c
}

func TestValidate(t *testing.T) {
	huge := new(uint256.Int).Lsh(u(1), 130)
	tests := []struct {
		name   string
		mutate func(*types.CurveConfig)
		err    error
	}{
		{"default", func(*types.CurveConfig) {}, nil},
		{"zero k", func(c *types.CurveConfig) { c.K = u(0) }, ErrInvalidCurveConfig},
		{"nil scale", func(c *types.CurveConfig) { c.Scale = nil }, ErrInvalidCurveConfig},
		{"zero target", func(c *types.CurveConfig) { c.TargetRaise = u(0) }, ErrInvalidCurveConfig},
		{"zero max supply", func(c *types.CurveConfig) { c.MaxSupply = u(0) }, ErrInvalidCurveConfig},
		{"max supply equals scale", func(c *types.CurveConfig) { c.MaxSupply = u(1_000_000) }, ErrInvalidCurveConfig},
		{"fee above 100%", func(c *types.CurveConfig) { c.CreatorFeeBps = 10_001 }, ErrInvalidCurveConfig},
		{"full fee", func(c *types.CurveConfig) { c.CreatorFeeBps = 10_000 }, nil},
		{"scale squared overflows", func(c *types.CurveConfig) {
			c.Scale = huge
			c.MaxSupply = new(uint256.Int).Lsh(huge, 1)
		}, ErrInvalidCurveConfig},
		{"cube overflows", func(c *types.CurveConfig) { c.K = new(uint256.Int).Lsh(u(1), 200) }, ErrInvalidCurveConfig},
		{"completed raise cannot be pooled", func(c *types.CurveConfig) {
			c.K = new(uint256.Int).Lsh(u(1), 240)
			c.Scale = u(1)
			c.MaxSupply = u(2)
		}, ErrInvalidCurveConfig},
		{"completed raise fits a pool", func(c *types.CurveConfig) {
			c.K = new(uint256.Int).Lsh(u(1), 200)
			c.Scale = u(1)
			c.MaxSupply = u(2)
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultCurveConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, Validate(cfg), tt.err)
		})
	}
}

func TestScenarioQuote(t *testing.T) {
	require := require.New(t)
	c := defaultCurve(t)

	q, err := c.QuoteBuy(u(0), u(10_000))
	require.NoError(err)
	require.Equal(u(333), q.Cost)
	require.Equal(u(9), q.Fee)
	require.Equal(u(342), q.Total)

	// Cubes are formed before dividing.
	cost, err := c.BuyCost(u(0), u(100_000))
	require.NoError(err)
	require.Equal(u(333_333), cost)

	price, err := c.Price(u(1_000_000))
	require.NoError(err)
	require.Equal(u(1_000), price)
}

func TestFee(t *testing.T) {
	require := require.New(t)
	c := defaultCurve(t)

	fee, err := c.Fee(u(10_000))
	require.NoError(err)
	require.Equal(u(300), fee)

	fee, err = FeeBps(u(33), 300)
	require.NoError(err)
	require.Equal(u(0), fee)

	_, err = FeeBps(new(uint256.Int).Lsh(u(1), 255), 300)
	require.ErrorIs(err, ErrOverflow)
}

func TestTradeErrors(t *testing.T) {
	require := require.New(t)
	c := defaultCurve(t)

	_, err := c.BuyCost(u(0), u(0))
	require.ErrorIs(err, ErrInvalidAmount)
	_, err = c.SellReturn(u(10), u(0))
	require.ErrorIs(err, ErrInvalidAmount)

	_, err = c.BuyCost(u(999_999_999), u(2))
	require.ErrorIs(err, ErrSupplyExceeded)
	_, err = c.BuyCost(u(1), new(uint256.Int).SetAllOne())
	require.ErrorIs(err, ErrSupplyExceeded)

	cost, err := c.BuyCost(u(0), u(1_000_000_000))
	require.NoError(err)
	require.False(cost.IsZero())

	_, err = c.SellReturn(u(10), u(11))
	require.ErrorIs(err, ErrInsufficientSupply)
}

func TestSymmetry(t *testing.T) {
	require := require.New(t)
	c := defaultCurve(t)
	r := rand.New(rand.NewSource(1)) //nolint:gosec

	for i := 0; i < 1_000; i++ {
		s := uint64(r.Int63n(1_000_000_000)) + 1
		d := uint64(r.Int63n(int64(s))) + 1

		buy, err := c.BuyCost(u(s-d), u(d))
		require.NoError(err)
		sell, err := c.SellReturn(u(s), u(d))
		require.NoError(err)
		require.Equal(buy, sell, "s=%d d=%d", s, d)
	}
}

func TestAdditivity(t *testing.T) {
	require := require.New(t)
	c := defaultCurve(t)

	whole, err := c.BuyCost(u(12_345), u(700_000))
	require.NoError(err)
	first, err := c.BuyCost(u(12_345), u(300_001))
	require.NoError(err)
	second, err := c.BuyCost(u(312_346), u(399_999))
	require.NoError(err)
	require.Equal(whole, new(uint256.Int).Add(first, second))
}

func TestMonotonicity(t *testing.T) {
	require := require.New(t)
	c := defaultCurve(t)

	// At whole multiples of scale the floor never collapses neighbours.
	prev, err := c.Price(u(0))
	require.NoError(err)
	for n := uint64(1); n <= 1_000; n++ {
		p, err := c.Price(u(n * 1_000_000))
		require.NoError(err)
		require.True(p.Gt(prev), "n=%d", n)
		prev = p
	}

	prevCost := u(0)
	for n := uint64(1); n <= 1_000; n++ {
		cost, err := c.BuyCost(u(5_000_000), u(n*100_000))
		require.NoError(err)
		require.True(cost.Gt(prevCost), "n=%d", n)
		prevCost = cost
	}

	// Everywhere else it is non-decreasing.
	r := rand.New(rand.NewSource(2)) //nolint:gosec
	for i := 0; i < 1_000; i++ {
		s1 := uint64(r.Int63n(999_999_999))
		s2 := s1 + uint64(r.Int63n(int64(1_000_000_000-s1))) + 1
		p1, err := c.Price(u(s1))
		require.NoError(err)
		p2, err := c.Price(u(s2))
		require.NoError(err)
		require.False(p2.Lt(p1))
	}
}

func TestReachedGraduation(t *testing.T) {
	require := require.New(t)
	c := defaultCurve(t)

	require.False(c.ReachedGraduation(u(100), u(68_999)))
	require.True(c.ReachedGraduation(u(100), u(69_000)))
	require.True(c.ReachedGraduation(u(1_000_000_000), u(0)))
}

func TestRatio(t *testing.T) {
	require := require.New(t)

	r, err := Ratio(u(69_000), u(1_000_000))
	require.NoError(err)
	require.Equal(u(69_000), r)

	_, err = Ratio(u(1), u(0))
	require.ErrorIs(err, ErrZeroInput)

	// base * scale exceeds 256 bits but the quotient does not.
	base := new(uint256.Int).Lsh(u(1), 250)
	r, err = Ratio(base, new(uint256.Int).Lsh(u(1), 30))
	require.NoError(err)
	require.Equal(new(uint256.Int).Mul(new(uint256.Int).Lsh(u(1), 220), u(types.RatioScale)), r)

	_, err = Ratio(base, u(1))
	require.ErrorIs(err, ErrOverflow)
}

// Every curve that validates can be graduated into a pool.
func TestCompletedCurveIsPoolable(t *testing.T) {
	require := require.New(t)
	cfg := types.CurveConfig{
		K:           new(uint256.Int).Lsh(u(1), 200),
		Scale:       u(1),
		TargetRaise: new(uint256.Int).SetAllOne(),
		MaxSupply:   u(2),
	}
	c, err := New(cfg)
	require.NoError(err)

	q, err := c.QuoteBuy(u(0), u(2))
	require.NoError(err)
	require.True(c.ReachedGraduation(u(2), q.Cost))
	_, err = Ratio(q.Cost, u(2))
	require.NoError(err)
	_, overflow := new(uint256.Int).MulOverflow(q.Cost, u(2))
	require.False(overflow)
}
