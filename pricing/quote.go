// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "github.com/holiman/uint256"

type BuyQuote struct {
	Cost  *uint256.Int `json:"cost"`
	Fee   *uint256.Int `json:"fee"`
	Total *uint256.Int `json:"total"`
}

type SellQuote struct {
	Gross *uint256.Int `json:"gross"`
	Fee   *uint256.Int `json:"fee"`
	Net   *uint256.Int `json:"net"`
}

// QuoteBuy prices a buy of [amount] at [supply]. The fee is charged on
// top of the cost.
func (c *Curve) QuoteBuy(supply, amount *uint256.Int) (*BuyQuote, error) {
	cost, err := c.BuyCost(supply, amount)
	if err != nil {
		return nil, err
	}
	fee, err := c.Fee(cost)
	if err != nil {
		return nil, err
	}
	total, overflow := new(uint256.Int).AddOverflow(cost, fee)
	if overflow {
		return nil, ErrOverflow
	}
	return &BuyQuote{Cost: cost, Fee: fee, Total: total}, nil
}

// QuoteSell prices a sell of [amount] at [supply]. The fee is taken out of
// the gross return.
func (c *Curve) QuoteSell(supply, amount *uint256.Int) (*SellQuote, error) {
	gross, err := c.SellReturn(supply, amount)
	if err != nil {
		return nil, err
	}
	fee, err := c.Fee(gross)
	if err != nil {
		return nil, err
	}
	// fee <= gross since bps <= 10000
	net := new(uint256.Int).Sub(gross, fee)
	return &SellQuote{Gross: gross, Fee: fee, Net: net}, nil
}
