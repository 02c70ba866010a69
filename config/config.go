// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/units"

	"github.com/ava-labs/fairlaunch/pricing"
	"github.com/ava-labs/fairlaunch/types"
)

const (
	defaultDeliveryCopies  = 1
	defaultRetryBackoff    = 10 * time.Millisecond
	defaultMaxRetryBackoff = 1 * time.Second
	defaultPebbleCacheSize = 64 * units.MiB
	defaultLogMaxSize      = 100 // megabytes
	defaultLogMaxFiles     = 5
)

// Curve is the JSON form of [types.CurveConfig]. Amounts are decimal
// strings because they do not fit in a JSON number.
type Curve struct {
	K             string `json:"k"`
	Scale         string `json:"scale"`
	TargetRaise   string `json:"targetRaise"`
	MaxSupply     string `json:"maxSupply"`
	CreatorFeeBps uint16 `json:"creatorFeeBps"`
}

type Config struct {
	// Logging
	LogLevel      logging.Level `json:"logLevel"`
	LogFile       string        `json:"logFile"` // empty logs to stderr only
	LogMaxSize    int           `json:"logMaxSize"`
	LogMaxFiles   int           `json:"logMaxFiles"`
	LogCompressed bool          `json:"logCompressed"`

	// Storage
	DatabaseDir     string `json:"databaseDir"` // empty keeps state in memory
	PebbleCacheSize int    `json:"pebbleCacheSize"`
	PebbleSync      bool   `json:"pebbleSync"`

	// Delivery
	//
	// DeliveryCopies > 1 delivers every message that many times.
	DeliveryCopies  int           `json:"deliveryCopies"`
	RetryBackoff    time.Duration `json:"retryBackoff"`
	MaxRetryBackoff time.Duration `json:"maxRetryBackoff"`

	// Launches
	NotifyTrades bool  `json:"notifyTrades"`
	DefaultCurve Curve `json:"defaultCurve"`

	defaultCurve types.CurveConfig
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	curve, err := c.DefaultCurve.parse()
	if err != nil {
		return nil, err
	}
	if err := pricing.Validate(curve); err != nil {
		return nil, fmt.Errorf("invalid default curve: %w", err)
	}
	c.defaultCurve = curve
	if c.DeliveryCopies < 1 {
		return nil, fmt.Errorf("delivery copies must be positive, got %d", c.DeliveryCopies)
	}
	if c.RetryBackoff <= 0 || c.MaxRetryBackoff < c.RetryBackoff {
		return nil, fmt.Errorf("invalid retry backoff %s (max %s)", c.RetryBackoff, c.MaxRetryBackoff)
	}
	return c, nil
}

func (c *Config) setDefault() {
	c.LogLevel = logging.Info
	c.LogMaxSize = defaultLogMaxSize
	c.LogMaxFiles = defaultLogMaxFiles
	c.PebbleCacheSize = defaultPebbleCacheSize
	c.DeliveryCopies = defaultDeliveryCopies
	c.RetryBackoff = defaultRetryBackoff
	c.MaxRetryBackoff = defaultMaxRetryBackoff
	d := types.DefaultCurveConfig()
	c.DefaultCurve = Curve{
		K:             types.FormatAmount(d.K),
		Scale:         types.FormatAmount(d.Scale),
		TargetRaise:   types.FormatAmount(d.TargetRaise),
		MaxSupply:     types.FormatAmount(d.MaxSupply),
		CreatorFeeBps: d.CreatorFeeBps,
	}
}

func (c *Config) GetDefaultCurve() types.CurveConfig { return c.defaultCurve }
func (c *Config) GetNotifyTrades() bool              { return c.NotifyTrades }
func (c *Config) GetDeliveryCopies() int             { return c.DeliveryCopies }

func (c Curve) parse() (types.CurveConfig, error) {
	var (
		cfg = types.CurveConfig{CreatorFeeBps: c.CreatorFeeBps}
		err error
	)
	if cfg.K, err = types.ParseAmount(c.K); err != nil {
		return cfg, fmt.Errorf("k: %w", err)
	}
	if cfg.Scale, err = types.ParseAmount(c.Scale); err != nil {
		return cfg, fmt.Errorf("scale: %w", err)
	}
	if cfg.TargetRaise, err = types.ParseAmount(c.TargetRaise); err != nil {
		return cfg, fmt.Errorf("targetRaise: %w", err)
	}
	if cfg.MaxSupply, err = types.ParseAmount(c.MaxSupply); err != nil {
		return cfg, fmt.Errorf("maxSupply: %w", err)
	}
	return cfg, nil
}
