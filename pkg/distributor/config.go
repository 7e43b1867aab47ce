// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distributor

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConcurrency   = 8
	DefaultTokenDecimals = 18
)

type Config struct {
	ChainNodeEndpoint string   `yaml:"endpoint"`
	WalletKey         string   `yaml:"wallet-key"`
	KeyStore          KeyStore `yaml:"keystore"`

	Recipients     []string   `yaml:"recipients"`
	RecipientsFile string     `yaml:"recipients-file"`
	MinAmounts     MinAmounts `yaml:"min-amounts"`
	Token          Token      `yaml:"token"`

	Concurrency  int      `yaml:"concurrency"`
	WaitForNonce bool     `yaml:"wait-for-nonce"`
	PollInterval Duration `yaml:"poll-interval"`
}

type KeyStore struct {
	Dir           string   `yaml:"dir"`
	Address       string   `yaml:"address"`
	Password      string   `yaml:"password"`
	UnlockTimeout Duration `yaml:"unlock-timeout"`
}

type MinAmounts struct {
	NativeCoin float64 `yaml:"native"` // CFX
	Token      float64 `yaml:"token"`
}

// Token is the CRC20 contract recipients are topped up with, if any.
type Token struct {
	Address  string `yaml:"address"`
	Decimals int    `yaml:"decimals"`
}

// Duration accepts a Go duration string or an integer number of
// milliseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}

	if value.Value == "" {
		d.Duration = 0
		return nil
	}

	if value.Tag == "!!int" {
		var v int64
		if err := value.Decode(&v); err != nil {
			return err
		}

		d.Duration = time.Duration(v) * time.Millisecond

		return nil
	}

	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}

	d.Duration = dur

	return nil
}

// LoadConfig reads a YAML config file. Unset fields get their defaults.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}

	if c.Token.Decimals == 0 {
		c.Token.Decimals = DefaultTokenDecimals
	}
}

// Validate checks the fields Distribute depends on.
func (c Config) Validate() error {
	if c.MinAmounts.NativeCoin < 0 || c.MinAmounts.Token < 0 {
		return fmt.Errorf("min amounts must not be negative")
	}

	if c.MinAmounts.Token > 0 && c.Token.Address == "" {
		return fmt.Errorf("token address must be set to top up tokens")
	}

	return nil
}
