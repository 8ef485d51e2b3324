// Package config loads the simulation configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/mini-bourse/internal/exchange"
	"github.com/talgya/mini-bourse/internal/rational"
)

// Config holds all application settings.
type Config struct {
	Exchange struct {
		// Dividend and fee are exact rationals: numerator over denominator.
		DividendNum    int64 `yaml:"dividend_num"`
		DividendDen    int64 `yaml:"dividend_den"`
		FeeNum         int64 `yaml:"fee_num"`
		FeeDen         int64 `yaml:"fee_den"`
		InitialCapital int64 `yaml:"initial_capital"`
		HistoryDepth   int   `yaml:"history_depth"`
	} `yaml:"exchange"`

	Sim struct {
		Seed       int64 `yaml:"seed"`
		Turns      int   `yaml:"turns"`       // 0 = run forever on the paced loop
		IntervalMS int   `yaml:"interval_ms"` // pacing for the forever loop
	} `yaml:"sim"`

	DB struct {
		Path string `yaml:"path"`
	} `yaml:"db"`

	API struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"api"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.Exchange.DividendNum = 1
	c.Exchange.DividendDen = 100
	c.Exchange.FeeNum = 0
	c.Exchange.FeeDen = 1
	c.Exchange.InitialCapital = 1000
	c.Exchange.HistoryDepth = 32
	c.Sim.Seed = 42
	c.Sim.Turns = 0
	c.Sim.IntervalMS = 1000
	c.DB.Path = "data/bourse.db"
	c.API.Enabled = true
	c.API.Port = 8080
	return c
}

// Load reads the configuration file at path, falling back to defaults when
// the file does not exist.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}

	if c.Exchange.DividendDen == 0 || c.Exchange.FeeDen == 0 {
		return c, fmt.Errorf("config: zero denominator in %s", path)
	}
	if c.Exchange.InitialCapital < 2 {
		return c, fmt.Errorf("config: initial capital must seed at least 2 units per reserve")
	}
	return c, nil
}

// Settings converts the configuration into exchange settings.
func (c Config) Settings() exchange.Settings {
	return exchange.Settings{
		DividendRate:   rational.New(c.Exchange.DividendNum, c.Exchange.DividendDen),
		Fee:            rational.New(c.Exchange.FeeNum, c.Exchange.FeeDen),
		InitialCapital: c.Exchange.InitialCapital,
		HistoryDepth:   c.Exchange.HistoryDepth,
	}
}
