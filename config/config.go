// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/curvevm/amm"
	"github.com/ava-labs/curvevm/consts"
	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/graduation"
	"github.com/ava-labs/curvevm/pebble"
	"github.com/ava-labs/curvevm/trace"
)

const (
	defaultLogLevel         = "info"
	defaultPriceCacheSize   = 4_096
	defaultRPCAddress       = "127.0.0.1:9650"
	defaultShutdownTimeout  = 5 * time.Second
	defaultReadHeaderTimout = 10 * time.Second
)

// Default AMM factory per base currency.
var defaultFactories = map[string]string{
	curve.BUSD.String():  "2:1",
	curve.FrBTC.String(): "32:1",
}

type Config struct {
	// Logging
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	LogDir   string `json:"logDir"   yaml:"logDir"`

	// Pricing
	Integrator     curve.IntegratorConfig `json:"integrator"     yaml:"integrator"`
	PriceCacheSize int                    `json:"priceCacheSize" yaml:"priceCacheSize"`

	// Graduation
	Graduation graduation.Criteria `json:"graduation" yaml:"graduation"`

	// AMM factories keyed by base currency name ("busd", "frbtc"), each a
	// "block:tx" identifier.
	Factories map[string]string `json:"factories" yaml:"factories"`
	AMMFee    uint64            `json:"ammFee"    yaml:"ammFee"`

	// Storage
	DatabaseDir string        `json:"databaseDir" yaml:"databaseDir"`
	Pebble      pebble.Config `json:"pebble"      yaml:"pebble"`

	// Tracing
	Trace trace.Config `json:"trace" yaml:"trace"`

	// RPC
	RPCAddress        string        `json:"rpcAddress"        yaml:"rpcAddress"`
	AllowedOrigins    []string      `json:"allowedOrigins"    yaml:"allowedOrigins"`
	AllowedHosts      []string      `json:"allowedHosts"      yaml:"allowedHosts"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"   yaml:"shutdownTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`

	logLevel  logging.Level
	factories map[curve.BaseCurrency]curve.AssetID
}

// New parses a JSON config, applying defaults for every omitted field.
func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	return c, c.parse()
}

// NewYAML is New for YAML input.
func NewYAML(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	return c, c.parse()
}

// Load reads [path], choosing the format by extension. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	if len(path) == 0 {
		return New(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAML(b)
	default:
		return New(b)
	}
}

func (c *Config) setDefault() {
	c.LogLevel = defaultLogLevel
	c.Integrator = curve.DefaultIntegratorConfig()
	c.PriceCacheSize = defaultPriceCacheSize
	c.Graduation = graduation.DefaultCriteria()
	c.Factories = make(map[string]string, len(defaultFactories))
	for k, v := range defaultFactories {
		c.Factories[k] = v
	}
	c.AMMFee = amm.DefaultFee
	c.Pebble = pebble.NewDefaultConfig()
	c.Trace = trace.Config{
		TraceSampleRate: 1,
		Endpoint:        trace.DefaultEndpoint,
		AppName:         consts.Name,
		Agent:           consts.Name,
		Version:         consts.Version.String(),
	}
	c.RPCAddress = defaultRPCAddress
	c.AllowedOrigins = []string{"*"}
	c.AllowedHosts = []string{"localhost"}
	c.ShutdownTimeout = defaultShutdownTimeout
	c.ReadHeaderTimeout = defaultReadHeaderTimout
}

func (c *Config) parse() error {
	level, err := logging.ToLevel(c.LogLevel)
	if err != nil {
		return err
	}
	c.logLevel = level
	if err := c.Integrator.Verify(); err != nil {
		return err
	}
	if err := c.Graduation.Verify(); err != nil {
		return err
	}
	c.factories = make(map[curve.BaseCurrency]curve.AssetID, len(c.Factories))
	for name, id := range c.Factories {
		currency, err := parseCurrencyName(name)
		if err != nil {
			return err
		}
		factory, err := curve.ParseAssetID(id)
		if err != nil {
			return err
		}
		c.factories[currency] = factory
	}
	return nil
}

func parseCurrencyName(name string) (curve.BaseCurrency, error) {
	for _, currency := range []curve.BaseCurrency{curve.BUSD, curve.FrBTC} {
		if strings.EqualFold(name, currency.String()) {
			return currency, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", curve.ErrUnknownBaseCurrency, name)
}

func (c *Config) GetLogLevel() logging.Level { return c.logLevel }

func (c *Config) GetFactories() map[curve.BaseCurrency]curve.AssetID { return c.factories }

func (c *Config) GetTraceConfig() *trace.Config { return &c.Trace }
