package frostflake

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/frostflake/flake"
	"github.com/viant/frostflake/internal/clock"
	"github.com/viant/frostflake/service/actor"
	"gopkg.in/yaml.v3"
)

// Strategy names accepted by Config.Strategy.
const (
	StrategyLocked   = "locked"
	StrategyDispatch = "dispatch"
	StrategyCheckout = "checkout"
	StrategyActor    = "actor"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from YAML or JSON; LoadConfig decodes over DefaultConfig so
// omitted fields keep their defaults.
type Config struct {
	Strategy    string        `json:"strategy" yaml:"strategy"`
	Size        int           `json:"size" yaml:"size"`
	Capacity    int           `json:"capacity" yaml:"capacity"`
	Bits        BitsConfig    `json:"bits" yaml:"bits"`
	BaseTS      uint64        `json:"baseTs" yaml:"baseTs"`
	Node        uint64        `json:"node" yaml:"node"`
	Unit        string        `json:"unit" yaml:"unit"`
	OnExhausted string        `json:"onExhausted" yaml:"onExhausted"`
	Tracing     TracingConfig `json:"tracing" yaml:"tracing"`
}

// BitsConfig holds the field widths. Pool bits address the generators of the
// dispatch and checkout strategies; locked and actor fold them into the node
// field.
type BitsConfig struct {
	Timestamp uint8 `json:"timestamp" yaml:"timestamp"`
	Pool      uint8 `json:"pool" yaml:"pool"`
	Node      uint8 `json:"node" yaml:"node"`
	Sequence  uint8 `json:"sequence" yaml:"sequence"`
}

// TracingConfig enables the stdout span exporter.
type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Service string `json:"service" yaml:"service"`
	Version string `json:"version" yaml:"version"`
	Output  string `json:"output" yaml:"output"`
}

// DefaultConfig returns a locked, millisecond generator with the default
// 42/4/6/12 layout and the 2017-01-01 epoch.
func DefaultConfig() *Config {
	return &Config{
		Strategy: StrategyLocked,
		Size:     1,
		Capacity: actor.DefaultCapacity,
		Bits: BitsConfig{
			Timestamp: flake.TimestampBits,
			Pool:      flake.PoolBits,
			Node:      flake.PoolNodeBits,
			Sequence:  flake.SequenceBits,
		},
		BaseTS:      flake.BaseTS,
		Unit:        "ms",
		OnExhausted: flake.FailOnExhausted.String(),
		Tracing:     TracingConfig{Service: "frostflake", Version: "0.1.0"},
	}
}

// LoadConfig downloads the YAML (or JSON) document at URL, expands
// ${env.NAME} expressions and decodes it over DefaultConfig. Any afs scheme
// works; options are passed to the download (for example an *embed.FS).
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal([]byte(expandEnv(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if _, ok := clock.Unit(c.Unit); !ok {
		return fmt.Errorf("unsupported unit: %q", c.Unit)
	}
	if _, ok := flake.ParsePolicy(c.OnExhausted); !ok {
		return fmt.Errorf("unsupported onExhausted: %q", c.OnExhausted)
	}
	switch c.Strategy {
	case StrategyLocked:
		return c.options(nil).Err()
	case StrategyActor:
		if c.Capacity <= 0 {
			return fmt.Errorf("capacity must be > 0")
		}
		return c.options(nil).Err()
	case StrategyDispatch, StrategyCheckout:
		return c.poolOptions(nil).CheckSize(c.Size)
	}
	return fmt.Errorf("unsupported strategy: %q", c.Strategy)
}

// poolOptions builds the four-way layout used by dispatch and checkout; a nil
// now selects the clock named by Unit.
func (c *Config) poolOptions(now func() uint64) flake.PoolOptions {
	return c.layout(now).Node(c.Node)
}

// options builds the three-way layout used by locked and actor; the pool
// bits widen the node field.
func (c *Config) options(now func() uint64) flake.Options {
	return c.layout(now).Options().Node(c.Node)
}

func (c *Config) layout(now func() uint64) flake.PoolOptions {
	if now == nil {
		now, _ = clock.Unit(c.Unit)
	}
	policy, _ := flake.ParsePolicy(c.OnExhausted)
	ret := flake.DefaultPoolOptions().
		BaseTS(0).
		Bits(c.Bits.Timestamp, c.Bits.Pool, c.Bits.Node, c.Bits.Sequence).
		BaseTS(c.BaseTS).
		OnExhausted(policy)
	if now != nil {
		ret = ret.TimeFn(now)
	}
	return ret
}
