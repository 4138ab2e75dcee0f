package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ibc-ferry/ferry/core"
)

// Config is the on-disk configuration of the relay engine: global settings,
// the configured chains, and the relay paths between them.
type Config struct {
	ConfigPath string `yaml:"-" json:"-"`

	Global     GlobalConfig          `yaml:"global" json:"global"`
	Chains     []json.RawMessage     `yaml:"chains" json:"chains"`
	Paths      core.Paths            `yaml:"paths" json:"paths"`
	Supervisor core.SupervisorConfig `yaml:"supervisor" json:"supervisor"`

	// cache
	chains Chains `yaml:"-" json:"-"`
}

type GlobalConfig struct {
	Timeout        string       `yaml:"timeout" json:"timeout"`
	LoggerConfig   LoggerConfig `yaml:"logger" json:"logger"`
	PrometheusAddr string       `yaml:"prometheus-addr" json:"prometheus-addr"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

func DefaultConfig(configPath string) Config {
	return Config{
		ConfigPath: configPath,
		Global:     newDefaultGlobalConfig(),
		Chains:     []json.RawMessage{},
		Paths:      core.Paths{},
	}
}

func newDefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Timeout: "10s",
		LoggerConfig: LoggerConfig{
			Level:  "INFO",
			Format: "json",
			Output: "stderr",
		},
		PrometheusAddr: "localhost:2223",
	}
}

// GetChain returns the built chain for a given chain ID
func (c *Config) GetChain(chainID string) (*core.ProvableChain, error) {
	return c.chains.Get(chainID)
}

// AddChain adds an additional chain to the config
func (c *Config) AddChain(ctx *Context, config core.ChainProverConfig) error {
	chain, err := config.Build()
	if err != nil {
		return err
	}
	if _, err := c.GetChain(chain.ChainID()); err == nil {
		return fmt.Errorf("chain with ID %s already exists in config", chain.ChainID())
	}
	bz, err := json.Marshal(config)
	if err != nil {
		return err
	}
	c.Chains = append(c.Chains, bz)
	c.chains = append(c.chains, chain)
	return nil
}

// AddPath adds an additional path to the config
func (c *Config) AddPath(name string, path *core.Path) error {
	return c.Paths.Add(name, path)
}

// ChainsFromPath returns the chains of a configured path, keyed by chain ID
func (c *Config) ChainsFromPath(path string) (map[string]*core.ProvableChain, string, string, error) {
	pth, err := c.Paths.Get(path)
	if err != nil {
		return nil, "", "", err
	}

	src, dst := pth.Src.ChainID, pth.Dst.ChainID
	chains, err := c.chains.Gets(src, dst)
	if err != nil {
		return nil, "", "", err
	}
	return chains, src, dst, nil
}

// InitChains builds and initializes the chains of the config
func InitChains(ctx *Context, homePath string, debug bool) error {
	to, err := time.ParseDuration(ctx.Config.Global.Timeout)
	if err != nil {
		return fmt.Errorf("invalid global timeout: %w", err)
	}

	for i, raw := range ctx.Config.Chains {
		var cc core.ChainProverConfig
		if err := json.Unmarshal(raw, &cc); err != nil {
			return fmt.Errorf("failed to unmarshal chain config %d: %w", i, err)
		}
		if err := cc.Init(ctx.Codec); err != nil {
			return fmt.Errorf("failed to init chain config %d: %w", i, err)
		}
		chain, err := cc.Build()
		if err != nil {
			return fmt.Errorf("failed to build chain %d: %w", i, err)
		}
		if err := chain.Init(homePath, to, ctx.Codec, debug); err != nil {
			return fmt.Errorf("failed to initialize chain %s: %w", chain.ChainID(), err)
		}
		ctx.Config.chains = append(ctx.Config.chains, chain)
	}
	return nil
}

// Save writes the config back to its path
func (c *Config) Save() error {
	bz, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.ConfigPath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(c.ConfigPath, bz, 0600)
}
