package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/near/near-jsonrpc-go/pkg/cache"
	"github.com/near/near-jsonrpc-go/pkg/log"
)

// Config is the CLI configuration. Environment variables are read first,
// then command-line flags override them.
type Config struct {
	URL          string        `env:"NEAR_RPC_URL" env-default:"" validate:"omitempty,url"`
	Network      string        `env:"NEAR_RPC_NETWORK" env-default:"mainnet"`
	NetworksFile string        `env:"NEAR_RPC_NETWORKS_FILE" env-default:""`
	APIKey       string        `env:"NEAR_RPC_API_KEY" env-default:""`
	Timeout      time.Duration `env:"NEAR_RPC_TIMEOUT" env-default:"30s" validate:"gt=0"`
	Output       string        `env:"NEAR_RPC_OUTPUT" env-default:"json" validate:"oneof=json yaml table"`
	UseCache     bool          `env:"NEAR_RPC_CACHE" env-default:"false"`

	Cache cache.Config
	Log   log.Config
}

// LoadConfig reads the .env file in dir, when present, and then the
// environment.
func LoadConfig(dir string) (Config, error) {
	var cfg Config

	dotEnvPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(dotEnvPath); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("load %s: %w", dotEnvPath, err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration, including the nested cache and log
// sections, after flags were applied.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// Network is a named RPC endpoint.
type Network struct {
	Name    string            `yaml:"name" validate:"required,hostname_rfc1123"`
	URL     string            `yaml:"url" validate:"required,url"`
	Headers map[string]string `yaml:"headers"`
}

// NetworksConfig is the layout of the networks file.
type NetworksConfig struct {
	Networks []Network `yaml:"networks" validate:"dive"`
}

var defaultNetworks = map[string]Network{
	"mainnet": {Name: "mainnet", URL: "https://rpc.mainnet.near.org"},
	"testnet": {Name: "testnet", URL: "https://rpc.testnet.near.org"},
}

// LoadNetworks returns the built-in networks merged with those declared in
// path. Entries in the file replace built-in ones of the same name.
func LoadNetworks(path string) (map[string]Network, error) {
	networks := make(map[string]Network, len(defaultNetworks))
	for name, n := range defaultNetworks {
		networks[name] = n
	}
	if path == "" {
		return networks, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg NetworksConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid networks file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(cfg.Networks))
	for _, n := range cfg.Networks {
		if seen[n.Name] {
			return nil, fmt.Errorf("network '%s' is declared twice in %s", n.Name, path)
		}
		seen[n.Name] = true
		networks[n.Name] = n
	}
	return networks, nil
}

// ResolveEndpoint picks the endpoint: an explicit URL wins over the named
// network.
func (c Config) ResolveEndpoint(networks map[string]Network) (Network, error) {
	if c.URL != "" {
		return Network{Name: "custom", URL: c.URL}, nil
	}

	n, ok := networks[c.Network]
	if !ok {
		names := make([]string, 0, len(networks))
		for name := range networks {
			names = append(names, name)
		}
		sort.Strings(names)
		return Network{}, fmt.Errorf("unknown network '%s', known networks: %v", c.Network, names)
	}
	return n, nil
}
