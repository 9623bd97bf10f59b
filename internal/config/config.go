package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/judger/internal/catalog"
)

const (
	DefaultBindAddress = "127.0.0.1"
	DefaultBindPort    = 12345
)

type Server struct {
	BindAddress string `toml:"bind_address" json:"bind_address"`
	BindPort    uint16 `toml:"bind_port" json:"bind_port"`
}

// Config is the on-disk service configuration.
type Config struct {
	Server    Server             `toml:"server" json:"server"`
	Problems  []catalog.Problem  `toml:"problems" json:"problems"`
	Languages []catalog.Language `toml:"languages" json:"languages"`
}

// Load reads a TOML config, or a JSON one when the file has a .json extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Server.BindAddress == "" {
		cfg.Server.BindAddress = DefaultBindAddress
	}
	if cfg.Server.BindPort == 0 {
		cfg.Server.BindPort = DefaultBindPort
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.BindAddress, strconv.Itoa(int(c.Server.BindPort)))
}

func (c *Config) Catalog() (*catalog.Catalog, error) {
	cat, err := catalog.New(c.Problems, c.Languages)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return cat, nil
}
