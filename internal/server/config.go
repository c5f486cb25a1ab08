package server

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig is the complete tabled configuration.
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Ledger LedgerSettings `hcl:"ledger,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// LedgerSettings locates the chip ledger.
type LedgerSettings struct {
	Path string `hcl:"path,optional"`
}

// TableConfig declares a table to open at startup.
type TableConfig struct {
	Owner       string `hcl:"owner,label"`
	Ante        int    `hcl:"ante,optional"`
	Bots        int    `hcl:"bots,optional"`
	BotStrategy string `hcl:"bot_strategy,optional"`
}

// envOverrides are applied after the file so deployments can adjust a config
// without editing it.
type envOverrides struct {
	Address    string `env:"TABLED_ADDR"`
	Port       int    `env:"TABLED_PORT"`
	LogLevel   string `env:"TABLED_LOG_LEVEL"`
	LedgerPath string `env:"TABLED_LEDGER_PATH"`
}

// DefaultServerConfig returns the configuration used when no file exists.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Ledger: LedgerSettings{Path: "tabled.db"},
	}
}

// LoadServerConfig loads configuration from an HCL file, fills defaults, and
// applies environment overrides.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	config := DefaultServerConfig()

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}
		parsed := ServerConfig{}
		if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
		config = &parsed
	}

	// Fill in anything the file left out.
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Ledger.Path == "" {
		config.Ledger.Path = "tabled.db"
	}
	for i := range config.Tables {
		if config.Tables[i].Ante == 0 {
			config.Tables[i].Ante = 2
		}
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if overrides.Address != "" {
		config.Server.Address = overrides.Address
	}
	if overrides.Port != 0 {
		config.Server.Port = overrides.Port
	}
	if overrides.LogLevel != "" {
		config.Server.LogLevel = overrides.LogLevel
	}
	if overrides.LedgerPath != "" {
		config.Ledger.Path = overrides.LedgerPath
	}

	return config, nil
}

// Validate rejects unusable configurations.
func (c *ServerConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	for _, tc := range c.Tables {
		if tc.Owner == "" {
			return fmt.Errorf("table block requires an owner label")
		}
		if tc.Ante < 0 {
			return fmt.Errorf("table %q: negative ante", tc.Owner)
		}
		if tc.Bots < 0 {
			return fmt.Errorf("table %q: negative bot count", tc.Owner)
		}
	}
	return nil
}

// GetServerAddress returns the host:port the server binds to.
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
