// Package config holds the netlens configuration: trace defaults, discovery
// ignore patterns, and the MCP server's cache and metrics settings. It can
// be loaded from .netlens/config.yml with environment variable overrides.
package config

import "fmt"

// Config represents the complete netlens configuration.
type Config struct {
	Trace     TraceConfig     `yaml:"trace" mapstructure:"trace"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
}

// TraceConfig sets the traversal defaults applied when a query does not
// specify its own.
type TraceConfig struct {
	SkipTypes  []string `yaml:"skip_types" mapstructure:"skip_types"`   // refdes prefixes excluded from results
	IncludeDNS bool     `yaml:"include_dns" mapstructure:"include_dns"` // admit do-not-stuff components
}

// DiscoveryConfig controls the subtree walk that locates Cadence netlist
// files next to a design.
type DiscoveryConfig struct {
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to skip
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	CacheCapacity int `yaml:"cache_capacity" mapstructure:"cache_capacity"` // parsed designs kept in memory
	MetricsPort   int `yaml:"metrics_port" mapstructure:"metrics_port"`     // 0 disables the metrics endpoint
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Trace: TraceConfig{
			SkipTypes:  nil,
			IncludeDNS: false,
		},
		Discovery: DiscoveryConfig{
			Ignore: []string{
				"**/node_modules/**",
				"**/output/**",
				"**/*.tmp/**",
			},
		},
		Server: ServerConfig{
			CacheCapacity: 8,
			MetricsPort:   0,
		},
	}
}

// Validate rejects configurations no component can act on.
func Validate(cfg *Config) error {
	if cfg.Server.CacheCapacity < 1 {
		return fmt.Errorf("server.cache_capacity must be at least 1, got %d", cfg.Server.CacheCapacity)
	}
	if cfg.Server.MetricsPort < 0 || cfg.Server.MetricsPort > 65535 {
		return fmt.Errorf("server.metrics_port must be a valid port, got %d", cfg.Server.MetricsPort)
	}
	return nil
}
