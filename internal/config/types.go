// Package config loads the filter's layered configuration: hardcoded
// defaults, overridden by a YAML file, overridden by FQDNFILTER_*
// environment variables, overridden by command-line flags.
package config

// Config is the full configuration surface, decoded from YAML/env/flags
// via viper and validated by Load.
type Config struct {
	General GeneralConfig `yaml:"general" mapstructure:"general"`
	Server  ServerConfig  `yaml:"server"  mapstructure:"server"`
	Status  StatusConfig  `yaml:"status"  mapstructure:"status"`
	Audit   AuditConfig   `yaml:"audit"   mapstructure:"audit"`
}

// GeneralConfig holds the logging/list surface named in the module's
// external interface contract.
type GeneralConfig struct {
	LogLevel          string `yaml:"loglevel"            mapstructure:"loglevel"`
	LogDir            string `yaml:"log_dir"             mapstructure:"log_dir"`
	OutputAllowedLog  bool   `yaml:"output_allowed_log"  mapstructure:"output_allowed_log"`
	OutputNoCheckLog  bool   `yaml:"output_nochecked_log" mapstructure:"output_nochecked_log"`
	AllowList         string `yaml:"allowlist"           mapstructure:"allowlist"`
	DenyList          string `yaml:"denylist"            mapstructure:"denylist"`
}

// ServerConfig holds the UDP data-plane endpoint and upstream address.
type ServerConfig struct {
	Address          string `yaml:"address"            mapstructure:"address"`
	Port             int    `yaml:"port"               mapstructure:"port"`
	DefaultDNSServer string `yaml:"default_dns_server" mapstructure:"default_dns_server"`
}

// StatusConfig gates the read-only diagnostics HTTP endpoint. Off by
// default; loopback-only when enabled.
type StatusConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Address string `yaml:"address" mapstructure:"address"`
	Port    int    `yaml:"port"    mapstructure:"port"`
}

// AuditConfig gates the SQLite-backed event history. Off by default.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path"    mapstructure:"path"`
}

// validLogLevels enumerates the five named levels the general section
// accepts.
var validLogLevels = map[string]bool{
	"error": true,
	"warn":  true,
	"info":  true,
	"debug": true,
	"trace": true,
}
