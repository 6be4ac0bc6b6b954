package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration with viper: hardcoded defaults, overridden by
// the YAML file at configPath (if non-empty), overridden by FQDNFILTER_*
// environment variables. Command-line flag overrides are applied by the
// caller afterward (see cmd/fqdnfilterd). Returns an error suitable for a
// fatal, exit-code-1 startup failure.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FQDNFILTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	cfg := &Config{}
	cfg.General.LogLevel = strings.ToLower(v.GetString("general.loglevel"))
	cfg.General.LogDir = v.GetString("general.log_dir")
	cfg.General.OutputAllowedLog = v.GetBool("general.output_allowed_log")
	cfg.General.OutputNoCheckLog = v.GetBool("general.output_nochecked_log")
	cfg.General.AllowList = v.GetString("general.allowlist")
	cfg.General.DenyList = v.GetString("general.denylist")

	cfg.Server.Address = v.GetString("server.address")
	cfg.Server.Port = v.GetInt("server.port")
	cfg.Server.DefaultDNSServer = v.GetString("server.default_dns_server")

	cfg.Status.Enabled = v.GetBool("status.enabled")
	cfg.Status.Address = v.GetString("status.address")
	cfg.Status.Port = v.GetInt("status.port")

	cfg.Audit.Enabled = v.GetBool("audit.enabled")
	cfg.Audit.Path = v.GetString("audit.path")

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.loglevel", "info")
	v.SetDefault("general.log_dir", "")
	v.SetDefault("general.output_allowed_log", true)
	v.SetDefault("general.output_nochecked_log", false)
	v.SetDefault("general.allowlist", "")
	v.SetDefault("general.denylist", "")

	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 53)
	v.SetDefault("server.default_dns_server", "8.8.8.8")

	v.SetDefault("status.enabled", false)
	v.SetDefault("status.address", "127.0.0.1")
	v.SetDefault("status.port", 8080)

	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.path", "fqdnfilter-audit.db")
}

// validate checks the invariants named in the module's external
// interfaces: valid port ranges, parseable addresses, and a recognized
// log level.
func validate(cfg *Config) error {
	if !validLogLevels[cfg.General.LogLevel] {
		return fmt.Errorf("config: general.loglevel %q is not one of error/warn/info/debug/trace", cfg.General.LogLevel)
	}
	if err := validatePort(cfg.Server.Port); err != nil {
		return fmt.Errorf("config: server.port: %w", err)
	}
	if net.ParseIP(cfg.Server.DefaultDNSServer) == nil {
		return fmt.Errorf("config: server.default_dns_server %q is not a valid IPv4 address", cfg.Server.DefaultDNSServer)
	}
	if cfg.Server.Address != "" && net.ParseIP(cfg.Server.Address) == nil {
		return fmt.Errorf("config: server.address %q is not a valid IP address", cfg.Server.Address)
	}
	if cfg.Status.Enabled {
		if err := validatePort(cfg.Status.Port); err != nil {
			return fmt.Errorf("config: status.port: %w", err)
		}
	}
	return nil
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%d must be 1..65535", port)
	}
	return nil
}
