package main

import (
	"flag"

	"github.com/jroosing/fqdnfilter/internal/config"
)

func flagSet(f *cliFlags) {
	flag.StringVar(&f.configPath, "config", "", "Path to YAML configuration file")
	flag.StringVar(&f.address, "address", "", "Override UDP bind address")
	flag.IntVar(&f.port, "port", 0, "Override UDP bind port")
	flag.BoolVar(&f.debug, "debug", false, "Force debug logging regardless of configured level")
	flag.Parse()
}

// applyCLIOverrides layers command-line flags on top of the loaded
// config: flags always win, and a zero/empty flag value means "not set".
func applyCLIOverrides(cfg *config.Config, f cliFlags) {
	if f.address != "" {
		cfg.Server.Address = f.address
	}
	if f.port != 0 {
		cfg.Server.Port = f.port
	}
	if f.debug {
		cfg.General.LogLevel = "debug"
	}
}
