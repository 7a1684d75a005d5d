package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagWorkspace = flag.String("workspace", "", "Root directory that package:// paths resolve against")
	flagWatch     = flag.Bool("watch", false, "Reload the preview when the description is saved")
	flagState     = flag.String("state", "", "File the last loaded model is persisted to")
	flagLoads     = flag.Int("loads", 0, "Maximum concurrent mesh loads")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWorkspace != "" {
		cfg.Assets.WorkspaceRoot = *flagWorkspace
	}
	if *flagWatch {
		cfg.Preview.Watch = true
	}
	if *flagState != "" {
		cfg.Preview.StateFile = *flagState
	}
	if *flagLoads > 0 {
		cfg.Assets.MaxConcurrentLoads = *flagLoads
	}
}
