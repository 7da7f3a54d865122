package config

const (
	defaultConfigPath  = "~/.config/logsetup/config.toml"
	projectConfigName  = "logsetup.toml"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	defaultTagRun      = false
	defaultJournalPrio = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:           defaultLogLevel,
			Format:          defaultLogFormat,
			TagRun:          defaultTagRun,
			JournalPriority: defaultJournalPrio,
		},
	}
}
