package config

import "fmt"

// Validate ensures the configuration is usable. Filter syntax is checked by
// the logging package when the logger is built.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
