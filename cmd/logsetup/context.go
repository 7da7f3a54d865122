package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"logsetup/internal/config"
	"logsetup/internal/logging"
)

type commandContext struct {
	configFlag *string
	levelFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, levelFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		levelFlag:  levelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// loggerOptions merges the loaded config with the --level flag.
func (c *commandContext) loggerOptions() (logging.Options, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.Options{}, err
	}
	opts := logging.OptionsFromConfig(cfg)
	if c.levelFlag != nil {
		if level := strings.TrimSpace(*c.levelFlag); level != "" {
			opts.DefaultLevel = level
		}
	}
	return opts, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
