package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/pqm"
)

// configFlags maps config keys to the experiment flags that override them.
var configFlags = map[string]string{
	"memory_size":    "memory-size",
	"control_size":   "control",
	"shots":          "shots",
	"scale":          "scale",
	"inputs":         "inputs",
	"init":           "init",
	"seed":           "seed",
	"concurrency":    "concurrency",
	"job_timeout":    "job-timeout",
	"retry_attempts": "retry-attempts",
	"retry_backoff":  "retry-backoff",
	"job_interval":   "job-interval",
}

/*
loadConfig resolves the experiment configuration from, in rising priority,
the defaults, the config file, PQM_ environment variables and the flags
that were set on the command line.
*/
func loadConfig(cmd *cobra.Command) (*pqm.Config, error) {
	cfg := pqm.NewConfig()

	v := viper.New()
	v.SetDefault("memory_size", cfg.MemorySize)
	v.SetDefault("control_size", cfg.ControlSize)
	v.SetDefault("shots", cfg.Shots)
	v.SetDefault("scale", cfg.Scale)
	v.SetDefault("inputs", cfg.Inputs)
	v.SetDefault("init", cfg.Init)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("concurrency", cfg.Concurrency)
	v.SetDefault("job_timeout", cfg.JobTimeout)
	v.SetDefault("retry_attempts", cfg.RetryAttempts)
	v.SetDefault("retry_backoff", cfg.RetryBackoff)
	v.SetDefault("job_interval", cfg.JobInterval)

	v.SetEnvPrefix("PQM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, name := range configFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
