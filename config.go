package pqm

import (
	"math"
	"time"
)

// Initialization methods understood by the experiment runner.
const (
	InitManual    = "manual"
	InitAmplitude = "amplitude"
)

/*
Config describes one experiment sweep. Everything a sweep needs is carried
here explicitly; the memory and the oracle read no configuration of their
own.
*/
type Config struct {
	MemorySize    int           `mapstructure:"memory_size"`
	ControlSize   int           `mapstructure:"control_size"`
	Shots         int           `mapstructure:"shots"`
	Scale         float64       `mapstructure:"scale"`
	Inputs        []int         `mapstructure:"inputs"`
	Init          string        `mapstructure:"init"`
	Seed          int64         `mapstructure:"seed"`
	Concurrency   int           `mapstructure:"concurrency"`
	JobTimeout    time.Duration `mapstructure:"job_timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
	JobInterval   time.Duration `mapstructure:"job_interval"`
}

func NewConfig() *Config {
	return &Config{
		MemorySize:    2,
		ControlSize:   1,
		Shots:         8192,
		Scale:         1,
		Init:          InitManual,
		Seed:          1,
		Concurrency:   4,
		JobTimeout:    30 * time.Second,
		RetryAttempts: 3,
		RetryBackoff:  100 * time.Millisecond,
	}
}

// Validate reports the first field outside its domain.
func (c *Config) Validate() error {
	switch {
	case c.MemorySize < 1:
		return &InvalidParameterError{Name: "memory_size", Value: c.MemorySize}
	case c.ControlSize < 1:
		return &InvalidParameterError{Name: "control_size", Value: c.ControlSize}
	case c.Shots < 1:
		return &InvalidParameterError{Name: "shots", Value: c.Shots}
	case c.Scale <= 0 || math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0):
		return &InvalidParameterError{Name: "scale", Value: c.Scale}
	case c.Init != InitManual && c.Init != InitAmplitude:
		return &InvalidParameterError{Name: "init", Value: c.Init}
	case c.Concurrency < 1:
		return &InvalidParameterError{Name: "concurrency", Value: c.Concurrency}
	case c.JobTimeout < 0:
		return &InvalidParameterError{Name: "job_timeout", Value: c.JobTimeout}
	case c.RetryAttempts < 1:
		return &InvalidParameterError{Name: "retry_attempts", Value: c.RetryAttempts}
	case c.JobInterval < 0:
		return &InvalidParameterError{Name: "job_interval", Value: c.JobInterval}
	}

	for _, in := range c.Inputs {
		if in < 0 || in >= 1<<c.MemorySize {
			return &InvalidParameterError{Name: "input", Value: in}
		}
	}

	return nil
}
