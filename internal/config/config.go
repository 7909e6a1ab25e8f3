package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/imamik/opwatch/internal/polling"
	"github.com/imamik/opwatch/internal/util/retry"
)

// Config is the CLI configuration.
type Config struct {
	HCloudToken string   `yaml:"hcloudToken" mapstructure:"hcloudToken"`
	Talosconfig string   `yaml:"talosconfig" mapstructure:"talosconfig"`
	SSH         SSH      `yaml:"ssh" mapstructure:"ssh"`
	Profiles    Profiles `yaml:"profiles" mapstructure:"profiles"`
	Retry       Retry    `yaml:"retry" mapstructure:"retry"`
	// Concurrency bounds parallel node probes. Zero probes all nodes at once.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// SSH configures the legacy connectivity probe.
type SSH struct {
	User    string `yaml:"user" mapstructure:"user"`
	Port    int    `yaml:"port" mapstructure:"port"`
	KeyFile string `yaml:"keyFile" mapstructure:"keyFile"`
	// Command is run on each node and must print the conncheck messages.
	Command string `yaml:"command" mapstructure:"command"`
}

// Profile holds the polling settings of one operation.
type Profile struct {
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Sleep            time.Duration `yaml:"sleep" mapstructure:"sleep"`
	StopOnProbeError bool          `yaml:"stopOnProbeError" mapstructure:"stopOnProbeError"`
}

// Polling converts p into a polling configuration.
func (p Profile) Polling() polling.Config {
	return polling.Config{
		Timeout:          p.Timeout,
		SleepInterval:    p.Sleep,
		StopOnProbeError: p.StopOnProbeError,
	}
}

// Profiles groups the polling profiles per operation.
type Profiles struct {
	ImageCopy    Profile `yaml:"imageCopy" mapstructure:"imageCopy"`
	Deletion     Profile `yaml:"deletion" mapstructure:"deletion"`
	HostTemplate Profile `yaml:"hostTemplate" mapstructure:"hostTemplate"`
	NodeHealth   Profile `yaml:"nodeHealth" mapstructure:"nodeHealth"`
}

// Retry configures the retry wrapper around single node probes.
type Retry struct {
	// MaxAttempts is the total number of calls, including the first one.
	MaxAttempts  int           `yaml:"maxAttempts" mapstructure:"maxAttempts"`
	InitialDelay time.Duration `yaml:"initialDelay" mapstructure:"initialDelay"`
}

// Retries is the number of calls allowed after the first one.
func (r Retry) Retries() int {
	return max(r.MaxAttempts-1, 0)
}

// Options converts r into retry options.
func (r Retry) Options() []retry.Option {
	return []retry.Option{
		retry.WithMaxRetries(r.Retries()),
		retry.WithInitialDelay(r.InitialDelay),
	}
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		SSH: SSH{
			User:    "root",
			Port:    22,
			Command: "conncheck",
		},
		Profiles: Profiles{
			ImageCopy:    Profile{Timeout: 60 * time.Minute, Sleep: 10 * time.Second},
			Deletion:     Profile{Timeout: 30 * time.Minute, Sleep: 10 * time.Second},
			HostTemplate: Profile{Timeout: 30 * time.Minute, Sleep: 5 * time.Second},
			NodeHealth:   Profile{Timeout: 10 * time.Minute, Sleep: 10 * time.Second},
		},
		Retry: Retry{
			MaxAttempts:  3,
			InitialDelay: time.Second,
		},
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	var errs []error
	for name, p := range map[string]Profile{
		"imageCopy":    c.Profiles.ImageCopy,
		"deletion":     c.Profiles.Deletion,
		"hostTemplate": c.Profiles.HostTemplate,
		"nodeHealth":   c.Profiles.NodeHealth,
	} {
		if err := p.Polling().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("profile %s: %w", name, err))
		}
	}
	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("retry.maxAttempts must not be negative, got %d", c.Retry.MaxAttempts))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if c.SSH.Port <= 0 || c.SSH.Port > 65535 {
		errs = append(errs, fmt.Errorf("ssh.port out of range: %d", c.SSH.Port))
	}
	return errors.Join(errs...)
}
