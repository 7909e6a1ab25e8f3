package config

import (
	"os"
	"strconv"
	"time"
)

// applyEnv overrides cfg with values from the environment.
// Unset or unparsable variables leave the current value in place.
func applyEnv(cfg *Config) {
	if token := os.Getenv("HCLOUD_TOKEN"); token != "" {
		cfg.HCloudToken = token
	}
	if path := os.Getenv("TALOSCONFIG"); path != "" {
		cfg.Talosconfig = path
	}

	applyProfileEnv("IMAGE_COPY", &cfg.Profiles.ImageCopy)
	applyProfileEnv("DELETION", &cfg.Profiles.Deletion)
	applyProfileEnv("HOST_TEMPLATE", &cfg.Profiles.HostTemplate)
	applyProfileEnv("NODE_HEALTH", &cfg.Profiles.NodeHealth)

	cfg.Retry.MaxAttempts = parseInt("OPWATCH_RETRY_MAX_ATTEMPTS", cfg.Retry.MaxAttempts)
	cfg.Retry.InitialDelay = parseDuration("OPWATCH_RETRY_INITIAL_DELAY", cfg.Retry.InitialDelay)
}

func applyProfileEnv(op string, p *Profile) {
	p.Timeout = parseDuration("OPWATCH_"+op+"_TIMEOUT", p.Timeout)
	p.Sleep = parseDuration("OPWATCH_"+op+"_SLEEP", p.Sleep)
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
