// Package config loads the opwatch CLI configuration.
//
// A YAML file provides the Hetzner token, the talosconfig path, SSH settings
// and one polling profile per observed operation. Environment variables
// override individual values so the CLI can run without a file:
//
//   - HCLOUD_TOKEN
//   - OPWATCH_<OP>_TIMEOUT and OPWATCH_<OP>_SLEEP, where OP is one of
//     IMAGE_COPY, DELETION, HOST_TEMPLATE, NODE_HEALTH
//   - OPWATCH_RETRY_MAX_ATTEMPTS and OPWATCH_RETRY_INITIAL_DELAY
//
// The polling and health packages take no configuration themselves; the CLI
// converts the loaded profiles into polling.Config values.
package config
