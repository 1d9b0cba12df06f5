// Package config loads and validates the tapo-chatter credentials and hub address.
//
// Three sources are consulted for every variable independently, in precedence
// order:
//
//  1. The shell environment (TAPO_USERNAME, TAPO_PASSWORD, TAPO_IP_ADDRESS, TAPO_DRIVER)
//  2. The user configuration file, config.yaml in the user config directory
//  3. A project-local .env file in the working directory
//
// # Configuration File Location
//
// The user configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/tapo-chatter/config.yaml or $HOME/.config/tapo-chatter/config.yaml
//   - macOS: $HOME/.config/tapo-chatter/config.yaml
//   - Windows: %LOCALAPPDATA%\tapo-chatter\config.yaml
//
// Example:
//
//	version: 1
//	username: you@example.com
//	password: secret
//	ip_address: 192.168.1.100
//
// # Validation
//
// Load fails with an apperr configuration error, before any network activity,
// when a required variable is missing, the username is not an email address or
// the IP address is not a dotted quad with octets in 0-255.
package config
