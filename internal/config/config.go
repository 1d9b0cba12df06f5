package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
)

// Environment variable names
const (
	EnvUsername  = "TAPO_USERNAME"
	EnvPassword  = "TAPO_PASSWORD"
	EnvIPAddress = "TAPO_IP_ADDRESS"
	EnvDriver    = "TAPO_DRIVER"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	quadPattern  = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
)

// Config holds the validated account credentials and hub address
type Config struct {
	Username  string
	Password  string
	IPAddress string
	// Driver names the registered device-control driver, empty for the default
	Driver string

	// Sources records where each variable was resolved from
	Sources map[string]Source
}

// Options controls where Load looks for values. Zero values select the defaults.
type Options struct {
	// LookupEnv reads the shell environment (default os.LookupEnv)
	LookupEnv func(string) (string, bool)
	// UserConfigPath overrides the user config file location
	UserConfigPath string
	// ProjectEnvPath overrides the project .env location (default ./.env)
	ProjectEnvPath string
	// SkipFiles ignores both files and reads the shell environment only
	SkipFiles bool
}

// Load resolves every variable by precedence and validates the result
func Load(opts Options) (*Config, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var userValues, projectValues map[string]string
	if !opts.SkipFiles {
		userPath := opts.UserConfigPath
		if userPath == "" {
			if p, err := GetConfigPath(); err == nil {
				userPath = p
			}
		}

		var err error
		userValues, err = readUserFile(userPath)
		if err != nil {
			return nil, apperr.NewConfigurationError("config file", err.Error(), "")
		}

		projectPath := opts.ProjectEnvPath
		if projectPath == "" {
			projectPath = projectEnvFile
		}
		projectValues, err = readProjectEnv(projectPath)
		if err != nil {
			return nil, apperr.NewConfigurationError(".env", err.Error(), "")
		}
	}

	cfg := &Config{Sources: make(map[string]Source)}
	resolve := func(name string) string {
		if v, ok := lookup(name); ok && v != "" {
			cfg.Sources[name] = SourceShell
			return v
		}
		if v := userValues[name]; v != "" {
			cfg.Sources[name] = SourceUserFile
			return v
		}
		if v := projectValues[name]; v != "" {
			cfg.Sources[name] = SourceProjectFile
			return v
		}
		cfg.Sources[name] = SourceNone
		return ""
	}

	cfg.Username = resolve(EnvUsername)
	cfg.Password = resolve(EnvPassword)
	cfg.IPAddress = resolve(EnvIPAddress)
	cfg.Driver = resolve(EnvDriver)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for missing variables, then the username, then the IP address
func (c *Config) Validate() error {
	var missing []string
	if c.Username == "" {
		missing = append(missing, EnvUsername)
	}
	if c.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if c.IPAddress == "" {
		missing = append(missing, EnvIPAddress)
	}
	if len(missing) > 0 {
		return apperr.NewConfigurationError(
			strings.Join(missing, ", "),
			"Missing required environment variables: "+strings.Join(missing, ", "),
			exampleFor(missing[0]),
		)
	}

	if !IsValidEmail(c.Username) {
		return apperr.NewConfigurationError(EnvUsername,
			fmt.Sprintf("%s must be a valid email address", EnvUsername),
			exampleFor(EnvUsername))
	}

	if !IsValidIPAddress(c.IPAddress) {
		return apperr.NewConfigurationError(EnvIPAddress,
			fmt.Sprintf("%s must be a valid IPv4 address (got %q)", EnvIPAddress, c.IPAddress),
			exampleFor(EnvIPAddress))
	}

	return nil
}

// IsValidEmail reports whether s looks like an account email address
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidIPAddress reports whether s is a dotted quad with every octet in 0-255
func IsValidIPAddress(s string) bool {
	if !quadPattern.MatchString(s) {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// Masked returns a copy safe for display, with the password hidden
func (c *Config) Masked() Config {
	masked := *c
	if masked.Password != "" {
		masked.Password = strings.Repeat("*", 8)
	}
	return masked
}

// SaveUserConfig writes the configuration to the user config file atomically
func SaveUserConfig(path string, c *Config) error {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(&UserFile{
		Version:   1,
		Username:  c.Username,
		Password:  c.Password,
		IPAddress: c.IPAddress,
		Driver:    c.Driver,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename config file: %w", err)
	}

	return nil
}

func exampleFor(name string) string {
	switch name {
	case EnvUsername:
		return "export TAPO_USERNAME=you@example.com"
	case EnvPassword:
		return "export TAPO_PASSWORD=your-password"
	case EnvIPAddress:
		return "export TAPO_IP_ADDRESS=192.168.1.100"
	}
	return ""
}
