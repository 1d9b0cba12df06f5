package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source identifies where a configuration value came from
type Source int

const (
	SourceNone Source = iota
	SourceShell
	SourceUserFile
	SourceProjectFile
)

// String returns a short description of the source
func (s Source) String() string {
	switch s {
	case SourceShell:
		return "environment"
	case SourceUserFile:
		return "user config"
	case SourceProjectFile:
		return ".env"
	default:
		return "unset"
	}
}

// UserFile is the on-disk shape of the user configuration file
type UserFile struct {
	Version   int    `yaml:"version"`
	Username  string `yaml:"username,omitempty"`
	Password  string `yaml:"password,omitempty"`
	IPAddress string `yaml:"ip_address,omitempty"`
	Driver    string `yaml:"driver,omitempty"`
}

// values maps environment variable names to their configured value
func (u *UserFile) values() map[string]string {
	return map[string]string{
		EnvUsername:  u.Username,
		EnvPassword:  u.Password,
		EnvIPAddress: u.IPAddress,
		EnvDriver:    u.Driver,
	}
}

// readUserFile parses the YAML user configuration. A missing file is not an error.
func readUserFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file UserFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.Version != 0 && file.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", file.Version)
	}

	return file.values(), nil
}

// readProjectEnv parses a dotenv file without touching the process environment.
// A missing file is not an error.
func readProjectEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return values, nil
}
