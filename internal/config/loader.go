package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Path finds --config in args, kingpin has not parsed them yet when the file is needed
func Path(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, "--config=") {
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}

// Load returns the defaults overlaid with a config file.
// Search order: customPath -> ~/.eotj/config.toml -> ~/.eotj/config.yaml -> defaults
func Load(customPath string) (*Config, error) {
	cfg := Default()

	if customPath != "" {
		if err := loadFile(customPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	for _, name := range []string{"config.toml", "config.yaml"} {
		p := userConfigPath(name)
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := loadFile(p, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unknown config format %q", filepath.Ext(path))
	}
	return nil
}

func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".eotj", filename)
}

// ExpandHome replaces a leading ~ with the home directory
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
