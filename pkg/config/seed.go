package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedWallet is a wallet entry in the seed file
type SeedWallet struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// SeedCategory is a category entry in the seed file
type SeedCategory struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// SeedUser is a user entry in the seed file
type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// SeedConfig holds the master data loaded by `warungctl seed`
type SeedConfig struct {
	Wallets    []SeedWallet   `yaml:"wallets"`
	Categories []SeedCategory `yaml:"categories"`
	Users      []SeedUser     `yaml:"users"`
}

// LoadSeedConfig loads seed data from a YAML file
func LoadSeedConfig(path string) (*SeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return ParseSeedConfig(data)
}

// ParseSeedConfig parses seed data from YAML bytes
func ParseSeedConfig(data []byte) (*SeedConfig, error) {
	var cfg SeedConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the seed configuration
func (c *SeedConfig) Validate() error {
	names := make(map[string]bool, len(c.Wallets))
	for i, w := range c.Wallets {
		if strings.TrimSpace(w.Name) == "" {
			return fmt.Errorf("wallets[%d]: name is required", i)
		}
		key := strings.ToLower(w.Name)
		if names[key] {
			return fmt.Errorf("wallets[%d]: duplicate wallet name %q", i, w.Name)
		}
		names[key] = true

		switch strings.ToUpper(w.Kind) {
		case "PHYSICAL", "DIGITAL":
		default:
			return fmt.Errorf("wallets[%d]: kind must be PHYSICAL or DIGITAL", i)
		}
	}

	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" || strings.TrimSpace(cat.Type) == "" {
			return fmt.Errorf("categories[%d]: type and name are required", i)
		}
	}

	for i, u := range c.Users {
		if u.Username == "" || u.Password == "" {
			return fmt.Errorf("users[%d]: username and password are required", i)
		}
	}

	return nil
}
