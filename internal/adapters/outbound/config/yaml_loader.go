package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/renewalops/renewguard/internal/domain"
)

const fileName = ".renewguard.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .renewguard.yaml,
// which carries per-tenant candidate-field overrides and rule tunables.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .renewguard.yaml from dir. Returns the stock defaults if the
// file does not exist; explicit overrides are merged over the defaults.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, err
	}

	var override domain.Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	// Validate the raw override first so typos surface with the user's own
	// keys, before defaults mask them.
	if err := override.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return domain.DefaultConfig().Merge(override), nil
}
