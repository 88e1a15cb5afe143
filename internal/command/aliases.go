package command

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultAliases returns the built-in verb shorthands.
func DefaultAliases() map[string]string {
	return map[string]string{
		"inv":   "invite",
		"admin": "promote",
	}
}

// LoadAliases reads a YAML file mapping shorthand verbs to canonical ones
// and merges it over the defaults, so operators can extend or override the
// built-ins. A missing file is not an error.
func LoadAliases(path string, logger *slog.Logger) (map[string]string, error) {
	aliases := DefaultAliases()
	if path == "" {
		return aliases, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("alias file does not exist, using defaults", "path", path)
			return aliases, nil
		}
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var custom map[string]string
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}

	for alias, verb := range custom {
		aliases[alias] = verb
	}
	logger.Info("loaded command aliases", "path", path, "count", len(custom))
	return aliases, nil
}
