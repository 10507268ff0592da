package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	path = "infra/config"

	DirEnv     = "EDU_CONFIG_DIR"
	ProfileEnv = "CLUSTER_PROFILE"

	DefaultProfile = "internet"
	CompareKey     = "compare"
)

var ConfigErr = errors.New("invalid config")

// Prefixed is a config that can be overridden from the environment.
type Prefixed interface {
	EnvPrefix() string
}

// Dir is the directory the config files are read from.
func Dir() string {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir
	}
	return path
}

// Profile is the cluster profile to run.
func Profile() string {
	if p := os.Getenv(ProfileEnv); p != "" {
		return p
	}
	return DefaultProfile
}

// Load loads the config for the given key on top of the values already in v.
// A missing file keeps them as they are.
func Load(key string, v interface{}) error {
	file := filepath.Join(Dir(), fmt.Sprintf("%s.yaml", key))
	b, err := os.ReadFile(file)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warn().Str("file", file).Msg("config file not found, using defaults")
	case err != nil:
		return fmt.Errorf("could not read config '%s': %s: %w", file, err.Error(), ConfigErr)
	default:
		if err := yaml.Unmarshal(b, v); err != nil {
			return fmt.Errorf("could not unmarshal config '%s': %s: %w", file, err.Error(), ConfigErr)
		}
	}

	if p, ok := v.(Prefixed); ok {
		if err := envconfig.Process(p.EnvPrefix(), v); err != nil {
			return fmt.Errorf("could not apply env for '%s': %s: %w", key, err.Error(), ConfigErr)
		}
	}

	if err := validator.New().Struct(v); err != nil {
		return fmt.Errorf("could not validate config '%s': %s: %w", key, err.Error(), ConfigErr)
	}

	log.Info().Str("config", key).Str("file", file).Msg("loaded config")
	return nil
}
