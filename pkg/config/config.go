package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

var (
	envFile string
	envOnce sync.Once
)

// MustNew loads T from the environment (optionally seeded from an env file)
// and panics on failure. Process bootstrap only.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// New loads T from the environment. If -env points at a file, that file is
// loaded first; otherwise ./.env is used when present. Values already set in
// the process environment always win over file values.
func New[T any](prefix string) (*T, error) {
	if path := envFilePath(); path != "" {
		if err := loadEnvFile(path); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	} else if err := loadEnvFileIfPresent(defaultEnvFile); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", defaultEnvFile, err)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, fmt.Errorf("config: process prefix %q: %w", prefix, err)
	}
	return &conf, nil
}

func envFilePath() string {
	envOnce.Do(func() {
		if flag.Lookup("env") == nil {
			flag.StringVar(&envFile, "env", "", "path to an env file")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	return strings.TrimSpace(envFile)
}

func loadEnvFileIfPresent(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return loadEnvFile(path)
}

func loadEnvFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for key, value := range v.AllSettings() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}
