package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string

	EngineURL            string
	EngineAPIKey         string
	EngineTimeoutSeconds int

	TaskMaxRetries   int
	SystemAuthSecret string

	FiltersFile string
	Filters     FilterDefaults
}

// FilterDefaults are deployment-wide filter additions loaded from an
// optional YAML file. They extend the built-in sets, never replace them.
type FilterDefaults struct {
	SocialDomains     []string `yaml:"social_domains"`
	BlockedExtensions []string `yaml:"blocked_extensions"`
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Load() Config {
	cfg := Config{
		AppEnv:        getenv("APP_ENV", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8082"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		EngineURL:            getenv("ENGINE_URL", "http://127.0.0.1:8081"),
		EngineAPIKey:         os.Getenv("ENGINE_API_KEY"),
		EngineTimeoutSeconds: getenvInt("ENGINE_TIMEOUT_SECONDS", 120),

		TaskMaxRetries:   getenvInt("TASK_MAX_RETRIES", 3),
		SystemAuthSecret: os.Getenv("SYSTEM_AUTH_SECRET"),

		FiltersFile: os.Getenv("FILTERS_FILE"),
	}
	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	if cfg.FiltersFile != "" {
		f, err := LoadFilters(cfg.FiltersFile)
		if err != nil {
			panic(fmt.Errorf("filters file %s: %w", cfg.FiltersFile, err))
		}
		cfg.Filters = f
	}
	return cfg
}

// LoadFilters reads a FilterDefaults YAML file.
func LoadFilters(path string) (FilterDefaults, error) {
	var f FilterDefaults
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, err
	}
	return f, nil
}
