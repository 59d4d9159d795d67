package ratelimit

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds ingest rate limit settings. A zero Limit disables
// throttling.
type Config struct {
	Limit         int    `yaml:"limit"`          // Allowed events per second per member.
	RedisEnabled  bool   `yaml:"redis-enabled"`  // Use Redis instead of the in-memory window.
	RedisAddr     string `yaml:"redis-addr"`     // Redis host:port.
	RedisPassword string `yaml:"redis-password"` // Redis password, empty for none.
	RedisPrefix   string `yaml:"redis-prefix"`   // Key prefix, defaults to corpreport.
	RedisDB       int    `yaml:"redis-db"`       // Redis logical database.
}

const defaultRedisPrefix = "corpreport"

// LoadConfig reads ingest rate limit settings from the YAML config
// file. A missing or malformed file disables throttling.
func LoadConfig(configPath string) Config {
	type fileConfig struct {
		IngestRateLimit Config `yaml:"ingest-rate-limit"`
	}

	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		return Config{}
	}
	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return Config{}
	}

	result := cfg.IngestRateLimit
	if result.Limit < 0 {
		result.Limit = 0
	}
	if result.RedisDB < 0 {
		result.RedisDB = 0
	}
	if strings.TrimSpace(result.RedisPrefix) == "" {
		result.RedisPrefix = defaultRedisPrefix
	}
	return result
}
