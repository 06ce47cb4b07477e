// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Server   ServerConfig   `toml:"server"`
}

// PracticeConfig maps play client settings. Nil means unset.
type PracticeConfig struct {
	Profile    *string `toml:"profile"`
	Mode       *string `toml:"mode"`
	Category   *string `toml:"category"`
	Difficulty *string `toml:"difficulty"`
	TimeLimit  *int    `toml:"time-limit"`
	Prompts    *string `toml:"prompts"`
	DB         *string `toml:"db"`
	Timezone   *string `toml:"timezone"`
}

// ServerConfig maps API server settings. Nil means unset.
type ServerConfig struct {
	Addr           *string  `toml:"addr"`
	Driver         *string  `toml:"driver"`
	DSN            *string  `toml:"dsn"`
	RedisAddr      *string  `toml:"redis-addr"`
	RedisPassword  *string  `toml:"redis-password"`
	Timezone       *string  `toml:"timezone"`
	LogLevel       *string  `toml:"log-level"`
	RateLimitRPS   *int     `toml:"rate-limit-rps"`
	RateLimitBurst *int     `toml:"rate-limit-burst"`
	CORSOrigins    []string `toml:"cors-origins"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays TYPEQUEST_* environment variables onto the server table.
// lookup is usually os.LookupEnv.
func (c *ServerConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]**string{
		"TYPEQUEST_ADDR":           &c.Addr,
		"TYPEQUEST_DRIVER":         &c.Driver,
		"TYPEQUEST_DSN":            &c.DSN,
		"TYPEQUEST_REDIS_ADDR":     &c.RedisAddr,
		"TYPEQUEST_REDIS_PASSWORD": &c.RedisPassword,
		"TYPEQUEST_TIMEZONE":       &c.Timezone,
		"TYPEQUEST_LOG_LEVEL":      &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			val := v
			*dst = &val
		}
	}
	ints := map[string]**int{
		"TYPEQUEST_RATE_LIMIT_RPS":   &c.RateLimitRPS,
		"TYPEQUEST_RATE_LIMIT_BURST": &c.RateLimitBurst,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer", key)
		}
		*dst = &n
	}
	if v, ok := lookup("TYPEQUEST_CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORSOrigins = append(c.CORSOrigins, origin)
			}
		}
	}
	return nil
}
