// Package config loads the service's environment-derived settings. API keys
// are deliberately not modeled here: spec.md §1 treats API-key admission as
// an external collaborator. The store's connection settings, including its
// password, are loaded here.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the core's environment configuration: the threshold-mode
// party count and signing threshold (spec.md §6), plus the Redis
// connection settings of the Share Store.
type Config struct {
	MPCNodes     int
	MPCThreshold int

	RedisAddress  string
	RedisPassword string
	RedisDB       int
}

// Load reads MPC_NODES, MPC_THRESHOLD, and the Redis connection settings
// from the environment, applying spec.md §6's defaults (nodes=3,
// threshold=2) and validating 2 <= threshold <= nodes.
func Load() (Config, error) {
	nodes, err := intEnv("MPC_NODES", 3)
	if err != nil {
		return Config{}, err
	}
	threshold, err := intEnv("MPC_THRESHOLD", 2)
	if err != nil {
		return Config{}, err
	}
	if threshold < 2 || threshold > nodes {
		return Config{}, fmt.Errorf("config: MPC_THRESHOLD must satisfy 2 <= threshold <= nodes (got threshold=%d, nodes=%d)", threshold, nodes)
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}

	return Config{
		MPCNodes:      nodes,
		MPCThreshold:  threshold,
		RedisAddress:  stringEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: stringEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
	}, nil
}

func intEnv(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func stringEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
