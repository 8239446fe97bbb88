// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for run and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// RUN CONFIGURATION
// =============================================================================

// RunConfig holds the settings a new simulation run starts from.
type RunConfig struct {
	Seed        uint64
	StartWeapon int32 // sim.WeaponID; kept as int32 here to avoid an import cycle
	TickRate    int   // Advance() calls per second the driver loop targets
}

// DefaultRun returns the default run configuration.
func DefaultRun() RunConfig {
	return RunConfig{
		Seed:        1,
		StartWeapon: 0, // WeaponFists
		TickRate:    60,
	}
}

// RunFromEnv returns run configuration with environment variable overrides.
func RunFromEnv() RunConfig {
	cfg := DefaultRun()

	if s := getEnvInt("RUN_SEED", 0); s > 0 {
		cfg.Seed = uint64(s)
	}
	if w := getEnvInt("RUN_START_WEAPON", -1); w >= 0 {
		cfg.StartWeapon = int32(w)
	}
	if tr := getEnvInt("RUN_TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP debug/state server settings.
type ServerConfig struct {
	Addr           string   // public state/render API
	DebugAddr      string   // MUST stay loopback-only, carries /metrics and pprof
	AllowedOrigins []string // CORS + WebSocket origin allow-list
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr:           ":8088",
		DebugAddr:      "127.0.0.1:6060",
		AllowedOrigins: []string{"http://localhost:8088"},
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if addr := os.Getenv("DEBUGSERVER_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if debugAddr := os.Getenv("DEBUGSERVER_DEBUG_ADDR"); debugAddr != "" {
		cfg.DebugAddr = debugAddr
	}
	if origins := os.Getenv("DEBUGSERVER_CORS_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitCSV(origins)
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Run    RunConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Run:    RunFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitCSV(v string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				out = append(out, v[start:i])
			}
			start = i + 1
		}
	}
	return out
}
