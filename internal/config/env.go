package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env
// file in the working directory is loaded first; existing environment
// variables win over the file, which is godotenv's default behavior.
//
// Recognized variables:
//
//	FOXLIST_DATA_DIR      — data directory
//	FOXLIST_BACKEND       — "sqlite" or "file"
//	FOXLIST_DB_FILE       — SQLite database file name
//	FOXLIST_TASKS_FILE    — tasks blob file name
//	FOXLIST_USERS_FILE    — credentials key-value file name
//	FOXLIST_HASH_SECRETS  — "true"/"1" to bcrypt stored secrets
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("FOXLIST_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FOXLIST_BACKEND"); v != "" {
		cfg.Backend = Backend(v)
	}
	if v := os.Getenv("FOXLIST_DB_FILE"); v != "" {
		cfg.DatabaseFile = v
	}
	if v := os.Getenv("FOXLIST_TASKS_FILE"); v != "" {
		cfg.TasksFile = v
	}
	if v := os.Getenv("FOXLIST_USERS_FILE"); v != "" {
		cfg.CredentialsFile = v
	}
	if v := os.Getenv("FOXLIST_HASH_SECRETS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.HashSecrets = b
		}
	}
}
