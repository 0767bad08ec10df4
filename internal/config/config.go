// Package config loads runtime settings for the FoxList CLI.
//
// Sources are applied in order, later ones winning: built-in defaults,
// environment variables (a .env file is loaded first if present), a
// JSON config file (-c/-config), and command-line flags.
package config

// Backend selects the task-store implementation.
type Backend string

const (
	// BackendSQLite stores tasks in an embedded SQLite database.
	BackendSQLite Backend = "sqlite"
	// BackendFile keeps tasks in memory, mirrored to a JSON file
	// after every mutation. Used where SQLite is unavailable.
	BackendFile Backend = "file"
)

// Config holds runtime settings for the FoxList CLI.
//
// Fields:
//   - DataDir: directory holding all persisted files.
//   - Backend: task-store backend, "sqlite" or "file".
//   - DatabaseFile: SQLite database file name inside DataDir.
//   - TasksFile: JSON tasks blob file name inside DataDir (file backend).
//   - CredentialsFile: JSON key-value file holding users and session.
//   - HashSecrets: store account secrets as bcrypt hashes instead of
//     plain text. Off by default to stay readable by data written by
//     earlier releases.
type Config struct {
	DataDir         string
	Backend         Backend
	DatabaseFile    string
	TasksFile       string
	CredentialsFile string
	HashSecrets     bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "."
	c.Backend = BackendSQLite
	c.DatabaseFile = "foxlist.db"
	c.TasksFile = "foxlist_tasks.json"
	c.CredentialsFile = "foxlist_users.json"
	c.HashSecrets = false
}

// LoadConfig constructs a Config, applies defaults, then overlays
// values from the environment, JSON (if present) and command-line
// flags (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
