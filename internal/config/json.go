package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/foxlist/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty
// fields leave the current Config value untouched.
type JsonConfig struct {
	DataDir         string `json:"data_dir"`
	Backend         string `json:"backend"`
	DatabaseFile    string `json:"database_file"`
	TasksFile       string `json:"tasks_file"`
	CredentialsFile string `json:"credentials_file"`
	HashSecrets     *bool  `json:"hash_secrets"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags via
// flagx.JsonConfigFlags(); when absent, no JSON is loaded. Read or
// unmarshal errors panic, matching the fail-fast startup contract:
// a broken config file has no usable degraded mode.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.Backend != "" {
		cfg.Backend = Backend(jc.Backend)
	}
	if jc.DatabaseFile != "" {
		cfg.DatabaseFile = jc.DatabaseFile
	}
	if jc.TasksFile != "" {
		cfg.TasksFile = jc.TasksFile
	}
	if jc.CredentialsFile != "" {
		cfg.CredentialsFile = jc.CredentialsFile
	}
	if jc.HashSecrets != nil {
		cfg.HashSecrets = *jc.HashSecrets
	}
}
