package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/foxlist/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   data directory
//	-b string   backend: sqlite or file
//	-hash       store secrets as bcrypt hashes
//
// The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-hash"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	backend := fs.String("b", string(cfg.Backend), "task store backend: sqlite or file")
	fs.BoolVar(&cfg.HashSecrets, "hash", cfg.HashSecrets, "store secrets as bcrypt hashes")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Backend = Backend(*backend)
}
