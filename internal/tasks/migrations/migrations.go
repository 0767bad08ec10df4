// Package migrations holds the versioned schema migrations for the
// task database. SQL migrations are embedded; Go migrations register
// themselves with goose at init time.
package migrations

import "embed"

// Go migration sources are embedded alongside the SQL ones so goose
// can pair the files it scans with the functions registered at init.
//
//go:embed *.sql 00002_add_user_email.go
var Migrations embed.FS
