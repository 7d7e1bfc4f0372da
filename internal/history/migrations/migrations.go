// Package migrations embeds the SQLite schema of the local upload history.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
