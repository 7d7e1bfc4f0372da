// Package migrations embeds the deploy_data schema used for local
// development databases.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
