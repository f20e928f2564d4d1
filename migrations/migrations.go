// Package migrations embeds the goose SQL migrations so the service can
// bring its own schema up on start.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
