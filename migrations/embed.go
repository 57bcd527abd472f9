// Package migrations embeds the PostgreSQL schema for merge history.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
