// Package migrations embeds the schema files so the server and the
// integration fixtures apply the same DDL without a filesystem dependency.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
