// Package migrations embeds the schema so binaries and tests apply the same
// SQL regardless of the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
