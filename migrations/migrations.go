// Package migrations carries the schema files applied at startup. Embedding
// them ties the schema to the binary instead of the working directory.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
