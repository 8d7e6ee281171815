// Package appfs exposes embedded static assets; goose reads the SQL
// migrations from here so binaries ship self-contained.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
