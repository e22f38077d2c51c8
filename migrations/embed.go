// Package migrations embeds the SQL schema of the wishlist database.
package migrations

import "embed"

// FS holds the numbered up and down migrations applied at startup.
//
//go:embed *.sql
var FS embed.FS
