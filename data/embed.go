// Package data embeds the reference rows seeded into a fresh database.
package data

import (
	_ "embed"
)

//go:embed seed/lookups.json
var Lookups []byte
