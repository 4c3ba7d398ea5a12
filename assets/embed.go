// Package assets bundles the static territory snapshot served when no
// provider is reachable. countries.json follows the REST Countries /all shape.
package assets

import "embed"

//go:embed countries.json
var FS embed.FS

// Countries returns the raw bundled snapshot.
func Countries() ([]byte, error) {
	return FS.ReadFile("countries.json")
}
