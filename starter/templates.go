// Package starter holds the embedded configuration template written by
// theater init.
package starter

import (
	_ "embed"
	"strings"
)

//go:embed theater.jsonc
var configTemplate string

// Config renders the starter theater.jsonc with the creation timestamp
// filled in.
func Config(createdAt string) string {
	return strings.ReplaceAll(configTemplate, "{{createdAt}}", createdAt)
}
