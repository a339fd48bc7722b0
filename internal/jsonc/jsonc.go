// Package jsonc reads JSON-with-comments files used for tool configuration.
package jsonc

import (
	"fmt"
	"os"

	jsonc "github.com/muhammadmuzzammil1998/jsonc"
)

// DecodeFile loads a JSONC file into dest.
func DecodeFile(path string, dest any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := jsonc.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Decode parses JSONC bytes into dest.
func Decode(data []byte, dest any) error {
	return jsonc.Unmarshal(data, dest)
}

// Clean strips comments and trailing commas, leaving plain JSON.
func Clean(data []byte) []byte {
	return jsonc.ToJSON(data)
}
