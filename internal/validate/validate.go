// Package validate checks JSON and JSONC documents against the embedded
// schemas before they are trusted or written out.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mehmetkoksal-w/resilience-theater/internal/jsonc"
	"github.com/mehmetkoksal-w/resilience-theater/schemas"
)

// JSONC validates a JSONC file against an embedded schema.
func JSONC(path string, schemaName string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := Bytes(jsonc.Clean(data), schemaName); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// JSON validates a standard JSON file.
func JSON(path string, schemaName string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := Bytes(bytes.TrimSpace(data), schemaName); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Bytes validates an in-memory JSON document, which lets writers check
// an artifact before anything lands on disk.
func Bytes(data []byte, schemaName string) error {
	schema, err := schemas.Compile(schemaName)
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("invalid: %w", err)
	}
	return nil
}
