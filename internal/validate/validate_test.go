package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mehmetkoksal-w/resilience-theater/schemas"
)

func TestJSONC(t *testing.T) {
	t.Run("validates commented config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "theater.jsonc")

		content := `{
			// Widen the quality window for this repo.
			"scan": {
				"qualityWindow": 6
			}
		}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := JSONC(path, schemas.Config); err != nil {
			t.Errorf("JSONC() error = %v", err)
		}
	})

	t.Run("returns error for data violating schema", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "invalid.jsonc")

		content := `{"scan": {"qualityWindow": 0}}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := JSONC(path, schemas.Config); err == nil {
			t.Error("JSONC() expected validation error")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if err := JSONC("/nonexistent/theater.jsonc", schemas.Config); err == nil {
			t.Error("JSONC() expected error for missing file")
		}
	})

	t.Run("returns error for unknown schema name", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.jsonc")
		if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := JSONC(path, "nonexistent-schema"); err == nil {
			t.Error("JSONC() expected error for unknown schema")
		}
	})

	t.Run("returns error for malformed JSON", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "broken.jsonc")
		if err := os.WriteFile(path, []byte(`{not valid`), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := JSONC(path, schemas.Config); err == nil {
			t.Error("JSONC() expected error for malformed JSON")
		}
	})
}

func TestJSON(t *testing.T) {
	t.Run("validates plain config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "theater.json")

		content := `{"verdict": {"cargoCultRatio": 2.0}}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := JSON(path, schemas.Config); err != nil {
			t.Errorf("JSON() error = %v", err)
		}
	})

	t.Run("returns error for unknown section", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "invalid.json")

		content := `{"scans": {}}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := JSON(path, schemas.Config); err == nil {
			t.Error("JSON() expected validation error")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if err := JSON("/nonexistent/theater.json", schemas.Config); err == nil {
			t.Error("JSON() expected error for missing file")
		}
	})
}

func TestBytes(t *testing.T) {
	t.Run("accepts empty object", func(t *testing.T) {
		if err := Bytes([]byte(`{}`), schemas.Config); err != nil {
			t.Errorf("Bytes() error = %v", err)
		}
	})

	t.Run("rejects non-JSON input", func(t *testing.T) {
		if err := Bytes([]byte(`---`), schemas.Config); err == nil {
			t.Error("Bytes() expected decode error")
		}
	})
}
