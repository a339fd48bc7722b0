package schemas

import (
	"strings"
	"testing"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

func TestCompileEmbeddedSchemas(t *testing.T) {
	for _, name := range []string{Config, Report} {
		s, err := Compile(name)
		if err != nil {
			t.Fatalf("Compile(%q): %v", name, err)
		}
		if s == nil {
			t.Fatalf("Compile(%q) returned nil schema", name)
		}
	}
}

func TestCompileUnknownName(t *testing.T) {
	if _, err := Compile("bogus"); err == nil {
		t.Error("Compile accepted an unknown schema name")
	}
}

func TestConfigSchemaConstraints(t *testing.T) {
	s, err := Compile(Config)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"empty config", `{}`, false},
		{"scan options", `{"scan": {"qualityWindow": 8, "maxWorkers": 4}}`, false},
		{"zero window", `{"scan": {"qualityWindow": 0}}`, true},
		{"unknown key", `{"scann": {}}`, true},
		{"wrong type", `{"scan": {"include": "*.py"}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := jsonschema.UnmarshalJSON(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("decode instance: %v", err)
			}
			err = s.Validate(inst)
			if tt.wantErr && err == nil {
				t.Error("schema accepted invalid document")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("schema rejected valid document: %v", err)
			}
		})
	}
}

func TestList(t *testing.T) {
	docs, err := List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("List returned %d schemas, want 2", len(docs))
	}
	for _, name := range []string{Config, Report} {
		body, ok := docs[name]
		if !ok || len(body) == 0 {
			t.Errorf("schema %q missing or empty", name)
			continue
		}
		if !strings.Contains(string(body), "$schema") {
			t.Errorf("schema %q has no $schema declaration", name)
		}
	}
}
