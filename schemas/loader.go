package schemas

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed *.schema.json
var schemaFS embed.FS

// Schema names, matching the <name>.schema.json files embedded here.
const (
	Config = "theater"
	Report = "report"
)

var names = []string{Config, Report}

var (
	loadOnce sync.Once
	compiled map[string]*jsonschema.Schema
	loadErr  error
)

func load() {
	c := jsonschema.NewCompiler()
	for _, name := range names {
		data, err := schemaFS.ReadFile(name + ".schema.json")
		if err != nil {
			loadErr = fmt.Errorf("read schema %s: %w", name, err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			loadErr = fmt.Errorf("decode schema %s: %w", name, err)
			return
		}
		if err := c.AddResource(schemaURL(name), doc); err != nil {
			loadErr = fmt.Errorf("register schema %s: %w", name, err)
			return
		}
	}
	all := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		s, err := c.Compile(schemaURL(name))
		if err != nil {
			loadErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		all[name] = s
	}
	compiled = all
}

func schemaURL(name string) string {
	return "mem://schemas/" + name + ".schema.json"
}

// Compile returns the compiled schema for name.
func Compile(name string) (*jsonschema.Schema, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	s, ok := compiled[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return s, nil
}

// List returns the raw embedded schema documents keyed by name.
func List() (map[string][]byte, error) {
	out := make(map[string][]byte, len(names))
	for _, n := range names {
		b, err := schemaFS.ReadFile(n + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", n, err)
		}
		out[n] = b
	}
	return out, nil
}
