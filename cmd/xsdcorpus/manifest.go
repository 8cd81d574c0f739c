package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jacoelho/xsdcorpus"
)

// manifest lists the schemas of one corpus and how to compile them.
// Locations are relative to the manifest's directory.
type manifest struct {
	Schemas                 []string `yaml:"schemas"`
	MaxRestrictedCharacters *int     `yaml:"maxRestrictedCharacters"`
}

func readManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Schemas) == 0 {
		return manifest{}, fmt.Errorf("manifest %s: no schemas", path)
	}
	return m, nil
}

func (m manifest) options(opts xsdcorpus.Options) xsdcorpus.Options {
	if m.MaxRestrictedCharacters != nil {
		opts = opts.WithMaxRestrictedCharacters(*m.MaxRestrictedCharacters)
	}
	return opts
}

// compileSources compiles either the manifest or the single schema path.
func compileSources(manifestPath, schemaPath string, opts xsdcorpus.Options) (*xsdcorpus.Result, error) {
	switch {
	case manifestPath != "" && schemaPath != "":
		return nil, fmt.Errorf("give either a schema or --manifest, not both")
	case manifestPath != "":
		m, err := readManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		return xsdcorpus.CompileWithOptions(os.DirFS(filepath.Dir(manifestPath)), m.options(opts), m.Schemas...)
	case schemaPath != "":
		return xsdcorpus.CompileFile(schemaPath, opts)
	}
	return nil, fmt.Errorf("a schema or --manifest is required")
}
