// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// builtinJSON is the dataset shipped with the binary.
//
//go:embed data/catalog.json
var builtinJSON []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

// document is the top-level shape of a dataset file.
type document struct {
	Categories []Category `json:"categories" yaml:"categories" validate:"required,dive"`
}

// Default returns the embedded catalog. It is parsed on first use only.
var Default = sync.OnceValues(func() (*Catalog, error) {
	return Parse(bytes.NewReader(builtinJSON))
})

// Parse decodes a JSON dataset. Unknown fields are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return build(doc)
}

// ParseYAML decodes a YAML dataset. Unknown fields are rejected.
func ParseYAML(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return build(doc)
}

// LoadFile reads a dataset from disk, choosing the decoder by extension
// (.yaml/.yml for YAML, anything else as JSON).
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return Parse(f)
	}
}

// build validates the document and fills in each function's category
// back-reference when it is left empty.
func build(doc document) (*Catalog, error) {
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	var errs []error
	seen := make(map[string]bool, len(doc.Categories))
	for ci := range doc.Categories {
		cat := &doc.Categories[ci]
		if seen[cat.ID] {
			errs = append(errs, fmt.Errorf("duplicate category id %q", cat.ID))
		}
		seen[cat.ID] = true

		fnSeen := make(map[string]bool, len(cat.Functions))
		for fi := range cat.Functions {
			fn := &cat.Functions[fi]
			if fnSeen[fn.ID] {
				errs = append(errs, fmt.Errorf("category %q: duplicate function id %q", cat.ID, fn.ID))
			}
			fnSeen[fn.ID] = true

			switch fn.Category {
			case "":
				fn.Category = cat.ID
			case cat.ID:
			default:
				errs = append(errs, fmt.Errorf("function %q: category %q does not match owner %q", fn.ID, fn.Category, cat.ID))
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("validate catalog: %w", errors.Join(errs...))
	}

	return New(doc.Categories), nil
}
