// Package validation checks request bodies against JSON schemas compiled
// once at startup.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/qri-io/jsonschema"
)

// Validator holds compiled schemas keyed by file name without extension.
// It is read-only after construction.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every *.json file in dir of fsys.
func NewValidator(fsys fs.FS, dir string) (*Validator, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read schemas dir: %w", err)
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}

		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	return v, nil
}

// Names lists the loaded schema names in sorted order.
func (v *Validator) Names() []string {
	out := make([]string, 0, len(v.schemas))
	for name := range v.schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validate checks data against the named schema. Malformed JSON and schema
// violations are reported as models.ErrValidation.
func (v *Validator) Validate(ctx context.Context, name string, data []byte) error {
	rs, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("no schema named %q", name)
	}

	if !json.Valid(data) {
		return fmt.Errorf("%w: request body is not valid JSON", models.ErrValidation)
	}

	keyErrs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msg := ke.Message
			if ke.PropertyPath != "" && ke.PropertyPath != "/" {
				msg = ke.PropertyPath + ": " + msg
			}
			msgs = append(msgs, msg)
		}
		return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(msgs, "; "))
	}

	return nil
}
