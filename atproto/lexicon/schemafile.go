package lexicon

import (
	"fmt"
	"strings"
)

// Serialization helper type for top-level Lexicon schema JSON objects (files).
type SchemaFile struct {
	Lexicon     int                   `json:"lexicon"` // must be 1
	ID          string                `json:"id"`
	Description *string               `json:"description,omitempty"`
	Defs        map[string]*SchemaDef `json:"defs"`
}

// A single Lexicon definition, of any type. Only the fields relevant to the 'type' are populated.
//
// This is a flattened representation: unlike the full Lexicon language, there is one struct for every definition type, which is enough for validating record data.
type SchemaDef struct {
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`

	// record
	Key    string     `json:"key,omitempty"`
	Record *SchemaDef `json:"record,omitempty"`

	// object
	Required   []string              `json:"required,omitempty"`
	Nullable   []string              `json:"nullable,omitempty"`
	Properties map[string]*SchemaDef `json:"properties,omitempty"`

	// array
	Items *SchemaDef `json:"items,omitempty"`

	// ref, union
	Ref    string   `json:"ref,omitempty"`
	Refs   []string `json:"refs,omitempty"`
	Closed bool     `json:"closed,omitempty"`

	// string, bytes, array
	Format       string   `json:"format,omitempty"`
	MinLength    *int     `json:"minLength,omitempty"`
	MaxLength    *int     `json:"maxLength,omitempty"`
	MinGraphemes *int     `json:"minGraphemes,omitempty"`
	MaxGraphemes *int     `json:"maxGraphemes,omitempty"`
	Enum         []string `json:"enum,omitempty"`
	KnownValues  []string `json:"knownValues,omitempty"`

	// integer
	Minimum *int64 `json:"minimum,omitempty"`
	Maximum *int64 `json:"maximum,omitempty"`

	// blob
	Accept  []string `json:"accept,omitempty"`
	MaxSize *int64   `json:"maxSize,omitempty"`
}

// Checks internal consistency of a definition (and any nested definitions).
func (s *SchemaDef) CheckSchema() error {
	switch s.Type {
	case "record":
		if s.Record == nil || s.Record.Type != "object" {
			return fmt.Errorf("record schema must have an object 'record' definition")
		}
		return s.Record.CheckSchema()
	case "object":
		for _, k := range s.Required {
			if _, ok := s.Properties[k]; !ok {
				return fmt.Errorf("object schema requires undefined property: %s", k)
			}
		}
		for k, p := range s.Properties {
			if p == nil {
				return fmt.Errorf("empty property definition: %s", k)
			}
			if err := p.CheckSchema(); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
	case "array":
		if s.Items == nil {
			return fmt.Errorf("array schema missing 'items'")
		}
		if s.MinLength != nil && s.MaxLength != nil && *s.MaxLength < *s.MinLength {
			return fmt.Errorf("array schema max < min")
		}
		return s.Items.CheckSchema()
	case "string":
		if s.MinLength != nil && s.MaxLength != nil && *s.MaxLength < *s.MinLength {
			return fmt.Errorf("string schema max < min")
		}
		if s.MinGraphemes != nil && s.MaxGraphemes != nil && *s.MaxGraphemes < *s.MinGraphemes {
			return fmt.Errorf("string schema max < min")
		}
	case "integer":
		if s.Minimum != nil && s.Maximum != nil && *s.Maximum < *s.Minimum {
			return fmt.Errorf("integer schema max < min")
		}
	case "ref":
		if s.Ref == "" {
			return fmt.Errorf("empty schema ref")
		}
	case "union":
		if len(s.Refs) == 0 && s.Closed {
			return fmt.Errorf("closed union must have at least one ref")
		}
	case "blob":
		for _, pat := range s.Accept {
			if pat == "" || (strings.Contains(pat, "*") && !strings.HasSuffix(pat, "*")) {
				return fmt.Errorf("invalid blob accept pattern: %q", pat)
			}
		}
	case "boolean", "bytes", "cid-link", "unknown", "token", "null":
	default:
		return fmt.Errorf("unsupported schema type: %q", s.Type)
	}
	return nil
}

// Does some very basic validation of a parsed schema file (eg, lexicon language version).
func (sf *SchemaFile) CheckSchema() error {
	if sf.Lexicon != 1 {
		return fmt.Errorf("unsupported lexicon language version: %d", sf.Lexicon)
	}
	if sf.ID == "" {
		return fmt.Errorf("schema file missing id")
	}
	for frag, def := range sf.Defs {
		if len(frag) == 0 || strings.Contains(frag, "#") || strings.Contains(frag, ".") {
			return fmt.Errorf("schema name invalid: %s", frag)
		}
		if def == nil {
			return fmt.Errorf("empty schema definition: %s#%s", sf.ID, frag)
		}
		if err := def.CheckSchema(); err != nil {
			return fmt.Errorf("%s#%s: %w", sf.ID, frag, err)
		}
	}
	return nil
}
