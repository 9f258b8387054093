package lexicon

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

// Interface type for a resolver or container of lexicon schemas.
type Catalog interface {
	// Looks up a schema reference (NSID string with optional fragment) to a Schema object.
	Resolve(ref string) (*Schema, error)
}

// A resolved definition, along with the NSID of the file it came from (needed to resolve local "#name" refs).
type Schema struct {
	ID  string
	Def *SchemaDef
}

// Trivial in-memory Lexicon Catalog implementation.
type BaseCatalog struct {
	schemas map[string]Schema
}

func NewBaseCatalog() *BaseCatalog {
	return &BaseCatalog{
		schemas: make(map[string]Schema),
	}
}

// Returns a schema definition for a Lexicon reference.
//
// A Lexicon ref string is an NSID with an optional #-separated fragment. If the fragment isn't specified, '#main' is used by default.
func (c *BaseCatalog) Resolve(ref string) (*Schema, error) {
	if ref == "" {
		return nil, fmt.Errorf("tried to resolve empty string name")
	}
	if !strings.Contains(ref, "#") {
		ref = ref + "#main"
	}
	s, ok := c.schemas[ref]
	if !ok {
		return nil, fmt.Errorf("schema not found in catalog: %s", ref)
	}
	return &s, nil
}

// Inserts a schema loaded from a JSON file in to the catalog.
func (c *BaseCatalog) AddSchemaFile(sf SchemaFile) error {
	if err := sf.CheckSchema(); err != nil {
		return err
	}
	for frag, def := range sf.Defs {
		name := sf.ID + "#" + frag
		if _, ok := c.schemas[name]; ok {
			return fmt.Errorf("catalog already contained a schema with name: %s", name)
		}
		c.schemas[name] = Schema{ID: sf.ID, Def: def}
	}
	return nil
}

// Recursively loads all '.json' files from an embedded filesystem.
func (c *BaseCatalog) LoadEmbedFS(efs embed.FS) error {
	return fs.WalkDir(efs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		b, err := efs.ReadFile(p)
		if err != nil {
			return err
		}
		var sf SchemaFile
		if err := json.Unmarshal(b, &sf); err != nil {
			return fmt.Errorf("parsing schema file %s: %w", p, err)
		}
		return c.AddSchemaFile(sf)
	})
}

//go:embed schemas/*.json
var embeddedSchemas embed.FS

var (
	defaultCatalog    *BaseCatalog
	defaultCatalogErr error
	defaultCatalogMu  sync.Once
)

// Returns a shared catalog with the schemas embedded in this package: the app.bsky.feed.post record, the image/record/recordWithMedia embeds, and com.atproto.repo.strongRef.
func DefaultCatalog() (*BaseCatalog, error) {
	defaultCatalogMu.Do(func() {
		cat := NewBaseCatalog()
		if err := cat.LoadEmbedFS(embeddedSchemas); err != nil {
			defaultCatalogErr = fmt.Errorf("loading embedded lexicons: %w", err)
			return
		}
		defaultCatalog = cat
	})
	return defaultCatalog, defaultCatalogErr
}
