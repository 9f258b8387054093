package lexicon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/bsky-cli/bsky/atproto/syntax"

	"github.com/ipfs/go-cid"
	"github.com/rivo/uniseg"
)

// Returned for any data which does not conform to the schema. Path is a dotted path to the offending field, relative to the record root.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

func fail(path, format string, args ...any) error {
	return &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// Converts any JSON-serializable value (eg, a typed record struct) in to generic atproto data: maps, slices, strings, bools and json.Number.
func ToData(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding record as object: %w", err)
	}
	return out, nil
}

// Validates generic record data against the record schema for the given collection NSID.
//
// If the data has a "$type" field it must match the collection.
func ValidateRecord(cat Catalog, recordData map[string]any, collection string) error {
	schema, err := cat.Resolve(collection)
	if err != nil {
		return err
	}
	if schema.Def.Type != "record" {
		return fmt.Errorf("schema is not a record type: %s", collection)
	}
	if t, ok := recordData["$type"]; ok && t != collection {
		return fail("$type", "record type %v does not match collection %s", t, collection)
	}
	v := validator{cat: cat}
	return v.validateObject(schema.ID, schema.Def.Record, recordData, "")
}

type validator struct {
	cat Catalog
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// normalizes a ref, which may be local ("#frag"), to a fully qualified "nsid#frag" string
func qualifyRef(id, ref string) string {
	if strings.HasPrefix(ref, "#") {
		ref = id + ref
	}
	if !strings.Contains(ref, "#") {
		ref = ref + "#main"
	}
	return ref
}

func (v *validator) validateData(id string, def *SchemaDef, d any, path string) error {
	switch def.Type {
	case "object":
		obj, ok := d.(map[string]any)
		if !ok {
			return fail(path, "expected an object, got %T", d)
		}
		return v.validateObject(id, def, obj, path)
	case "string":
		return v.validateString(def, d, path)
	case "integer":
		return v.validateInteger(def, d, path)
	case "boolean":
		if _, ok := d.(bool); !ok {
			return fail(path, "expected a boolean, got %T", d)
		}
		return nil
	case "array":
		return v.validateArray(id, def, d, path)
	case "ref":
		s, err := v.cat.Resolve(qualifyRef(id, def.Ref))
		if err != nil {
			return fail(path, "%v", err)
		}
		return v.validateData(s.ID, s.Def, d, path)
	case "union":
		return v.validateUnion(id, def, d, path)
	case "blob":
		return v.validateBlob(def, d, path)
	case "cid-link":
		return validateLink(d, path)
	case "bytes":
		obj, ok := d.(map[string]any)
		if !ok {
			return fail(path, "expected a $bytes object, got %T", d)
		}
		if _, ok := obj["$bytes"].(string); !ok || len(obj) != 1 {
			return fail(path, "malformed $bytes object")
		}
		return nil
	case "unknown":
		if _, ok := d.(map[string]any); !ok {
			return fail(path, "expected an object for unknown-type field, got %T", d)
		}
		return nil
	case "null":
		if d != nil {
			return fail(path, "expected null, got %T", d)
		}
		return nil
	default:
		return fail(path, "can not validate data against schema type %q", def.Type)
	}
}

func (v *validator) validateObject(id string, def *SchemaDef, obj map[string]any, path string) error {
	for _, k := range def.Required {
		if _, ok := obj[k]; !ok {
			return fail(joinPath(path, k), "required field missing")
		}
	}
	keys := make([]string, 0, len(def.Properties))
	for k := range def.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		val, ok := obj[k]
		if !ok {
			continue
		}
		if val == nil {
			if slices.Contains(def.Nullable, k) {
				continue
			}
			return fail(joinPath(path, k), "field is not nullable")
		}
		if err := v.validateData(id, def.Properties[k], val, joinPath(path, k)); err != nil {
			return err
		}
	}
	return nil
}

func graphemeCount(s string) int {
	n := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		n++
	}
	return n
}

func (v *validator) validateString(def *SchemaDef, d any, path string) error {
	s, ok := d.(string)
	if !ok {
		return fail(path, "expected a string, got %T", d)
	}
	// lexicon string lengths are counted in UTF-8 bytes
	if def.MinLength != nil && len(s) < *def.MinLength {
		return fail(path, "string too short (%d bytes, min %d)", len(s), *def.MinLength)
	}
	if def.MaxLength != nil && len(s) > *def.MaxLength {
		return fail(path, "string too long (%d bytes, max %d)", len(s), *def.MaxLength)
	}
	if def.MinGraphemes != nil || def.MaxGraphemes != nil {
		n := graphemeCount(s)
		if def.MinGraphemes != nil && n < *def.MinGraphemes {
			return fail(path, "string too short (%d graphemes, min %d)", n, *def.MinGraphemes)
		}
		if def.MaxGraphemes != nil && n > *def.MaxGraphemes {
			return fail(path, "string too long (%d graphemes, max %d)", n, *def.MaxGraphemes)
		}
	}
	if len(def.Enum) > 0 && !slices.Contains(def.Enum, s) {
		return fail(path, "string value not in enum: %q", s)
	}
	if def.Format != "" {
		if err := checkFormat(def.Format, s); err != nil {
			return fail(path, "invalid %s: %v", def.Format, err)
		}
	}
	return nil
}

func checkFormat(format, s string) error {
	var err error
	switch format {
	case "at-uri":
		_, err = syntax.ParseATURI(s)
	case "cid":
		_, err = syntax.ParseCID(s)
	case "datetime":
		_, err = syntax.ParseDatetime(s)
	case "language":
		_, err = syntax.ParseLanguage(s)
	case "did":
		_, err = syntax.ParseDID(s)
	case "handle":
		_, err = syntax.ParseHandle(s)
	case "at-identifier":
		_, err = syntax.ParseAtIdentifier(s)
	case "nsid":
		_, err = syntax.ParseNSID(s)
	case "record-key":
		_, err = syntax.ParseRecordKey(s)
	case "uri":
		var u *url.URL
		u, err = url.Parse(s)
		if err == nil && u.Scheme == "" {
			err = errors.New("URI has no scheme")
		}
	default:
		err = fmt.Errorf("unsupported string format")
	}
	return err
}

func asInteger(d any) (int64, bool) {
	switch n := d.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func (v *validator) validateInteger(def *SchemaDef, d any, path string) error {
	n, ok := asInteger(d)
	if !ok {
		return fail(path, "expected an integer, got %v", d)
	}
	if def.Minimum != nil && n < *def.Minimum {
		return fail(path, "integer %d below minimum %d", n, *def.Minimum)
	}
	if def.Maximum != nil && n > *def.Maximum {
		return fail(path, "integer %d above maximum %d", n, *def.Maximum)
	}
	return nil
}

func (v *validator) validateArray(id string, def *SchemaDef, d any, path string) error {
	arr, ok := d.([]any)
	if !ok {
		return fail(path, "expected an array, got %T", d)
	}
	if def.MinLength != nil && len(arr) < *def.MinLength {
		return fail(path, "array too short (%d elements, min %d)", len(arr), *def.MinLength)
	}
	if def.MaxLength != nil && len(arr) > *def.MaxLength {
		return fail(path, "array too long (%d elements, max %d)", len(arr), *def.MaxLength)
	}
	for i, item := range arr {
		if err := v.validateData(id, def.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) validateUnion(id string, def *SchemaDef, d any, path string) error {
	obj, ok := d.(map[string]any)
	if !ok {
		return fail(path, "expected an object for union, got %T", d)
	}
	typ, ok := obj["$type"].(string)
	if !ok || typ == "" {
		return fail(path, "union object missing $type")
	}
	want := qualifyRef(id, typ)
	for _, ref := range def.Refs {
		if qualifyRef(id, ref) != want {
			continue
		}
		s, err := v.cat.Resolve(want)
		if err != nil {
			return fail(path, "%v", err)
		}
		return v.validateData(s.ID, s.Def, obj, path)
	}
	if def.Closed {
		return fail(path, "$type %q not in closed union", typ)
	}
	// open unions accept types this catalog doesn't know about
	return nil
}

func validateLink(d any, path string) error {
	obj, ok := d.(map[string]any)
	if !ok {
		return fail(path, "expected a cid-link object, got %T", d)
	}
	s, ok := obj["$link"].(string)
	if !ok || len(obj) != 1 {
		return fail(path, "malformed cid-link object")
	}
	if _, err := cid.Decode(s); err != nil {
		return fail(path, "invalid CID in cid-link: %v", err)
	}
	return nil
}

func (v *validator) validateBlob(def *SchemaDef, d any, path string) error {
	obj, ok := d.(map[string]any)
	if !ok {
		return fail(path, "expected a blob object, got %T", d)
	}
	if obj["$type"] != "blob" {
		return fail(path, "blob object must have $type 'blob'")
	}
	if err := validateLink(obj["ref"], joinPath(path, "ref")); err != nil {
		return err
	}
	mimeType, ok := obj["mimeType"].(string)
	if !ok || mimeType == "" {
		return fail(path, "blob missing mimeType")
	}
	size, ok := asInteger(obj["size"])
	if !ok || size < 0 {
		return fail(path, "blob missing or invalid size")
	}
	if len(def.Accept) > 0 {
		accepted := false
		for _, pat := range def.Accept {
			if acceptableMimeType(pat, mimeType) {
				accepted = true
				break
			}
		}
		if !accepted {
			return fail(path, "blob mimeType not accepted: %s", mimeType)
		}
	}
	if def.MaxSize != nil && size > *def.MaxSize {
		return fail(path, "blob too large (%d bytes, max %d)", size, *def.MaxSize)
	}
	return nil
}
