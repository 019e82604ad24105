// Package document models a nio service configuration document.
//
// A document is kept as the raw JSON object it was fetched as. Reads go through
// gjson and edits through sjson, so fields this tool does not understand keep
// their bytes and their order.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/example/annotate/internal/core/annotation"
)

const (
	// AnnotationsKey is the metadata key holding the annotation list. Stored
	// data depends on this exact value.
	AnnotationsKey = "d29b0693-de28-5b3e-9753-65b464106540"

	// MetadataField is the document field holding the JSON-encoded metadata mapping.
	MetadataField = "sys_metadata"

	blockNamesPath = "execution.#.name"
	emptyMetadata  = "{}"
)

var (
	// ErrMalformedDocument is returned when a payload is not a JSON object.
	ErrMalformedDocument = errors.New("service document is not a JSON object")
	// ErrMalformedMetadata is returned when sys_metadata cannot be read as a JSON object.
	ErrMalformedMetadata = errors.New("malformed sys_metadata")
)

// Document is a service configuration snapshot.
type Document struct {
	raw []byte
}

// Parse wraps raw as a document. The payload must be a JSON object.
func Parse(raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, ErrMalformedDocument
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return &Document{raw: buf}, nil
}

// Bytes returns a copy of the document JSON.
func (d *Document) Bytes() []byte {
	buf := make([]byte, len(d.raw))
	copy(buf, d.raw)
	return buf
}

// MarshalJSON emits the document unchanged.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.Bytes(), nil
}

// Get reads a top-level or nested value by gjson path.
func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// Metadata returns the sys_metadata text. A document without the field reads
// as an empty mapping.
func (d *Document) Metadata() (string, error) {
	field := d.Get(MetadataField)
	if !field.Exists() {
		return emptyMetadata, nil
	}
	if field.Type != gjson.String {
		return "", fmt.Errorf("%w: %s is %s, not a string", ErrMalformedMetadata, MetadataField, field.Type)
	}

	meta := field.String()
	if !gjson.Valid(meta) {
		return "", fmt.Errorf("%w: not valid JSON", ErrMalformedMetadata)
	}
	if !gjson.Parse(meta).IsObject() {
		return "", fmt.Errorf("%w: not a JSON object", ErrMalformedMetadata)
	}
	return meta, nil
}

// Annotations extracts the annotation list. A missing or null entry is an empty list.
func (d *Document) Annotations() ([]annotation.Annotation, error) {
	meta, err := d.Metadata()
	if err != nil {
		return nil, err
	}

	entry := gjson.Get(meta, AnnotationsKey)
	if !entry.Exists() || entry.Type == gjson.Null {
		return annotation.Clear(), nil
	}
	if !entry.IsArray() {
		return nil, fmt.Errorf("%w: annotations entry is not a list", ErrMalformedMetadata)
	}

	var list []annotation.Annotation
	if err := json.Unmarshal([]byte(entry.Raw), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	if list == nil {
		list = annotation.Clear()
	}
	return list, nil
}

// WithAnnotations returns a copy of the document whose metadata holds list
// under AnnotationsKey. Every other metadata key and document field is kept.
func (d *Document) WithAnnotations(list []annotation.Annotation) (*Document, error) {
	meta, err := d.Metadata()
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = annotation.Clear()
	}

	encoded, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotations: %w", err)
	}

	nextMeta, err := sjson.SetRaw(meta, AnnotationsKey, string(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	next, err := sjson.SetBytes(d.Bytes(), MetadataField, nextMeta)
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return &Document{raw: next}, nil
}

// Blocks returns the sorted names of the service's execution blocks.
func (d *Document) Blocks() []string {
	var names []string
	for _, name := range d.Get(blockNamesPath).Array() {
		if s := name.String(); s != "" {
			names = append(names, s)
		}
	}
	sort.Strings(names)
	return names
}
