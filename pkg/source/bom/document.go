// Package bom builds part hierarchies from flat bill-of-materials files.
//
// A BOM document lists parts and BOM lines separately, the way an
// inventory database stores them:
//
//	[[parts]]
//	id = 1
//	name = "Robot"
//	ipn = "R-1"
//	assembly = true
//
//	[[parts]]
//	id = 2
//	name = "Arm"
//
//	[[items]]
//	parent = 1
//	child = 2
//	quantity = 2
//
// JSON documents use the same field names. [Document.Tree] nests the lines
// under a root part with the same rules as the host's product tree
// endpoint, so a local file renders exactly like a fetched hierarchy.
package bom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/tree"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Document is a flat BOM.
type Document struct {
	Parts []Part `json:"parts" toml:"parts"`
	Items []Item `json:"items" toml:"items"`
}

// Part is one part record.
type Part struct {
	ID       Ref    `json:"id" toml:"id"`
	Name     string `json:"name" toml:"name"`
	IPN      string `json:"ipn,omitempty" toml:"ipn"`
	Assembly bool   `json:"assembly,omitempty" toml:"assembly"`
	Revision string `json:"revision,omitempty" toml:"revision"`
	URL      string `json:"url,omitempty" toml:"url"`
}

// Item is one BOM line: Quantity of Child is used in Parent.
type Item struct {
	Parent      Ref      `json:"parent" toml:"parent"`
	Child       Ref      `json:"child" toml:"child"`
	Quantity    *float64 `json:"quantity,omitempty" toml:"quantity"`
	Reference   string   `json:"reference,omitempty" toml:"reference"`
	Note        string   `json:"note,omitempty" toml:"note"`
	Substitutes []Ref    `json:"substitutes,omitempty" toml:"substitutes"`
}

// Ref is a part id as written in a document: an integer or a string.
type Ref string

// ID converts the reference to a tree id.
func (r Ref) ID() tree.ID { return tree.ID(r) }

// UnmarshalJSON accepts numbers and strings.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var id tree.ID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = Ref(id)
	return nil
}

// UnmarshalTOML accepts integers and strings.
func (r *Ref) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*r = Ref(strings.TrimSpace(x))
	case int64:
		*r = Ref(strconv.FormatInt(x, 10))
	default:
		return fmt.Errorf("part id must be an integer or string, got %T", v)
	}
	return nil
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported BOM file %q: use .json or .toml", filepath.Base(path))
}

// Load reads a BOM document from path.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes a BOM document and checks it for duplicate part ids.
func Read(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read BOM")
	}

	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &doc)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown BOM key %q", undecoded[0].String())
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown BOM format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s BOM", format)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	seen := make(map[Ref]bool, len(d.Parts))
	for i, p := range d.Parts {
		if p.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "part %d has no id", i+1)
		}
		if seen[p.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate part id %s", p.ID)
		}
		seen[p.ID] = true
	}
	for i, it := range d.Items {
		if it.Parent == "" {
			return errors.New(errors.ErrCodeInvalidInput, "BOM line %d has no parent", i+1)
		}
	}
	return nil
}
