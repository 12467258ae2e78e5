package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/tree"
)

// ReadJSON decodes a part hierarchy from r.
//
// The input must be a single JSON object describing the root part. An
// empty document, a JSON null, or a document that is not an object is an
// INVALID_FORMAT error. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*tree.Node, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree")
	}
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "tree document must be a JSON object")
	}

	var root tree.Node
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree")
	}
	return &root, nil
}

// ImportJSON reads a JSON file at path and returns the decoded hierarchy.
// A missing file is a NOT_FOUND error.
func ImportJSON(path string) (*tree.Node, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
