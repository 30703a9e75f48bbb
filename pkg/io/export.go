package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/syntree/syntree/pkg/errors"
)

// Write encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [Read] for round-trip processing.
func Write(doc *Document, w io.Writer) error {
	out := jsonDocument{
		Tree:        nodeToJSONPtr(doc),
		Annotations: doc.Annotations,
	}
	if doc.Options != (Options{}) {
		opts := doc.Options
		out.Options = &opts
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// Export writes a document to a JSON file at path.
// This is a convenience wrapper around [Write] for file-based output.
func Export(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return Write(doc, f)
}

func nodeToJSONPtr(doc *Document) *jsonNode {
	n := nodeToJSON(doc.Root)
	return &n
}
