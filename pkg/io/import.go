package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/tree"
)

// Read decodes a JSON document from r.
//
// Read validates the structure after decoding: the tree must satisfy
// the strict-hierarchy invariant and node IDs must be well formed and
// unique. Errors carry the code of the first violation found.
//
// The returned document is independent of r; Read does not close r.
func Read(r io.Reader) (*Document, error) {
	var data jsonDocument
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	if data.Tree == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no tree")
	}

	root, err := data.Tree.toNode()
	if err != nil {
		return nil, err
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	if err := validateUniqueIDs(root); err != nil {
		return nil, err
	}

	doc := &Document{Root: root, Annotations: data.Annotations}
	if data.Options != nil {
		doc.Options = *data.Options
	}
	return doc, nil
}

// ReadBracket parses bracket notation into a document with no
// annotations and default options.
func ReadBracket(s string) (*Document, error) {
	root, err := tree.Parse(s)
	if err != nil {
		return nil, err
	}
	return &Document{Root: root}, nil
}

// Import reads a document from a file path. Files ending in .json are
// decoded with [Read]; anything else is parsed as bracket notation.
func Import(path string) (*Document, error) {
	if filepath.Ext(path) == ".json" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		defer f.Close()
		return Read(f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	return ReadBracket(string(data))
}

// ImportString parses document text directly: JSON if it starts with
// '{', bracket notation otherwise.
func ImportString(s string) (*Document, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") {
		return Read(strings.NewReader(trimmed))
	}
	return ReadBracket(trimmed)
}

func validateUniqueIDs(root *tree.Node) error {
	seen := map[string]bool{}
	var dup string
	root.Walk(func(n *tree.Node, _ []int) bool {
		if n.ID != "" {
			if seen[n.ID] {
				dup = n.ID
				return false
			}
			seen[n.ID] = true
		}
		return true
	})
	if dup != "" {
		return errors.New(errors.ErrCodeInvalidDocument, "duplicate node id %q", dup)
	}
	return nil
}
