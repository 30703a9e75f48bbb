package io

import (
	"encoding/json"
	"strings"

	"github.com/syntree/syntree/pkg/errors"
)

// jsonLabel unmarshals either a plain string (split on newlines) or an
// array of line strings.
type jsonLabel struct {
	Lines []string
}

func (l *jsonLabel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.Lines = strings.Split(s, "\n")
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		l.Lines = lines
		return nil
	}
	return errors.New(errors.ErrCodeInvalidDocument,
		"label must be a string or an array of strings, got %s", string(data))
}

func (l jsonLabel) MarshalJSON() ([]byte, error) {
	if len(l.Lines) == 1 {
		return json.Marshal(l.Lines[0])
	}
	return json.Marshal(l.Lines)
}
