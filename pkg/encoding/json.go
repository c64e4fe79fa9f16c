package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/japaniel/jadata/pkg/jadata"
)

// MarshalJSON encodes v as two-space indented JSON with a trailing newline.
func MarshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// ReadKanjifile reads a JSON kanjifile or kanjifile skeleton.
func ReadKanjifile(path string) (*jadata.Kanjifile, error) {
	var kf jadata.Kanjifile
	if err := readJSON(path, &kf); err != nil {
		return nil, err
	}
	return &kf, nil
}

// ReadWordfile reads a JSON wordfile or wordfile skeleton.
func ReadWordfile(path string) (*jadata.Wordfile, error) {
	var wf jadata.Wordfile
	if err := readJSON(path, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}
