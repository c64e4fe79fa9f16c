package dictionary

import (
	"encoding/json"
	"fmt"
)

// Furigana matches the structure of a JmdictFurigana record.
type Furigana struct {
	Text     string `json:"text"`
	Reading  string `json:"reading"`
	Furigana []Ruby `json:"furigana"`
}

// Ruby is one segment of the written form. Rt is empty when the segment needs no reading.
type Ruby struct {
	Ruby string `json:"ruby"`
	Rt   string `json:"rt,omitempty"`
}

// LoadFurigana reads a JmdictFurigana JSON file (an array of records).
func LoadFurigana(path string) ([]Furigana, error) {
	f, r, err := openBuffered(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file at '%s': %w", path, err)
	}
	defer f.Close()

	var records []Furigana
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse furigana file: %w", err)
	}
	return records, nil
}
