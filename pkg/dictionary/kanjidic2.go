package dictionary

import (
	"fmt"
	"io"
)

// Kanjidic2 matches the structure of the KANJIDIC2 XML file.
type Kanjidic2 struct {
	Header     Kanjidic2Header `xml:"header"`
	Characters []Character     `xml:"character"`
}

type Kanjidic2Header struct {
	FileVersion     string `xml:"file_version"`
	DatabaseVersion string `xml:"database_version"`
	DateOfCreation  string `xml:"date_of_creation"`
}

// Character is a single KANJIDIC2 entry.
type Character struct {
	Literal        string           `xml:"literal"`
	ReadingMeaning []ReadingMeaning `xml:"reading_meaning"`
}

type ReadingMeaning struct {
	Groups []RMGroup `xml:"rmgroup"`
	Nanori []string  `xml:"nanori"`
}

// RMGroup groups readings with the meanings they carry.
type RMGroup struct {
	Readings []CharacterReading `xml:"reading"`
	Meanings []Meaning          `xml:"meaning"`
}

type CharacterReading struct {
	Type  string `xml:"r_type,attr"` // ja_on, ja_kun, pinyin, korean_r, ...
	Value string `xml:",chardata"`
}

// Meaning is a gloss for a character. Lang is empty for English.
type Meaning struct {
	Lang  string `xml:"m_lang,attr"`
	Value string `xml:",chardata"`
}

// Groups returns all reading/meaning groups of the character.
func (c *Character) Groups() []RMGroup {
	var out []RMGroup
	for _, rm := range c.ReadingMeaning {
		out = append(out, rm.Groups...)
	}
	return out
}

// DecodeKanjidic2 reads a KANJIDIC2 document.
func DecodeKanjidic2(r io.Reader) (*Kanjidic2, error) {
	var kd2 Kanjidic2
	if err := decodeDocument(r, &kd2); err != nil {
		return nil, fmt.Errorf("decode kanjidic2: %w", err)
	}
	return &kd2, nil
}

// LoadKanjidic2 reads the KANJIDIC2 file at path.
func LoadKanjidic2(path string) (*Kanjidic2, error) {
	f, r, err := openBuffered(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file at '%s': %w", path, err)
	}
	defer f.Close()
	return DecodeKanjidic2(r)
}
