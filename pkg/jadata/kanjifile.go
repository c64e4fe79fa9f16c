// Package jadata contains the data types for the kanjifile and the wordfile.
package jadata

// Kanjifile models the full contents of the kanjifile.
type Kanjifile struct {
	Header KanjifileHeader `json:"header"`
	Kanji  []Kanji         `json:"kanji"`
}

// KanjifileHeader contains metadata about the kanjifile.
type KanjifileHeader struct {
	// Version is the curator-assigned version of the kanjifile.
	Version string `json:"version"`
	// KanjidicVersion is the KANJIDIC2 file version consumed by the last build.
	KanjidicVersion string `json:"kanjidic2_version"`
}

// Kanji is a single kanjifile entry.
type Kanji struct {
	// ID is stable within the kanjifile and never reused.
	ID uint16 `json:"id"`
	// Kanji is the character itself (exactly one codepoint).
	Kanji string `json:"kanji"`
	// Components are not canonical, but may be helpful nonetheless.
	Components []string `json:"components,omitempty"`
	// Name is a curator label used to associate the character with an English name.
	Name     *string        `json:"name,omitempty"`
	Readings []KanjiReading `json:"readings,omitempty"`
	Meanings []string       `json:"meanings,omitempty"`
	// Similar lists visually similar kanji, e.g. 人 and 入.
	Similar []string `json:"similar,omitempty"`
}

// ReadingKind distinguishes on'yomi from kun'yomi.
type ReadingKind string

const (
	Onyomi  ReadingKind = "onyomi"
	Kunyomi ReadingKind = "kunyomi"
)

// Position marks readings that only appear attached to other morphemes.
type Position string

const (
	PositionNone   Position = ""
	PositionPrefix Position = "prefix"
	PositionSuffix Position = "suffix"
)

// KanjiReading is a single on or kun reading of a kanji.
type KanjiReading struct {
	Kind      ReadingKind `json:"kind"`
	Reading   string      `json:"reading"`
	Okurigana string      `json:"okurigana,omitempty"`
	Position  Position    `json:"position,omitempty"`
}

// MaxKanjiID returns the largest id in the kanjifile, or 0 when it is empty.
func (kf *Kanjifile) MaxKanjiID() uint16 {
	var max uint16
	for _, k := range kf.Kanji {
		if k.ID > max {
			max = k.ID
		}
	}
	return max
}
