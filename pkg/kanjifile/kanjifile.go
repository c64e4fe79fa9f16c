package kanjifile

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/japaniel/jadata/pkg/dictionary"
	"github.com/japaniel/jadata/pkg/jadata"
)

// KANJIDIC2 reading types that carry Japanese readings.
const (
	readingTypeOn  = "ja_on"
	readingTypeKun = "ja_kun"
)

// Fill returns a copy of skeleton with meanings, components and readings filled in from
// KANJIDIC2 and KRADFILE. Every KANJIDIC2 literal must already have a skeleton entry.
// A non-empty version replaces the kanjifile version.
func Fill(skeleton *jadata.Kanjifile, kd2 *dictionary.Kanjidic2, krad *dictionary.Kradfile, version string) (*jadata.Kanjifile, error) {
	out := &jadata.Kanjifile{
		Header: skeleton.Header,
		Kanji:  make([]jadata.Kanji, len(skeleton.Kanji)),
	}
	copy(out.Kanji, skeleton.Kanji)

	byLiteral := make(map[string]*jadata.Kanji, len(out.Kanji))
	seenIDs := make(map[uint16]bool, len(out.Kanji))
	for i := range out.Kanji {
		k := &out.Kanji[i]
		if _, ok := byLiteral[k.Kanji]; ok {
			return nil, jadata.NewIntegrityError(jadata.ErrDuplicateLiteral, k.Kanji)
		}
		if seenIDs[k.ID] {
			return nil, jadata.NewIntegrityError(jadata.ErrDuplicateID, strconv.Itoa(int(k.ID)))
		}
		byLiteral[k.Kanji] = k
		seenIDs[k.ID] = true
	}

	var components map[string][]string
	if krad != nil {
		components = krad.Components
	}

	seen := make(map[string]bool, len(kd2.Characters))
	for i := range kd2.Characters {
		c := &kd2.Characters[i]
		if utf8.RuneCountInString(c.Literal) != 1 {
			return nil, jadata.NewIntegrityError(jadata.ErrMultiCodepoint, c.Literal)
		}
		if seen[c.Literal] {
			return nil, jadata.NewIntegrityError(jadata.ErrDuplicateLiteral, c.Literal)
		}
		seen[c.Literal] = true

		k, ok := byLiteral[c.Literal]
		if !ok {
			return nil, jadata.NewIntegrityError(jadata.ErrMissingEntry, c.Literal)
		}
		fillKanji(k, c, components[c.Literal])
	}

	out.Header.KanjidicVersion = kd2.Header.FileVersion
	if version != "" {
		out.Header.Version = version
	}
	return out, nil
}

func fillKanji(k *jadata.Kanji, c *dictionary.Character, components []string) {
	var meanings []string
	var readings []jadata.KanjiReading
	for _, group := range c.Groups() {
		for _, m := range group.Meanings {
			if m.Lang == "" {
				meanings = append(meanings, m.Value)
			}
		}
		for _, r := range group.Readings {
			if reading, ok := ParseReading(r.Type, r.Value); ok {
				readings = append(readings, reading)
			}
		}
	}
	sort.Strings(meanings)
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Reading < readings[j].Reading
	})

	// Curator names are never overwritten.
	if k.Name == nil && len(meanings) > 0 {
		name := meanings[0]
		k.Name = &name
	}
	k.Components = append([]string(nil), components...)
	k.Meanings = meanings
	k.Readings = readings
}

// ParseReading converts a raw KANJIDIC2 reading. Only ja_on and ja_kun readings are accepted.
// A leading "-" marks a suffix and a trailing "-" a prefix; "." separates the okurigana.
func ParseReading(readingType, value string) (jadata.KanjiReading, bool) {
	var kind jadata.ReadingKind
	switch readingType {
	case readingTypeOn:
		kind = jadata.Onyomi
	case readingTypeKun:
		kind = jadata.Kunyomi
	default:
		return jadata.KanjiReading{}, false
	}

	position := jadata.PositionNone
	if strings.HasPrefix(value, "-") {
		position = jadata.PositionSuffix
	} else if strings.HasSuffix(value, "-") {
		position = jadata.PositionPrefix
	}

	reading, okurigana, _ := strings.Cut(value, ".")
	return jadata.KanjiReading{
		Kind:      kind,
		Reading:   strings.Trim(reading, "-"),
		Okurigana: strings.Trim(okurigana, "-"),
		Position:  position,
	}, true
}
