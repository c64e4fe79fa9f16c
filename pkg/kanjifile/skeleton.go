// Package kanjifile builds the kanjifile skeleton and fills it from KANJIDIC2 and KRADFILE.
package kanjifile

import (
	"log/slog"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/japaniel/jadata/pkg/dictionary"
	"github.com/japaniel/jadata/pkg/jadata"
	"github.com/japaniel/jadata/pkg/normalize"
)

// Stats summarizes a skeleton build.
type Stats struct {
	Existing int
	// Added counts new entries, WordOnly the subset found only in JMdict surface forms.
	Added    int
	WordOnly int
	// Missing counts skeleton literals no longer present upstream. They are kept.
	Missing int
}

// Create builds a new skeleton from KANJIDIC2 and JMdict.
func Create(log *slog.Logger, kd2 *dictionary.Kanjidic2, jm *dictionary.JMdict) (*jadata.Kanjifile, Stats, error) {
	return Update(log, &jadata.Kanjifile{}, kd2, jm)
}

// Update returns a copy of skeleton extended with every kanji that appears in KANJIDIC2 or in
// a JMdict surface form but not yet in the skeleton. Existing entries keep their ids and fields.
func Update(log *slog.Logger, skeleton *jadata.Kanjifile, kd2 *dictionary.Kanjidic2, jm *dictionary.JMdict) (*jadata.Kanjifile, Stats, error) {
	if log == nil {
		log = slog.Default()
	}

	var stats Stats
	existing := make(map[string]bool, len(skeleton.Kanji))
	for _, k := range skeleton.Kanji {
		existing[k.Kanji] = true
	}
	stats.Existing = len(existing)

	upstream := make(map[string]bool, len(kd2.Characters))
	added := make(map[string]bool)
	for _, c := range kd2.Characters {
		if utf8.RuneCountInString(c.Literal) != 1 {
			return nil, stats, jadata.NewIntegrityError(jadata.ErrMultiCodepoint, c.Literal)
		}
		upstream[c.Literal] = true
		if !existing[c.Literal] {
			added[c.Literal] = true
		}
	}

	if jm != nil {
		for _, kanji := range surfaceKanji(jm) {
			upstream[kanji] = true
			if existing[kanji] || added[kanji] {
				continue
			}
			log.Warn("kanji found only in jmdict surface forms", slog.String("kanji", kanji))
			added[kanji] = true
			stats.WordOnly++
		}
	}

	for _, k := range skeleton.Kanji {
		if !upstream[k.Kanji] {
			log.Warn("skeleton kanji missing upstream", slog.String("kanji", k.Kanji), slog.Int("id", int(k.ID)))
			stats.Missing++
		}
	}

	literals := make([]string, 0, len(added))
	for literal := range added {
		literals = append(literals, literal)
	}
	sort.Strings(literals)

	next := uint32(skeleton.MaxKanjiID())
	if next+uint32(len(literals)) > math.MaxUint16 {
		return nil, stats, jadata.NewIntegrityError(jadata.ErrIDOverflow, literals[len(literals)-1])
	}

	out := &jadata.Kanjifile{
		Header: skeleton.Header,
		Kanji:  make([]jadata.Kanji, len(skeleton.Kanji), len(skeleton.Kanji)+len(literals)),
	}
	copy(out.Kanji, skeleton.Kanji)
	for _, literal := range literals {
		next++
		out.Kanji = append(out.Kanji, jadata.Kanji{ID: uint16(next), Kanji: literal})
	}
	out.Header.KanjidicVersion = kd2.Header.FileVersion
	stats.Added = len(literals)

	return out, stats, nil
}

// surfaceKanji returns the distinct kanji of every keb and reb in JMdict, in order of appearance.
func surfaceKanji(jm *dictionary.JMdict) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(form string) {
		for _, kanji := range normalize.KanjiIn(form) {
			if !seen[kanji] {
				seen[kanji] = true
				out = append(out, kanji)
			}
		}
	}
	for _, entry := range jm.Entries {
		for _, k := range entry.Kanji {
			add(k.Text)
		}
		for _, r := range entry.Readings {
			add(r.Text)
		}
	}
	return out
}
