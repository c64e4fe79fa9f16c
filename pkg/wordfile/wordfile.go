package wordfile

import (
	"log/slog"
	"strconv"

	"github.com/japaniel/jadata/pkg/dictionary"
	"github.com/japaniel/jadata/pkg/jadata"
)

// FuriganaKey identifies a JmdictFurigana record.
type FuriganaKey struct {
	WrittenForm string
	Reading     string
}

// IndexFurigana converts ruby segments into byte spans over the written form. Segments
// without a reading advance the offset but produce no span.
func IndexFurigana(records []dictionary.Furigana) map[FuriganaKey][]jadata.Furigana {
	index := make(map[FuriganaKey][]jadata.Furigana, len(records))
	for _, rec := range records {
		var spans []jadata.Furigana
		start := 0
		for _, ruby := range rec.Furigana {
			end := start + len(ruby.Ruby)
			if ruby.Rt != "" {
				spans = append(spans, jadata.Furigana{StartIdx: start, EndIdx: end, Furigana: ruby.Rt})
			}
			start = end
		}
		index[FuriganaKey{WrittenForm: rec.Text, Reading: rec.Reading}] = spans
	}
	return index
}

// Fill returns a copy of skeleton with meanings and readings filled in from JMdict and
// JmdictFurigana. Every JMdict entry must already have a skeleton entry. Readings are
// recomputed on every run; a non-empty version replaces the wordfile version.
func Fill(log *slog.Logger, skeleton *jadata.Wordfile, jm *dictionary.JMdict, furigana []dictionary.Furigana, version string) (*jadata.Wordfile, error) {
	rows, err := ExpandRows(log, jm)
	if err != nil {
		return nil, err
	}
	spans := IndexFurigana(furigana)

	out := &jadata.Wordfile{
		Header: skeleton.Header,
		Words:  make([]jadata.Word, len(skeleton.Words)),
	}
	copy(out.Words, skeleton.Words)

	byJMdictID := make(map[uint32][]int, len(out.Words))
	seenIDs := make(map[uint32]bool, len(out.Words))
	for i, w := range out.Words {
		if seenIDs[w.ID] {
			return nil, jadata.NewIntegrityError(jadata.ErrDuplicateID, strconv.FormatUint(uint64(w.ID), 10))
		}
		seenIDs[w.ID] = true
		byJMdictID[w.JMdictID] = append(byJMdictID[w.JMdictID], i)
	}

	touched := make(map[int]bool)
	for _, row := range rows {
		indices, ok := byJMdictID[row.JMdictID]
		if !ok {
			return nil, jadata.NewIntegrityError(jadata.ErrMissingEntry, strconv.FormatUint(uint64(row.JMdictID), 10))
		}
		for _, i := range indices {
			w := &out.Words[i]
			if !w.HasWrittenForm(row.WrittenForm) {
				continue
			}
			if !touched[i] {
				touched[i] = true
				w.Readings = nil
			}
			w.Meanings = append([]string(nil), row.Meanings...)
			if row.WrittenForm == row.Reading {
				continue
			}
			reading := jadata.Reading{
				Reading:     row.Reading,
				Furigana:    spans[FuriganaKey{WrittenForm: row.WrittenForm, Reading: row.Reading}],
				UsuallyKana: row.UsuallyKana,
			}
			if !hasReading(w.Readings, reading) {
				w.Readings = append(w.Readings, reading)
			}
		}
	}

	out.Header.JMdictVersion = jm.Version
	if version != "" {
		out.Header.Version = version
	}
	return out, nil
}

func hasReading(readings []jadata.Reading, r jadata.Reading) bool {
	for _, existing := range readings {
		if existing.Equal(r) {
			return true
		}
	}
	return false
}
