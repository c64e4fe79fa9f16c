// Package wordfile builds the wordfile skeleton and fills it from JMdict and JmdictFurigana.
package wordfile

import (
	"log/slog"
	"strconv"

	"github.com/japaniel/jadata/pkg/dictionary"
	"github.com/japaniel/jadata/pkg/jadata"
)

// Row is one (written form, reading) pair of a JMdict entry.
type Row struct {
	JMdictID    uint32
	WrittenForm string
	Reading     string
	// Meanings are the default-language glosses of the senses that apply to the pair.
	Meanings    []string
	UsuallyKana bool
}

// ExpandRows turns every JMdict entry into one row per written form and applicable reading.
// Entries without kanji elements use each reading as its own written form.
func ExpandRows(log *slog.Logger, jm *dictionary.JMdict) ([]Row, error) {
	if log == nil {
		log = slog.Default()
	}

	var rows []Row
	for i := range jm.Entries {
		entry := &jm.Entries[i]
		id, err := parseSeq(entry.Seq)
		if err != nil {
			return nil, err
		}

		if len(entry.Kanji) == 0 {
			for _, r := range entry.Readings {
				rows = append(rows, newRow(id, entry, r.Text, r.Text, false))
			}
			continue
		}

		for _, k := range entry.Kanji {
			rare := k.IsRareKanjiForm()
			applicable := 0
			for j := range entry.Readings {
				r := &entry.Readings[j]
				if !r.AppliesTo(k.Text) {
					continue
				}
				applicable++
				rows = append(rows, newRow(id, entry, k.Text, r.Text, rare))
			}
			if applicable == 0 {
				log.Warn("keb had no applicable readings", slog.String("keb", k.Text), slog.Int("jmdict_id", int(id)))
			}
		}
	}
	return rows, nil
}

func newRow(id uint32, entry *dictionary.Entry, writtenForm, reading string, rare bool) Row {
	row := Row{
		JMdictID:    id,
		WrittenForm: writtenForm,
		Reading:     reading,
		UsuallyKana: rare,
	}
	for i := range entry.Senses {
		s := &entry.Senses[i]
		if !s.AppliesTo(writtenForm, reading) {
			continue
		}
		if s.IsUsuallyKana() {
			row.UsuallyKana = true
		}
		for _, g := range s.Gloss {
			if g.Lang == "" {
				row.Meanings = append(row.Meanings, g.Value)
			}
		}
	}
	return row
}

func parseSeq(seq string) (uint32, error) {
	id, err := strconv.ParseUint(seq, 10, 32)
	if err != nil {
		return 0, jadata.NewIntegrityError(jadata.ErrInvalidID, seq)
	}
	return uint32(id), nil
}
