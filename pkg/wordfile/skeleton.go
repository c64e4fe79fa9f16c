package wordfile

import (
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/japaniel/jadata/pkg/dictionary"
	"github.com/japaniel/jadata/pkg/jadata"
	"github.com/japaniel/jadata/pkg/normalize"
)

// Stats summarizes a skeleton build.
type Stats struct {
	Existing int
	Added    int
	// Missing counts skeleton entries with no written form left upstream. They are kept.
	Missing int
	// NewForms counts upstream written forms of existing entries that were not added.
	NewForms int
}

// wordKey identifies a word: spelling variants that fold to the same katakana are one word.
type wordKey struct {
	jmdictID uint32
	folded   string
}

func keyOf(jmdictID uint32, writtenForm string) wordKey {
	return wordKey{jmdictID: jmdictID, folded: normalize.ToKatakana(writtenForm)}
}

type group struct {
	key   wordKey
	forms map[string]bool
}

func (g *group) sortedForms() []string {
	forms := make([]string, 0, len(g.forms))
	for f := range g.forms {
		forms = append(forms, f)
	}
	sort.Strings(forms)
	return forms
}

// Create builds a new skeleton from JMdict.
func Create(log *slog.Logger, jm *dictionary.JMdict, jmdictVersion string) (*jadata.Wordfile, Stats, error) {
	return Update(log, &jadata.Wordfile{}, jm, jmdictVersion)
}

// Update returns a copy of skeleton with an entry appended for every JMdict word it does not
// contain yet. Existing entries, including their written forms, are left as they are.
func Update(log *slog.Logger, skeleton *jadata.Wordfile, jm *dictionary.JMdict, jmdictVersion string) (*jadata.Wordfile, Stats, error) {
	if log == nil {
		log = slog.Default()
	}

	rows, err := ExpandRows(log, jm)
	if err != nil {
		return nil, Stats{}, err
	}

	var order []wordKey
	groups := make(map[wordKey]*group)
	for _, row := range rows {
		key := keyOf(row.JMdictID, row.WrittenForm)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key, forms: make(map[string]bool)}
			groups[key] = g
			order = append(order, key)
		}
		g.forms[row.WrittenForm] = true
	}

	stats := Stats{Existing: len(skeleton.Words)}
	known := make(map[wordKey]int, len(skeleton.Words))
	for i, w := range skeleton.Words {
		found := false
		for _, form := range w.WrittenForms {
			key := keyOf(w.JMdictID, form)
			known[key] = i
			if _, ok := groups[key]; ok {
				found = true
			}
		}
		if !found {
			log.Warn("skeleton word missing upstream", slog.Int("id", int(w.ID)), slog.Int("jmdict_id", int(w.JMdictID)))
			stats.Missing++
		}
	}

	var added []*group
	for _, key := range order {
		g := groups[key]
		i, ok := known[key]
		if !ok {
			added = append(added, g)
			continue
		}
		existing := &skeleton.Words[i]
		for _, form := range g.sortedForms() {
			if !existing.HasWrittenForm(form) {
				log.Warn("new written form for existing word", slog.String("form", form), slog.Int("id", int(existing.ID)))
				stats.NewForms++
			}
		}
	}
	sort.Slice(added, func(i, j int) bool {
		if added[i].key.folded != added[j].key.folded {
			return added[i].key.folded < added[j].key.folded
		}
		return added[i].key.jmdictID < added[j].key.jmdictID
	})

	next := uint64(skeleton.MaxWordID())
	if next+uint64(len(added)) > math.MaxUint32 {
		return nil, stats, jadata.NewIntegrityError(jadata.ErrIDOverflow, strconv.FormatUint(next, 10))
	}

	out := &jadata.Wordfile{
		Header: skeleton.Header,
		Words:  make([]jadata.Word, len(skeleton.Words), len(skeleton.Words)+len(added)),
	}
	copy(out.Words, skeleton.Words)
	for _, g := range added {
		next++
		out.Words = append(out.Words, jadata.Word{
			ID:           uint32(next),
			JMdictID:     g.key.jmdictID,
			WrittenForms: g.sortedForms(),
		})
	}
	out.Header.JMdictVersion = jmdictVersion
	stats.Added = len(added)

	return out, stats, nil
}
