package kanjifile

import (
	"errors"
	"math"
	"testing"

	"github.com/japaniel/jadata/pkg/dictionary"
	"github.com/japaniel/jadata/pkg/jadata"
)

func kanjidic(version string, literals ...string) *dictionary.Kanjidic2 {
	kd2 := &dictionary.Kanjidic2{Header: dictionary.Kanjidic2Header{FileVersion: version}}
	for _, l := range literals {
		kd2.Characters = append(kd2.Characters, dictionary.Character{Literal: l})
	}
	return kd2
}

func jmdictWithForms(kebs ...string) *dictionary.JMdict {
	jm := &dictionary.JMdict{}
	for _, keb := range kebs {
		jm.Entries = append(jm.Entries, dictionary.Entry{
			Seq:   "1",
			Kanji: []dictionary.KanjiElement{{Text: keb}},
		})
	}
	return jm
}

func literalsByID(kf *jadata.Kanjifile) map[uint16]string {
	out := make(map[uint16]string, len(kf.Kanji))
	for _, k := range kf.Kanji {
		out[k.ID] = k.Kanji
	}
	return out
}

func TestCreate(t *testing.T) {
	kf, stats, err := Create(nil, kanjidic("4", "食", "人"), jmdictWithForms("食べる", "𠀋一"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := []string{"一", "人", "食", "𠀋"}
	if len(kf.Kanji) != len(want) {
		t.Fatalf("expected %d kanji, got %+v", len(want), kf.Kanji)
	}
	for i, k := range kf.Kanji {
		if k.ID != uint16(i+1) || k.Kanji != want[i] {
			t.Errorf("entry %d = %+v, want id %d literal %s", i, k, i+1, want[i])
		}
	}
	if kf.Header.KanjidicVersion != "4" {
		t.Errorf("expected kanjidic2 version 4, got %q", kf.Header.KanjidicVersion)
	}
	if stats.Added != 4 || stats.WordOnly != 2 || stats.Existing != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestUpdateKeepsIDs(t *testing.T) {
	name := "person"
	skeleton := &jadata.Kanjifile{
		Header: jadata.KanjifileHeader{Version: "3", KanjidicVersion: "3"},
		Kanji: []jadata.Kanji{
			{ID: 1, Kanji: "食"},
			{ID: 5, Kanji: "人", Name: &name, Meanings: []string{"person"}},
		},
	}
	kf, stats, err := Update(nil, skeleton, kanjidic("4", "人", "食", "入", "乙"), jmdictWithForms("人"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got := literalsByID(kf)
	for _, k := range skeleton.Kanji {
		if got[k.ID] != k.Kanji {
			t.Errorf("id %d moved from %s to %s", k.ID, k.Kanji, got[k.ID])
		}
	}
	if got[6] != "乙" || got[7] != "入" {
		t.Errorf("new ids not continued from max: %v", got)
	}
	if kf.Kanji[1].Name == nil || *kf.Kanji[1].Name != "person" {
		t.Errorf("curated fields lost: %+v", kf.Kanji[1])
	}
	if kf.Header.Version != "3" || kf.Header.KanjidicVersion != "4" {
		t.Errorf("unexpected header %+v", kf.Header)
	}
	if stats.Existing != 2 || stats.Added != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if len(skeleton.Kanji) != 2 {
		t.Errorf("skeleton was modified")
	}
}

func TestUpdateIsStable(t *testing.T) {
	kd2 := kanjidic("4", "人", "食")
	first, _, err := Create(nil, kd2, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, stats, err := Update(nil, first, kd2, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if stats.Added != 0 || len(second.Kanji) != len(first.Kanji) {
		t.Errorf("rerun added entries: %+v", stats)
	}
}

func TestUpdateReportsMissing(t *testing.T) {
	skeleton := &jadata.Kanjifile{Kanji: []jadata.Kanji{{ID: 1, Kanji: "人"}, {ID: 2, Kanji: "亡"}}}
	kf, stats, err := Update(nil, skeleton, kanjidic("4", "人"), nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if stats.Missing != 1 {
		t.Errorf("expected one missing literal, got %+v", stats)
	}
	if len(kf.Kanji) != 2 {
		t.Errorf("missing literals must be kept, got %+v", kf.Kanji)
	}
}

func TestUpdateErrors(t *testing.T) {
	_, _, err := Create(nil, kanjidic("4", "人入"), nil)
	if !errors.Is(err, jadata.ErrMultiCodepoint) {
		t.Errorf("expected ErrMultiCodepoint, got %v", err)
	}

	skeleton := &jadata.Kanjifile{Kanji: []jadata.Kanji{{ID: math.MaxUint16, Kanji: "人"}}}
	_, _, err = Update(nil, skeleton, kanjidic("4", "人", "入"), nil)
	if !errors.Is(err, jadata.ErrIDOverflow) {
		t.Errorf("expected ErrIDOverflow, got %v", err)
	}
}
