package kanjifile

import (
	"errors"
	"reflect"
	"testing"

	"github.com/japaniel/jadata/pkg/dictionary"
	"github.com/japaniel/jadata/pkg/jadata"
)

func character(literal string, readings []dictionary.CharacterReading, meanings ...dictionary.Meaning) dictionary.Character {
	return dictionary.Character{
		Literal: literal,
		ReadingMeaning: []dictionary.ReadingMeaning{{
			Groups: []dictionary.RMGroup{{Readings: readings, Meanings: meanings}},
		}},
	}
}

func hitoKanjidic() *dictionary.Kanjidic2 {
	return &dictionary.Kanjidic2{
		Header: dictionary.Kanjidic2Header{FileVersion: "4"},
		Characters: []dictionary.Character{
			character("人",
				[]dictionary.CharacterReading{{Type: "ja_on", Value: "ジン"}, {Type: "ja_kun", Value: "ひと"}},
				dictionary.Meaning{Value: "person"},
			),
		},
	}
}

func TestFillPerson(t *testing.T) {
	skeleton := &jadata.Kanjifile{Kanji: []jadata.Kanji{{ID: 1, Kanji: "人"}}}

	got, err := Fill(skeleton, hitoKanjidic(), &dictionary.Kradfile{}, "")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	k := got.Kanji[0]
	if k.ID != 1 || k.Kanji != "人" {
		t.Errorf("identity changed: %+v", k)
	}
	if !reflect.DeepEqual(k.Meanings, []string{"person"}) {
		t.Errorf("meanings = %v", k.Meanings)
	}
	if k.Name == nil || *k.Name != "person" {
		t.Errorf("expected name person, got %v", k.Name)
	}
	if len(k.Components) != 0 {
		t.Errorf("expected no components, got %v", k.Components)
	}
	// Sorted by reading text, so hiragana kun readings come before katakana on readings.
	wantReadings := []jadata.KanjiReading{
		{Kind: jadata.Kunyomi, Reading: "ひと"},
		{Kind: jadata.Onyomi, Reading: "ジン"},
	}
	if !reflect.DeepEqual(k.Readings, wantReadings) {
		t.Errorf("readings = %+v, want %+v", k.Readings, wantReadings)
	}
	if got.Header.KanjidicVersion != "4" {
		t.Errorf("expected kanjidic2 version 4, got %q", got.Header.KanjidicVersion)
	}
	if skeleton.Kanji[0].Name != nil || skeleton.Kanji[0].Meanings != nil {
		t.Errorf("skeleton was modified: %+v", skeleton.Kanji[0])
	}
}

func TestFillKeepsCuratorName(t *testing.T) {
	name := "human"
	skeleton := &jadata.Kanjifile{Kanji: []jadata.Kanji{{ID: 1, Kanji: "人", Name: &name, Similar: []string{"入"}}}}

	got, err := Fill(skeleton, hitoKanjidic(), nil, "")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got.Kanji[0].Name == nil || *got.Kanji[0].Name != "human" {
		t.Errorf("curator name overwritten: %v", got.Kanji[0].Name)
	}
	if !reflect.DeepEqual(got.Kanji[0].Similar, []string{"入"}) {
		t.Errorf("similar changed: %v", got.Kanji[0].Similar)
	}
}

func TestFillComponentsAndVersion(t *testing.T) {
	skeleton := &jadata.Kanjifile{
		Header: jadata.KanjifileHeader{Version: "1"},
		Kanji:  []jadata.Kanji{{ID: 1, Kanji: "人"}, {ID: 2, Kanji: "食"}},
	}
	kd2 := hitoKanjidic()
	kd2.Characters = append(kd2.Characters, character("食",
		[]dictionary.CharacterReading{{Type: "ja_kun", Value: "た.べる"}, {Type: "pinyin", Value: "shi2"}},
		dictionary.Meaning{Value: "food"}, dictionary.Meaning{Value: "eat"}, dictionary.Meaning{Lang: "fr", Value: "manger"},
	))
	krad := &dictionary.Kradfile{Components: map[string][]string{"食": {"人", "良"}}}

	got, err := Fill(skeleton, kd2, krad, "2")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	taberu := got.Kanji[1]
	if !reflect.DeepEqual(taberu.Components, []string{"人", "良"}) {
		t.Errorf("components = %v", taberu.Components)
	}
	if !reflect.DeepEqual(taberu.Meanings, []string{"eat", "food"}) {
		t.Errorf("meanings = %v", taberu.Meanings)
	}
	want := []jadata.KanjiReading{{Kind: jadata.Kunyomi, Reading: "た", Okurigana: "べる"}}
	if !reflect.DeepEqual(taberu.Readings, want) {
		t.Errorf("readings = %+v", taberu.Readings)
	}
	if got.Header.Version != "2" {
		t.Errorf("expected version override, got %q", got.Header.Version)
	}
}

func TestFillIsIdempotent(t *testing.T) {
	skeleton := &jadata.Kanjifile{Kanji: []jadata.Kanji{{ID: 1, Kanji: "人"}}}
	first, err := Fill(skeleton, hitoKanjidic(), nil, "")
	if err != nil {
		t.Fatalf("first fill: %v", err)
	}
	second, err := Fill(first, hitoKanjidic(), nil, "")
	if err != nil {
		t.Fatalf("second fill: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second run differs:\n%+v\n%+v", first, second)
	}
}

func TestFillErrors(t *testing.T) {
	tests := []struct {
		name     string
		skeleton []jadata.Kanji
		literals []string
		want     error
	}{
		{"missing entry", []jadata.Kanji{{ID: 1, Kanji: "人"}}, []string{"人", "入"}, jadata.ErrMissingEntry},
		{"multi codepoint", []jadata.Kanji{{ID: 1, Kanji: "人"}}, []string{"人入"}, jadata.ErrMultiCodepoint},
		{"repeated literal", []jadata.Kanji{{ID: 1, Kanji: "人"}}, []string{"人", "人"}, jadata.ErrDuplicateLiteral},
		{"repeated id", []jadata.Kanji{{ID: 1, Kanji: "人"}, {ID: 1, Kanji: "入"}}, []string{"人"}, jadata.ErrDuplicateID},
		{"repeated skeleton literal", []jadata.Kanji{{ID: 1, Kanji: "人"}, {ID: 2, Kanji: "人"}}, []string{"人"}, jadata.ErrDuplicateLiteral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kd2 := &dictionary.Kanjidic2{}
			for _, l := range tt.literals {
				kd2.Characters = append(kd2.Characters, dictionary.Character{Literal: l})
			}
			_, err := Fill(&jadata.Kanjifile{Kanji: tt.skeleton}, kd2, nil, "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var ie *jadata.IntegrityError
			if !errors.As(err, &ie) || ie.Key == "" {
				t.Errorf("expected integrity error with key, got %#v", err)
			}
		})
	}
}

func TestParseReading(t *testing.T) {
	tests := []struct {
		typ, value string
		want       jadata.KanjiReading
		ok         bool
	}{
		{"ja_on", "ジン", jadata.KanjiReading{Kind: jadata.Onyomi, Reading: "ジン"}, true},
		{"ja_kun", "た.べる", jadata.KanjiReading{Kind: jadata.Kunyomi, Reading: "た", Okurigana: "べる"}, true},
		{"ja_kun", "-び", jadata.KanjiReading{Kind: jadata.Kunyomi, Reading: "び", Position: jadata.PositionSuffix}, true},
		{"ja_kun", "お-", jadata.KanjiReading{Kind: jadata.Kunyomi, Reading: "お", Position: jadata.PositionPrefix}, true},
		{"ja_kun", "-つ.ぐ", jadata.KanjiReading{Kind: jadata.Kunyomi, Reading: "つ", Okurigana: "ぐ", Position: jadata.PositionSuffix}, true},
		{"pinyin", "ren2", jadata.KanjiReading{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseReading(tt.typ, tt.value)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseReading(%q, %q) = %+v, %v; want %+v, %v", tt.typ, tt.value, got, ok, tt.want, tt.ok)
		}
	}
}
