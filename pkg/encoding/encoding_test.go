package encoding

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/japaniel/jadata/pkg/jadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func sampleKanjifile() *jadata.Kanjifile {
	name := "eat"
	empty := ""
	return &jadata.Kanjifile{
		Header: jadata.KanjifileHeader{Version: "3", KanjidicVersion: "4"},
		Kanji: []jadata.Kanji{
			{ID: 1, Kanji: "人", Meanings: []string{"person"}, Name: &empty},
			{
				ID: 2, Kanji: "食", Name: &name,
				Components: []string{"人", "良"},
				Meanings:   []string{"eat", "food"},
				Similar:    []string{"良"},
				Readings: []jadata.KanjiReading{
					{Kind: jadata.Onyomi, Reading: "ショク"},
					{Kind: jadata.Kunyomi, Reading: "た", Okurigana: "べる"},
					{Kind: jadata.Kunyomi, Reading: "ぐい", Position: jadata.PositionSuffix},
				},
			},
			{ID: 65535, Kanji: "𠀋"},
		},
	}
}

func sampleWordfile() *jadata.Wordfile {
	return &jadata.Wordfile{
		Header: jadata.WordfileHeader{Version: "1", JMdictVersion: "1.09"},
		Words: []jadata.Word{
			{ID: 1, JMdictID: 1001, WrittenForms: []string{"きれい", "キレイ"}, Meanings: []string{"pretty"}},
			{
				ID: 2, JMdictID: 1003, WrittenForms: []string{"日本"},
				Meanings: []string{"Nippon", "Japan"},
				Readings: []jadata.Reading{
					{Reading: "にほん", Furigana: []jadata.Furigana{{StartIdx: 0, EndIdx: 3, Furigana: "に"}, {StartIdx: 3, EndIdx: 6, Furigana: "ほん"}}},
					{Reading: "にっぽん", UsuallyKana: true},
				},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "Binary", " sqlite "} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestBinaryRoundTrip(t *testing.T) {
	kf, err := UnmarshalKanjifile(MarshalKanjifile(sampleKanjifile()))
	require.NoError(t, err)
	assert.Equal(t, sampleKanjifile(), kf)

	wf, err := UnmarshalWordfile(MarshalWordfile(sampleWordfile()))
	require.NoError(t, err)
	assert.Equal(t, sampleWordfile(), wf)
}

func TestBinarySkipsUnknownFields(t *testing.T) {
	b := MarshalWordfile(sampleWordfile())
	b = protowire.AppendTag(b, 15, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 7)
	b = protowire.AppendTag(b, 16, protowire.BytesType)
	b = protowire.AppendString(b, "future")

	wf, err := UnmarshalWordfile(b)
	require.NoError(t, err)
	assert.Equal(t, sampleWordfile(), wf)
}

func TestBinaryRejectsTruncatedInput(t *testing.T) {
	b := MarshalKanjifile(sampleKanjifile())
	_, err := UnmarshalKanjifile(b[:len(b)-3])
	assert.Error(t, err)
}

func TestJSONLayout(t *testing.T) {
	data, err := MarshalJSON(&jadata.Wordfile{
		Header: jadata.WordfileHeader{Version: "1", JMdictVersion: "1.09"},
		Words:  []jadata.Word{{ID: 1, JMdictID: 1000, WrittenForms: []string{"食べる"}}},
	})
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "\n  \"header\": {\n    \"version\": \"1\",\n    \"jmdict_version\": \"1.09\"")
	assert.Contains(t, out, "\"written_forms\": [\n        \"食べる\"")
	assert.NotContains(t, out, "meanings")
	assert.NotContains(t, out, "readings")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestWriteAndReadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kanjifile.json")
	require.NoError(t, WriteKanjifile(context.Background(), path, FormatJSON, sampleKanjifile(), Options{}))

	kf, err := ReadKanjifile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleKanjifile(), kf)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	assertNoTempFiles(t, dir)
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadWordfile(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kanjiPath := filepath.Join(dir, "kanjifile.db")
	require.NoError(t, WriteKanjifile(ctx, kanjiPath, FormatSQLite, sampleKanjifile(), Options{BatchSize: 2}))
	kf, err := ImportKanjifile(kanjiPath)
	require.NoError(t, err)
	assert.Equal(t, sampleKanjifile(), kf)

	wordPath := filepath.Join(dir, "wordfile.db")
	require.NoError(t, WriteWordfile(ctx, wordPath, FormatSQLite, sampleWordfile(), Options{BatchSize: 1}))
	wf, err := ImportWordfile(wordPath)
	require.NoError(t, err)
	assert.Equal(t, sampleWordfile(), wf)

	assertNoTempFiles(t, dir)
}

func TestReplaceFileKeepsOriginalOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wordfile.json")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	err := ReplaceFile(path, func(tmpPath string) error {
		require.NoError(t, os.WriteFile(tmpPath, []byte("partial"), 0644))
		return errors.New("encode failed")
	})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	assertNoTempFiles(t, dir)
}

func TestSQLiteExportFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kanjifile.db")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	// Repeated literals violate the kanji table's unique constraint.
	kf := &jadata.Kanjifile{Kanji: []jadata.Kanji{{ID: 1, Kanji: "人"}, {ID: 2, Kanji: "人"}}}
	err := WriteKanjifile(context.Background(), path, FormatSQLite, kf, Options{})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	assertNoTempFiles(t, dir)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temporary file %s", e.Name())
	}
}
