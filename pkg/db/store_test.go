package db

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/japaniel/jadata/pkg/jadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKanjiRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	name := "eat"
	want := &jadata.Kanjifile{
		Header: jadata.KanjifileHeader{Version: "2", KanjidicVersion: "4"},
		Kanji: []jadata.Kanji{
			{ID: 1, Kanji: "人", Meanings: []string{"person"}},
			{
				ID: 2, Kanji: "食", Name: &name,
				Components: []string{"人", "良"},
				Meanings:   []string{"eat", "food"},
				Similar:    []string{"良"},
				Readings: []jadata.KanjiReading{
					{Kind: jadata.Kunyomi, Reading: "た", Okurigana: "べる"},
					{Kind: jadata.Kunyomi, Reading: "ぐい", Position: jadata.PositionSuffix},
				},
			},
		},
	}

	_, err := RecordBuild(db, DatasetKanjifile, want.Header.Version, want.Header.KanjidicVersion)
	require.NoError(t, err)
	for _, k := range want.Kanji {
		require.NoError(t, InsertKanji(db, k))
	}

	got, err := GetKanjifile(db)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWordRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	want := &jadata.Wordfile{
		Header: jadata.WordfileHeader{Version: "1", JMdictVersion: "1.09"},
		Words: []jadata.Word{
			{ID: 1, JMdictID: 1001, WrittenForms: []string{"きれい", "キレイ"}, Meanings: []string{"pretty"}},
			{
				ID: 2, JMdictID: 1003, WrittenForms: []string{"日本"},
				Meanings: []string{"Japan"},
				Readings: []jadata.Reading{
					{Reading: "にほん", Furigana: []jadata.Furigana{{StartIdx: 0, EndIdx: 3, Furigana: "に"}, {StartIdx: 3, EndIdx: 6, Furigana: "ほん"}}},
					{Reading: "にっぽん", UsuallyKana: true},
				},
			},
		},
	}

	_, err := RecordBuild(db, DatasetWordfile, want.Header.Version, want.Header.JMdictVersion)
	require.NoError(t, err)
	for _, w := range want.Words {
		require.NoError(t, InsertWord(db, w))
	}

	got, err := GetWordfile(db)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecordBuild(t *testing.T) {
	db := setupTestDB(t)

	first, err := RecordBuild(db, DatasetWordfile, "1", "1.08")
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	require.NoError(t, err)

	second, err := RecordBuild(db, DatasetWordfile, "2", "1.09")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	latest, err := LatestBuild(db, DatasetWordfile)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "1.09", latest.UpstreamVersion)

	_, err = LatestBuild(db, DatasetKanjifile)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInsertKanjiRejectsDuplicateLiteral(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, InsertKanji(db, jadata.Kanji{ID: 1, Kanji: "人"}))
	assert.Error(t, InsertKanji(db, jadata.Kanji{ID: 2, Kanji: "人"}))
	assert.Error(t, InsertKanji(db, jadata.Kanji{ID: 1, Kanji: "入"}))
}
