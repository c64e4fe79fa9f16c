package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/japaniel/jadata/pkg/jadata"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// RecordBuild inserts a provenance row for an export and returns it.
func RecordBuild(db DBExecutor, dataset, version, upstreamVersion string) (Build, error) {
	b := Build{
		ID:              uuid.NewString(),
		Dataset:         dataset,
		Version:         version,
		UpstreamVersion: upstreamVersion,
		CreatedAt:       time.Now().UTC(),
	}
	_, err := db.Exec(`INSERT INTO builds (id, dataset, version, upstream_version, created_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Dataset, b.Version, b.UpstreamVersion, b.CreatedAt)
	if err != nil {
		return Build{}, fmt.Errorf("insert build: %w", err)
	}
	return b, nil
}

// LatestBuild returns the most recent build of dataset.
func LatestBuild(db DBExecutor, dataset string) (Build, error) {
	var b Build
	err := db.QueryRow(`SELECT id, dataset, version, upstream_version, created_at FROM builds
		WHERE dataset = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, dataset).
		Scan(&b.ID, &b.Dataset, &b.Version, &b.UpstreamVersion, &b.CreatedAt)
	if err != nil {
		return Build{}, err
	}
	return b, nil
}

// InsertKanji writes a kanji entry and its ordered lists.
func InsertKanji(db DBExecutor, k jadata.Kanji) error {
	var name interface{}
	if k.Name != nil {
		name = *k.Name
	}
	if _, err := db.Exec(`INSERT INTO kanji (id, kanji, name) VALUES (?, ?, ?)`, k.ID, k.Kanji, name); err != nil {
		return fmt.Errorf("insert kanji %s: %w", k.Kanji, err)
	}
	if err := insertList(db, `INSERT INTO kanji_components (kanji_id, position, component) VALUES (?, ?, ?)`, int64(k.ID), k.Components); err != nil {
		return fmt.Errorf("insert components of %s: %w", k.Kanji, err)
	}
	if err := insertList(db, `INSERT INTO kanji_meanings (kanji_id, position, meaning) VALUES (?, ?, ?)`, int64(k.ID), k.Meanings); err != nil {
		return fmt.Errorf("insert meanings of %s: %w", k.Kanji, err)
	}
	if err := insertList(db, `INSERT INTO kanji_similar (kanji_id, position, similar) VALUES (?, ?, ?)`, int64(k.ID), k.Similar); err != nil {
		return fmt.Errorf("insert similar of %s: %w", k.Kanji, err)
	}
	for i, r := range k.Readings {
		_, err := db.Exec(`INSERT INTO kanji_readings (kanji_id, position, kind, reading, okurigana, attachment) VALUES (?, ?, ?, ?, ?, ?)`,
			k.ID, i, string(r.Kind), r.Reading, r.Okurigana, string(r.Position))
		if err != nil {
			return fmt.Errorf("insert reading of %s: %w", k.Kanji, err)
		}
	}
	return nil
}

// InsertWord writes a word entry with its written forms, meanings, readings and furigana.
func InsertWord(db DBExecutor, w jadata.Word) error {
	if _, err := db.Exec(`INSERT INTO words (id, jmdict_id) VALUES (?, ?)`, w.ID, w.JMdictID); err != nil {
		return fmt.Errorf("insert word %d: %w", w.ID, err)
	}
	if err := insertList(db, `INSERT INTO word_written_forms (word_id, position, written_form) VALUES (?, ?, ?)`, int64(w.ID), w.WrittenForms); err != nil {
		return fmt.Errorf("insert written forms of %d: %w", w.ID, err)
	}
	if err := insertList(db, `INSERT INTO word_meanings (word_id, position, meaning) VALUES (?, ?, ?)`, int64(w.ID), w.Meanings); err != nil {
		return fmt.Errorf("insert meanings of %d: %w", w.ID, err)
	}
	for i, r := range w.Readings {
		_, err := db.Exec(`INSERT INTO word_readings (word_id, position, reading, usually_kana) VALUES (?, ?, ?, ?)`,
			w.ID, i, r.Reading, r.UsuallyKana)
		if err != nil {
			return fmt.Errorf("insert reading of %d: %w", w.ID, err)
		}
		for j, f := range r.Furigana {
			_, err := db.Exec(`INSERT INTO word_furigana (word_id, reading_position, position, start_idx, end_idx, furigana) VALUES (?, ?, ?, ?, ?, ?)`,
				w.ID, i, j, f.StartIdx, f.EndIdx, f.Furigana)
			if err != nil {
				return fmt.Errorf("insert furigana of %d: %w", w.ID, err)
			}
		}
	}
	return nil
}

func insertList(db DBExecutor, query string, ownerID int64, values []string) error {
	for i, v := range values {
		if _, err := db.Exec(query, ownerID, i, v); err != nil {
			return err
		}
	}
	return nil
}

// GetKanjifile reads back the kanji entries and the header of the latest kanjifile build.
func GetKanjifile(db DBExecutor) (*jadata.Kanjifile, error) {
	b, err := LatestBuild(db, DatasetKanjifile)
	if err != nil {
		return nil, fmt.Errorf("latest build: %w", err)
	}
	kf := &jadata.Kanjifile{Header: jadata.KanjifileHeader{Version: b.Version, KanjidicVersion: b.UpstreamVersion}}

	rows, err := db.Query(`SELECT id, kanji, name FROM kanji ORDER BY id`)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint16]int)
	for rows.Next() {
		var k jadata.Kanji
		var name sql.NullString
		if err := rows.Scan(&k.ID, &k.Kanji, &name); err != nil {
			rows.Close()
			return nil, err
		}
		if name.Valid {
			n := name.String
			k.Name = &n
		}
		byID[k.ID] = len(kf.Kanji)
		kf.Kanji = append(kf.Kanji, k)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	lists := []struct {
		query string
		field func(k *jadata.Kanji) *[]string
	}{
		{`SELECT kanji_id, component FROM kanji_components ORDER BY kanji_id, position`, func(k *jadata.Kanji) *[]string { return &k.Components }},
		{`SELECT kanji_id, meaning FROM kanji_meanings ORDER BY kanji_id, position`, func(k *jadata.Kanji) *[]string { return &k.Meanings }},
		{`SELECT kanji_id, similar FROM kanji_similar ORDER BY kanji_id, position`, func(k *jadata.Kanji) *[]string { return &k.Similar }},
	}
	for _, l := range lists {
		err := scanList(db, l.query, func(id int64, v string) {
			if i, ok := byID[uint16(id)]; ok {
				field := l.field(&kf.Kanji[i])
				*field = append(*field, v)
			}
		})
		if err != nil {
			return nil, err
		}
	}

	rows, err = db.Query(`SELECT kanji_id, kind, reading, okurigana, attachment FROM kanji_readings ORDER BY kanji_id, position`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id uint16
		var kind, position string
		var r jadata.KanjiReading
		if err := rows.Scan(&id, &kind, &r.Reading, &r.Okurigana, &position); err != nil {
			rows.Close()
			return nil, err
		}
		r.Kind = jadata.ReadingKind(kind)
		r.Position = jadata.Position(position)
		if i, ok := byID[id]; ok {
			kf.Kanji[i].Readings = append(kf.Kanji[i].Readings, r)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return kf, nil
}

// GetWordfile reads back the word entries and the header of the latest wordfile build.
func GetWordfile(db DBExecutor) (*jadata.Wordfile, error) {
	b, err := LatestBuild(db, DatasetWordfile)
	if err != nil {
		return nil, fmt.Errorf("latest build: %w", err)
	}
	wf := &jadata.Wordfile{Header: jadata.WordfileHeader{Version: b.Version, JMdictVersion: b.UpstreamVersion}}

	rows, err := db.Query(`SELECT id, jmdict_id FROM words ORDER BY id`)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint32]int)
	for rows.Next() {
		var w jadata.Word
		if err := rows.Scan(&w.ID, &w.JMdictID); err != nil {
			rows.Close()
			return nil, err
		}
		byID[w.ID] = len(wf.Words)
		wf.Words = append(wf.Words, w)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	err = scanList(db, `SELECT word_id, written_form FROM word_written_forms ORDER BY word_id, position`, func(id int64, v string) {
		if i, ok := byID[uint32(id)]; ok {
			wf.Words[i].WrittenForms = append(wf.Words[i].WrittenForms, v)
		}
	})
	if err != nil {
		return nil, err
	}
	err = scanList(db, `SELECT word_id, meaning FROM word_meanings ORDER BY word_id, position`, func(id int64, v string) {
		if i, ok := byID[uint32(id)]; ok {
			wf.Words[i].Meanings = append(wf.Words[i].Meanings, v)
		}
	})
	if err != nil {
		return nil, err
	}

	rows, err = db.Query(`SELECT word_id, reading, usually_kana FROM word_readings ORDER BY word_id, position`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id uint32
		var r jadata.Reading
		if err := rows.Scan(&id, &r.Reading, &r.UsuallyKana); err != nil {
			rows.Close()
			return nil, err
		}
		if i, ok := byID[id]; ok {
			wf.Words[i].Readings = append(wf.Words[i].Readings, r)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.Query(`SELECT word_id, reading_position, start_idx, end_idx, furigana FROM word_furigana ORDER BY word_id, reading_position, position`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id uint32
		var readingPos int
		var f jadata.Furigana
		if err := rows.Scan(&id, &readingPos, &f.StartIdx, &f.EndIdx, &f.Furigana); err != nil {
			rows.Close()
			return nil, err
		}
		i, ok := byID[id]
		if !ok || readingPos >= len(wf.Words[i].Readings) {
			continue
		}
		r := &wf.Words[i].Readings[readingPos]
		r.Furigana = append(r.Furigana, f)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return wf, nil
}

func scanList(db DBExecutor, query string, add func(id int64, v string)) error {
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	for rows.Next() {
		var id int64
		var v string
		if err := rows.Scan(&id, &v); err != nil {
			rows.Close()
			return err
		}
		add(id, v)
	}
	return closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
