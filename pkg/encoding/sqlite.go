package encoding

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/japaniel/jadata/pkg/db"
	"github.com/japaniel/jadata/pkg/jadata"
)

// ExportKanjifile writes kf into a new SQLite database at path.
func ExportKanjifile(ctx context.Context, path string, kf *jadata.Kanjifile, batchSize int) error {
	return export(ctx, path, batchSize, func(conn *sql.DB, bw *db.BatchWriter) error {
		if _, err := db.RecordBuild(conn, db.DatasetKanjifile, kf.Header.Version, kf.Header.KanjidicVersion); err != nil {
			return err
		}
		for _, k := range kf.Kanji {
			err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
				return db.InsertKanji(tx, k)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ExportWordfile writes wf into a new SQLite database at path.
func ExportWordfile(ctx context.Context, path string, wf *jadata.Wordfile, batchSize int) error {
	return export(ctx, path, batchSize, func(conn *sql.DB, bw *db.BatchWriter) error {
		if _, err := db.RecordBuild(conn, db.DatasetWordfile, wf.Header.Version, wf.Header.JMdictVersion); err != nil {
			return err
		}
		for _, w := range wf.Words {
			err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
				return db.InsertWord(tx, w)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func export(ctx context.Context, path string, batchSize int, submit func(*sql.DB, *db.BatchWriter) error) error {
	conn, err := db.Open(path)
	if err != nil {
		return err
	}
	defer conn.Close()

	bw := db.NewBatchWriter(ctx, conn, batchSize)
	submitErr := submit(conn, bw)
	closeErr := bw.Close()
	if submitErr != nil {
		return fmt.Errorf("write sqlite: %w", submitErr)
	}
	if closeErr != nil {
		return fmt.Errorf("write sqlite: %w", closeErr)
	}
	return conn.Close()
}

// ImportKanjifile reads a kanjifile from a SQLite database written by ExportKanjifile.
func ImportKanjifile(path string) (*jadata.Kanjifile, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return db.GetKanjifile(conn)
}

// ImportWordfile reads a wordfile from a SQLite database written by ExportWordfile.
func ImportWordfile(path string) (*jadata.Wordfile, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return db.GetWordfile(conn)
}
