// Package encoding reads skeletons and writes kanjifile and wordfile datasets.
package encoding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/japaniel/jadata/pkg/jadata"
)

// Format selects the on-disk encoding of a dataset.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBinary Format = "binary"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatJSON, FormatBinary, FormatSQLite}

// ParseFormat returns the format named s (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Options tunes the SQLite output.
type Options struct {
	// BatchSize is the number of entries committed per transaction.
	BatchSize int
}

// ReplaceFile writes the file at path by calling write with the path of a temporary file in
// the same directory and renaming it over path once write succeeds. On failure the
// temporary file is removed and path is left untouched.
func ReplaceFile(path string, write func(tmpPath string) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if err := write(tmpPath); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteFile replaces the file at path with data.
func WriteFile(path string, data []byte) error {
	return ReplaceFile(path, func(tmpPath string) error {
		if err := os.Chmod(tmpPath, 0644); err != nil {
			return err
		}
		f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return err
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

// WriteKanjifile encodes kf in format and replaces path with it.
func WriteKanjifile(ctx context.Context, path string, format Format, kf *jadata.Kanjifile, opts Options) error {
	switch format {
	case FormatJSON:
		data, err := MarshalJSON(kf)
		if err != nil {
			return err
		}
		return WriteFile(path, data)
	case FormatBinary:
		return WriteFile(path, MarshalKanjifile(kf))
	case FormatSQLite:
		return ReplaceFile(path, func(tmpPath string) error {
			return ExportKanjifile(ctx, tmpPath, kf, opts.BatchSize)
		})
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteWordfile encodes wf in format and replaces path with it.
func WriteWordfile(ctx context.Context, path string, format Format, wf *jadata.Wordfile, opts Options) error {
	switch format {
	case FormatJSON:
		data, err := MarshalJSON(wf)
		if err != nil {
			return err
		}
		return WriteFile(path, data)
	case FormatBinary:
		return WriteFile(path, MarshalWordfile(wf))
	case FormatSQLite:
		return ReplaceFile(path, func(tmpPath string) error {
			return ExportWordfile(ctx, tmpPath, wf, opts.BatchSize)
		})
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
