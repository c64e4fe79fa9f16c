// Package pipeline drives the four jadata operations: load the inputs, run a builder or
// enricher, write the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/japaniel/jadata/pkg/dictionary"
	"github.com/japaniel/jadata/pkg/encoding"
	"github.com/japaniel/jadata/pkg/jadata"
	"github.com/japaniel/jadata/pkg/kanjifile"
	"github.com/japaniel/jadata/pkg/wordfile"
)

// KanjifileParams are the inputs of BuildKanjifile.
type KanjifileParams struct {
	Kanjidic2        string
	Kradfile         string
	KradfileEncoding string
	Skeleton         string
	Out              string
	Format           encoding.Format
	// Version replaces the kanjifile version when set.
	Version   string
	BatchSize int
}

// WordfileParams are the inputs of BuildWordfile.
type WordfileParams struct {
	JMdict    string
	Furigana  string
	Skeleton  string
	Out       string
	Format    encoding.Format
	Version   string
	BatchSize int
}

// SkeletonParams are the inputs of the skeleton builds. Kanjidic2 is ignored for words.
type SkeletonParams struct {
	Kanjidic2 string
	JMdict    string
	Out       string
	// Clean starts from an empty skeleton even when Out exists.
	Clean bool
}

func logger(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

// BuildKanjifile fills the kanjifile skeleton from KANJIDIC2 and KRADFILE and writes it.
func BuildKanjifile(ctx context.Context, log *slog.Logger, p KanjifileParams) error {
	log = logger(log)
	start := time.Now()

	var (
		skeleton *jadata.Kanjifile
		kd2      *dictionary.Kanjidic2
		krad     *dictionary.Kradfile
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		skeleton, err = encoding.ReadKanjifile(p.Skeleton)
		if err != nil {
			return fmt.Errorf("read skeleton: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		kd2, err = dictionary.LoadKanjidic2(p.Kanjidic2)
		return err
	})
	g.Go(func() (err error) {
		krad, err = dictionary.LoadKradfile(p.Kradfile, p.KradfileEncoding)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Info("loaded inputs",
		slog.Int("skeleton", len(skeleton.Kanji)),
		slog.Int("characters", len(kd2.Characters)),
		slog.Int("decompositions", len(krad.Components)),
		slog.Duration("elapsed", time.Since(start)))

	kf, err := kanjifile.Fill(skeleton, kd2, krad, p.Version)
	if err != nil {
		return fmt.Errorf("fill kanjifile: %w", err)
	}
	if err := encoding.WriteKanjifile(ctx, p.Out, p.Format, kf, encoding.Options{BatchSize: p.BatchSize}); err != nil {
		return fmt.Errorf("write kanjifile: %w", err)
	}

	log.Info("wrote kanjifile",
		slog.String("path", p.Out),
		slog.String("format", string(p.Format)),
		slog.Int("kanji", len(kf.Kanji)),
		slog.String("kanjidic2_version", kf.Header.KanjidicVersion),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// BuildWordfile fills the wordfile skeleton from JMdict and JmdictFurigana and writes it.
func BuildWordfile(ctx context.Context, log *slog.Logger, p WordfileParams) error {
	log = logger(log)
	start := time.Now()

	var (
		skeleton *jadata.Wordfile
		jm       *dictionary.JMdict
		furigana []dictionary.Furigana
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		skeleton, err = encoding.ReadWordfile(p.Skeleton)
		if err != nil {
			return fmt.Errorf("read skeleton: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		jm, err = dictionary.LoadJMdict(p.JMdict)
		return err
	})
	g.Go(func() (err error) {
		furigana, err = dictionary.LoadFurigana(p.Furigana)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Info("loaded inputs",
		slog.Int("skeleton", len(skeleton.Words)),
		slog.Int("entries", len(jm.Entries)),
		slog.Int("furigana", len(furigana)),
		slog.String("jmdict_version", jm.Version),
		slog.Duration("elapsed", time.Since(start)))

	wf, err := wordfile.Fill(log, skeleton, jm, furigana, p.Version)
	if err != nil {
		return fmt.Errorf("fill wordfile: %w", err)
	}
	if err := encoding.WriteWordfile(ctx, p.Out, p.Format, wf, encoding.Options{BatchSize: p.BatchSize}); err != nil {
		return fmt.Errorf("write wordfile: %w", err)
	}

	log.Info("wrote wordfile",
		slog.String("path", p.Out),
		slog.String("format", string(p.Format)),
		slog.Int("words", len(wf.Words)),
		slog.String("jmdict_version", wf.Header.JMdictVersion),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// BuildKanjifileSkeleton creates the kanjifile skeleton at p.Out, or updates it if it exists.
func BuildKanjifileSkeleton(ctx context.Context, log *slog.Logger, p SkeletonParams) (kanjifile.Stats, error) {
	log = logger(log)
	start := time.Now()

	var (
		existing *jadata.Kanjifile
		kd2      *dictionary.Kanjidic2
		jm       *dictionary.JMdict
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		existing, err = readExisting(p, encoding.ReadKanjifile)
		return err
	})
	g.Go(func() (err error) {
		kd2, err = dictionary.LoadKanjidic2(p.Kanjidic2)
		return err
	})
	g.Go(func() (err error) {
		jm, err = dictionary.LoadJMdict(p.JMdict)
		return err
	})
	if err := g.Wait(); err != nil {
		return kanjifile.Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return kanjifile.Stats{}, err
	}

	var (
		kf    *jadata.Kanjifile
		stats kanjifile.Stats
		err   error
	)
	if existing == nil {
		kf, stats, err = kanjifile.Create(log, kd2, jm)
	} else {
		kf, stats, err = kanjifile.Update(log, existing, kd2, jm)
	}
	if err != nil {
		return stats, fmt.Errorf("build kanjifile skeleton: %w", err)
	}
	if err := writeSkeleton(p.Out, kf); err != nil {
		return stats, err
	}

	log.Info("wrote kanjifile skeleton",
		slog.String("path", p.Out),
		slog.Int("existing", stats.Existing),
		slog.Int("added", stats.Added),
		slog.Int("word_only", stats.WordOnly),
		slog.Int("missing", stats.Missing),
		slog.Duration("elapsed", time.Since(start)))
	return stats, nil
}

// BuildWordfileSkeleton creates the wordfile skeleton at p.Out, or updates it if it exists.
func BuildWordfileSkeleton(ctx context.Context, log *slog.Logger, p SkeletonParams) (wordfile.Stats, error) {
	log = logger(log)
	start := time.Now()

	var (
		existing *jadata.Wordfile
		jm       *dictionary.JMdict
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		existing, err = readExisting(p, encoding.ReadWordfile)
		return err
	})
	g.Go(func() (err error) {
		jm, err = dictionary.LoadJMdict(p.JMdict)
		return err
	})
	if err := g.Wait(); err != nil {
		return wordfile.Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return wordfile.Stats{}, err
	}

	var (
		wf    *jadata.Wordfile
		stats wordfile.Stats
		err   error
	)
	if existing == nil {
		wf, stats, err = wordfile.Create(log, jm, jm.Version)
	} else {
		wf, stats, err = wordfile.Update(log, existing, jm, jm.Version)
	}
	if err != nil {
		return stats, fmt.Errorf("build wordfile skeleton: %w", err)
	}
	if err := writeSkeleton(p.Out, wf); err != nil {
		return stats, err
	}

	log.Info("wrote wordfile skeleton",
		slog.String("path", p.Out),
		slog.String("jmdict_version", jm.Version),
		slog.Int("existing", stats.Existing),
		slog.Int("added", stats.Added),
		slog.Int("missing", stats.Missing),
		slog.Int("new_forms", stats.NewForms),
		slog.Duration("elapsed", time.Since(start)))
	return stats, nil
}

// readExisting returns nil when the skeleton should be created from scratch.
func readExisting[T any](p SkeletonParams, read func(string) (*T, error)) (*T, error) {
	if p.Clean {
		return nil, nil
	}
	existing, err := read(p.Out)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read skeleton: %w", err)
	}
	return existing, nil
}

func writeSkeleton(path string, v interface{}) error {
	data, err := encoding.MarshalJSON(v)
	if err != nil {
		return err
	}
	if err := encoding.WriteFile(path, data); err != nil {
		return fmt.Errorf("write skeleton: %w", err)
	}
	return nil
}
