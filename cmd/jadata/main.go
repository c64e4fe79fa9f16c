package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/japaniel/jadata/pkg/config"
	"github.com/japaniel/jadata/pkg/encoding"
	"github.com/japaniel/jadata/pkg/logging"
	"github.com/japaniel/jadata/pkg/pipeline"
)

var version = "0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("jadata failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// app carries state shared by the subcommands once the root command has run.
type app struct {
	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configPath, logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:           "jadata",
		Short:         "Build the kanjifile and wordfile datasets",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `jadata reconciles hand-curated kanjifile and wordfile skeletons against
KANJIDIC2, KRADFILE, JMdict and JmdictFurigana.

The skeleton commands create or extend the identity lists with stable ids.
The kanjifile and wordfile commands fill a skeleton with meanings, readings,
components and furigana and write the finished dataset.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			a.cfg = cfg
			a.log = logging.New(cfg.Log)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default $"+config.PathEnv+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text|json")

	rootCmd.AddCommand(
		a.kanjifileCmd(),
		a.wordfileCmd(),
		a.kanjifileSkeletonCmd(),
		a.wordfileSkeletonCmd(),
	)
	return rootCmd
}

func (a *app) kanjifileCmd() *cobra.Command {
	var p pipeline.KanjifileParams
	var format, kradEncoding string
	cmd := &cobra.Command{
		Use:   "kanjifile",
		Short: "Fill the kanjifile skeleton from KANJIDIC2 and KRADFILE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Kanjidic2 = orDefault(p.Kanjidic2, a.cfg.Input.Kanjidic2)
			p.Kradfile = orDefault(p.Kradfile, a.cfg.Input.Kradfile)
			if err := required(map[string]string{"kanjidic2": p.Kanjidic2, "kradfile": p.Kradfile}); err != nil {
				return err
			}
			f, err := encoding.ParseFormat(orDefault(format, a.cfg.Output.Format))
			if err != nil {
				return err
			}
			p.Format = f
			p.KradfileEncoding = orDefault(kradEncoding, a.cfg.Input.KradfileEncoding)
			p.BatchSize = a.cfg.Output.BatchSize
			return pipeline.BuildKanjifile(cmd.Context(), a.log, p)
		},
	}
	cmd.Flags().StringVarP(&p.Kanjidic2, "kanjidic2", "d", "", "Path to KANJIDIC2 XML")
	cmd.Flags().StringVarP(&p.Kradfile, "kradfile", "k", "", "Path to KRADFILE")
	cmd.Flags().StringVarP(&p.Skeleton, "skeleton", "s", "", "Path to kanjifile skeleton JSON")
	cmd.Flags().StringVarP(&p.Out, "out", "o", "", "Output path")
	cmd.Flags().StringVarP(&format, "format", "t", "", "Output format: json|binary|sqlite")
	cmd.Flags().StringVar(&kradEncoding, "kradfile-encoding", "", "KRADFILE encoding: euc-jp|utf-8")
	cmd.Flags().StringVar(&p.Version, "version", "", "Set the kanjifile version")
	cmd.MarkFlagRequired("skeleton")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) wordfileCmd() *cobra.Command {
	var p pipeline.WordfileParams
	var format string
	cmd := &cobra.Command{
		Use:   "wordfile",
		Short: "Fill the wordfile skeleton from JMdict and JmdictFurigana",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.JMdict = orDefault(p.JMdict, a.cfg.Input.JMdict)
			p.Furigana = orDefault(p.Furigana, a.cfg.Input.Furigana)
			if err := required(map[string]string{"jmdict": p.JMdict, "furigana": p.Furigana}); err != nil {
				return err
			}
			f, err := encoding.ParseFormat(orDefault(format, a.cfg.Output.Format))
			if err != nil {
				return err
			}
			p.Format = f
			p.BatchSize = a.cfg.Output.BatchSize
			return pipeline.BuildWordfile(cmd.Context(), a.log, p)
		},
	}
	cmd.Flags().StringVarP(&p.JMdict, "jmdict", "j", "", "Path to JMdict XML")
	cmd.Flags().StringVarP(&p.Furigana, "furigana", "f", "", "Path to JmdictFurigana JSON")
	cmd.Flags().StringVarP(&p.Skeleton, "skeleton", "s", "", "Path to wordfile skeleton JSON")
	cmd.Flags().StringVarP(&p.Out, "out", "o", "", "Output path")
	cmd.Flags().StringVarP(&format, "format", "t", "", "Output format: json|binary|sqlite")
	cmd.Flags().StringVar(&p.Version, "version", "", "Set the wordfile version")
	cmd.MarkFlagRequired("skeleton")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) kanjifileSkeletonCmd() *cobra.Command {
	var p pipeline.SkeletonParams
	cmd := &cobra.Command{
		Use:   "kanjifile-skeleton",
		Short: "Create or update the kanjifile skeleton",
		Long:  "Create the kanjifile skeleton at OUT, or add new kanji to it if it already exists.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Kanjidic2 = orDefault(p.Kanjidic2, a.cfg.Input.Kanjidic2)
			p.JMdict = orDefault(p.JMdict, a.cfg.Input.JMdict)
			if err := required(map[string]string{"kanjidic2": p.Kanjidic2, "jmdict": p.JMdict}); err != nil {
				return err
			}
			_, err := pipeline.BuildKanjifileSkeleton(cmd.Context(), a.log, p)
			return err
		},
	}
	cmd.Flags().StringVarP(&p.Kanjidic2, "kanjidic2", "d", "", "Path to KANJIDIC2 XML")
	cmd.Flags().StringVarP(&p.JMdict, "jmdict", "j", "", "Path to JMdict XML")
	cmd.Flags().StringVarP(&p.Out, "out", "o", "", "Skeleton path")
	cmd.Flags().BoolVar(&p.Clean, "clean", false, "Ignore an existing skeleton and start over")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) wordfileSkeletonCmd() *cobra.Command {
	var p pipeline.SkeletonParams
	cmd := &cobra.Command{
		Use:   "wordfile-skeleton",
		Short: "Create or update the wordfile skeleton",
		Long:  "Create the wordfile skeleton at OUT, or append new words to it if it already exists.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.JMdict = orDefault(p.JMdict, a.cfg.Input.JMdict)
			if err := required(map[string]string{"jmdict": p.JMdict}); err != nil {
				return err
			}
			_, err := pipeline.BuildWordfileSkeleton(cmd.Context(), a.log, p)
			return err
		},
	}
	cmd.Flags().StringVarP(&p.JMdict, "jmdict", "j", "", "Path to JMdict XML")
	cmd.Flags().StringVarP(&p.Out, "out", "o", "", "Skeleton path")
	cmd.Flags().BoolVar(&p.Clean, "clean", false, "Ignore an existing skeleton and start over")
	cmd.MarkFlagRequired("out")
	return cmd
}

func orDefault(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func required(paths map[string]string) error {
	for _, name := range []string{"kanjidic2", "kradfile", "jmdict", "furigana"} {
		if v, ok := paths[name]; ok && v == "" {
			return fmt.Errorf("missing %s path: pass --%s or set it in the config", name, name)
		}
	}
	return nil
}
