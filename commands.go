package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hannajonsd/depcheck/analyzer"
	"github.com/hannajonsd/depcheck/config"
	"github.com/hannajonsd/depcheck/manifest"
	"github.com/hannajonsd/depcheck/resolver"
	"github.com/hannajonsd/depcheck/watch"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errProblemsFound = errors.New("extraneous dependencies found")

type globalFlags struct {
	configPath string
	cwd        string
	logLevel   string
	envFile    string
	format     string
	jobs       int
	noCache    bool
	noResolve  bool
}

func newRootCommand(log *logrus.Logger) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "depcheck",
		Short:         "Report imports of packages not declared in package.json",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, flags, log)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to a .depcheck.yaml/.json options file (env DEPCHECK_CONFIG)")
	pf.StringVar(&flags.cwd, "cwd", "", "Working directory that anchors packageDir and glob patterns")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (env DEPCHECK_LOG_LEVEL)")
	pf.StringVar(&flags.envFile, "env-file", "", "Load environment variables from this file (default .env if present)")
	pf.StringVarP(&flags.format, "format", "f", analyzer.FormatText, "Output format: text or json")
	pf.IntVarP(&flags.jobs, "jobs", "j", 0, "Files analyzed in parallel (default number of CPUs)")
	pf.BoolVar(&flags.noCache, "no-cache", false, "Re-read package.json for every file")
	pf.BoolVar(&flags.noResolve, "no-resolve", false, "Treat every package as installed instead of checking node_modules")

	root.AddCommand(newLintCommand(flags, log), newWatchCommand(flags, log))
	return root
}

func setup(cmd *cobra.Command, flags *globalFlags, log *logrus.Logger) error {
	if flags.envFile != "" {
		if err := godotenv.Load(flags.envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", flags.envFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Warnf("Failed to load .env: %v", err)
		}
	}

	level := flags.logLevel
	if level == "" {
		level = os.Getenv("DEPCHECK_LOG_LEVEL")
	}
	if level == "" {
		level = "warn"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)

	if flags.cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		flags.cwd = cwd
	}
	abs, err := filepath.Abs(flags.cwd)
	if err != nil {
		return err
	}
	flags.cwd = abs

	if flags.configPath == "" {
		flags.configPath = os.Getenv("DEPCHECK_CONFIG")
	}
	return nil
}

func loadOptions(flags *globalFlags, log *logrus.Logger) (*config.Options, error) {
	if flags.configPath != "" {
		log.Debugf("Loading options from %s", flags.configPath)
		return config.Load(flags.configPath)
	}

	opts, path, err := config.LoadFromDir(flags.cwd)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Debugf("Loaded options from %s", path)
	}
	return opts, nil
}

func newAnalyzer(flags *globalFlags, log *logrus.Logger) (*analyzer.DependencyAnalyzer, *manifest.CachedReader, error) {
	opts, err := loadOptions(flags, log)
	if err != nil {
		return nil, nil, err
	}

	analyzerOpts := []analyzer.Option{analyzer.WithLogger(log)}
	if flags.jobs > 0 {
		analyzerOpts = append(analyzerOpts, analyzer.WithJobs(flags.jobs))
	}
	if flags.noResolve {
		analyzerOpts = append(analyzerOpts, analyzer.WithResolver(resolver.Any))
	}

	var cache *manifest.CachedReader
	if !flags.noCache {
		cache, err = manifest.NewCachedReader(manifest.FileReader{}, 256)
		if err != nil {
			return nil, nil, err
		}
		analyzerOpts = append(analyzerOpts, analyzer.WithManifestReader(cache))
	}

	return analyzer.New(opts, flags.cwd, analyzerOpts...), cache, nil
}

func newLintCommand(flags *globalFlags, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check source files once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			a, _, err := newAnalyzer(flags, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var results []analyzer.FileResult
			for _, path := range args {
				r, err := a.AnalyzeRepository(ctx, path)
				if err != nil {
					return err
				}
				results = append(results, r...)
			}

			if err := analyzer.WriteResults(cmd.OutOrStdout(), flags.format, results); err != nil {
				return err
			}
			if analyzer.Summarize(results).Diagnostics > 0 {
				return errProblemsFound
			}
			return nil
		},
	}
}

func newWatchCommand(flags *globalFlags, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [root]",
		Short: "Check source files again whenever they or a package.json change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			a, cache, err := newAnalyzer(flags, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report := func(results []analyzer.FileResult) {
				if err := analyzer.WriteResults(cmd.OutOrStdout(), flags.format, results); err != nil {
					log.Errorf("Failed to write results: %v", err)
				}
			}

			results, err := a.AnalyzeRepository(ctx, root)
			if err != nil {
				return err
			}
			report(results)

			w, err := watch.New(root, log)
			if err != nil {
				return err
			}
			log.Infof("Watching %s for changes", root)

			return w.Run(ctx, func(ctx context.Context, batch watch.Batch) {
				var results []analyzer.FileResult
				var err error

				if len(batch.Manifests) > 0 {
					invalidateManifests(cache, batch.Manifests, log)
					results, err = a.AnalyzeRepository(ctx, root)
				} else {
					results, err = a.AnalyzeFiles(ctx, batch.Sources)
				}

				if err != nil {
					if !errors.Is(err, context.Canceled) {
						log.Errorf("Analysis failed: %v", err)
					}
					return
				}
				report(results)
			})
		},
	}
}

// invalidateManifests drops changed manifests from the cache. Entries are keyed on
// absolute paths while watch events carry paths relative to the watched root.
func invalidateManifests(cache *manifest.CachedReader, paths []string, log *logrus.Logger) {
	if cache == nil {
		return
	}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			log.Warnf("Failed to resolve %s, purging manifest cache: %v", path, err)
			cache.Purge()
			return
		}
		cache.Invalidate(abs)
	}
}
