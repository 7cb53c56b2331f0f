package analyzer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/hannajonsd/depcheck/classifier"
	"github.com/hannajonsd/depcheck/config"
	"github.com/hannajonsd/depcheck/manifest"
	"github.com/hannajonsd/depcheck/parser"
	"github.com/hannajonsd/depcheck/resolver"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DependencyAnalyzer checks the imports of source files against their package.json
type DependencyAnalyzer struct {
	options    *config.Options
	cwd        string
	reader     manifest.Reader
	aggregator *manifest.Aggregator
	resolver   classifier.Resolver
	jobs       int
	log        *logrus.Logger
}

// Option customizes a DependencyAnalyzer
type Option func(*DependencyAnalyzer)

// WithResolver replaces the node_modules resolver
func WithResolver(r classifier.Resolver) Option {
	return func(a *DependencyAnalyzer) { a.resolver = r }
}

// WithManifestReader replaces the manifest reader, e.g. with a cache
func WithManifestReader(r manifest.Reader) Option {
	return func(a *DependencyAnalyzer) { a.reader = r }
}

// WithLogger sets the logger
func WithLogger(log *logrus.Logger) Option {
	return func(a *DependencyAnalyzer) { a.log = log }
}

// WithJobs sets how many files are analyzed at once
func WithJobs(n int) Option {
	return func(a *DependencyAnalyzer) { a.jobs = n }
}

// New creates an analyzer. cwd anchors packageDir entries and glob patterns; a
// relative cwd is resolved against the process working directory.
func New(options *config.Options, cwd string, opts ...Option) *DependencyAnalyzer {
	if options == nil {
		options = config.Default()
	}
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}

	a := &DependencyAnalyzer{
		options:  options,
		cwd:      cwd,
		reader:   manifest.FileReader{},
		resolver: resolver.New(),
		jobs:     runtime.NumCPU(),
		log:      logrus.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.jobs < 1 {
		a.jobs = 1
	}

	a.aggregator = manifest.NewAggregator(a.reader, a.log)
	return a
}

// CheckImports runs the rule for one file whose imports are already known. The
// dependency table and allow policy are computed once and shared by every import.
func (a *DependencyAnalyzer) CheckImports(filePath string, imports []parser.ImportSpecifier) FileResult {
	result := FileResult{
		FilePath:    filePath,
		Imports:     len(imports),
		Diagnostics: []Diagnostic{},
	}

	table, err := a.aggregator.Build(filePath, a.options.PackageDirs(a.cwd))
	if err != nil {
		if errors.Is(err, manifest.ErrEmptyManifest) {
			a.log.Debugf("No dependencies declared for %s, skipping", filePath)
			result.Skipped = true
			return result
		}
		a.log.Debugf("Manifest failure for %s: %v", filePath, err)
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			FilePath: filePath,
			Line:     1,
			Column:   0,
			Rule:     RuleName,
			Message:  manifest.Message(err),
		})
		return result
	}

	allow := a.options.Allow(absPath(filePath), a.cwd)

	for _, imp := range imports {
		verdict := classifier.Classify(imp, filePath, table, allow, a.resolver)
		if verdict.Outcome != classifier.Report {
			continue
		}

		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			FilePath: filePath,
			Line:     imp.Line,
			Column:   imp.Column,
			Rule:     RuleName,
			Message:  verdict.Message,
			Package:  verdict.Package,
		})
	}

	return result
}

// absPath returns the cleaned absolute form of path so glob policies see one
// spelling per file
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// AnalyzeFile parses a source file and checks its imports
func (a *DependencyAnalyzer) AnalyzeFile(filePath string) FileResult {
	imports, err := parser.ExtractFileImports(filePath)
	if err != nil {
		a.log.Warnf("Failed to parse %s: %v", filePath, err)
		return FileResult{
			FilePath:    filePath,
			Diagnostics: []Diagnostic{},
			Error:       err.Error(),
		}
	}

	a.log.Debugf("Found %d imports in %s", len(imports), filePath)
	return a.CheckImports(filePath, imports)
}

// AnalyzeFiles analyzes files concurrently. Each file is handled independently and
// results keep the order of files.
func (a *DependencyAnalyzer) AnalyzeFiles(ctx context.Context, files []string) ([]FileResult, error) {
	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.jobs)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.AnalyzeFile(file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}
	return results, nil
}

// AnalyzeRepository discovers source files under root and analyzes them
func (a *DependencyAnalyzer) AnalyzeRepository(ctx context.Context, root string) ([]FileResult, error) {
	files, err := FindSourceFiles(root)
	if err != nil {
		return nil, fmt.Errorf("failed to find source files: %w", err)
	}
	a.log.Infof("Found %d source files under %s", len(files), root)

	return a.AnalyzeFiles(ctx, files)
}
