package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/panbanda/classmeta/internal/cache"
	"github.com/panbanda/classmeta/internal/output"
	"github.com/panbanda/classmeta/internal/progress"
	"github.com/panbanda/classmeta/internal/scanner"
	"github.com/panbanda/classmeta/internal/vcs"
	"github.com/panbanda/classmeta/pkg/analyzer"
	"github.com/panbanda/classmeta/pkg/analyzer/hierarchy"
	"github.com/panbanda/classmeta/pkg/config"
	"github.com/panbanda/classmeta/pkg/source"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// loadConfig reads --config when given, else the standard locations.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("verbose") {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

// newFormatter applies --format and --output over the configured defaults.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := cfg.Output.Format
	if f := c.String("format"); f != "" {
		format = f
	}
	colored := cfg.Output.Color && !color.NoColor
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), colored)
}

// session is one analyzed set of paths ready for rendering.
type session struct {
	model     *hierarchy.Model
	formatter *output.Formatter
	logger    *zap.Logger
}

func (s *session) Close() {
	_ = s.logger.Sync()
	_ = s.formatter.Close()
}

// loadModel scans the paths (or the --ref tree), analyzes them and opens the
// formatter. The caller must Close the session.
func loadModel(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(c)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	interactive := !c.Bool("verbose") && isatty.IsTerminal(os.Stderr.Fd())

	var spinner *progress.Bar
	if interactive {
		spinner = progress.NewSpinner("Finding Java sources...")
	}
	files, src, err := discover(c, cfg, spinner.Tick)
	if err != nil {
		spinner.Fail(err)
		return nil, err
	}
	spinner.Done()
	if len(files) == 0 {
		return nil, fmt.Errorf("no Java sources found in %v", getPaths(c))
	}

	declCache, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled && !c.Bool("no-cache"))
	if err != nil {
		logger.Warn("cache disabled", zap.String("dir", cfg.Cache.Dir), zap.Error(err))
		declCache = nil
	}

	workers := cfg.Analysis.Workers
	if w := c.Int("workers"); w > 0 {
		workers = w
	}

	a := hierarchy.New(
		hierarchy.WithLogger(logger),
		hierarchy.WithAccessorPolicy(hierarchy.PolicyFromConfig(cfg.Accessors)),
		hierarchy.WithIncludeTests(cfg.Analysis.IncludeTests),
		hierarchy.WithMaxFileSize(cfg.Analysis.MaxFileSize),
		hierarchy.WithWorkers(workers),
		hierarchy.WithCache(declCache),
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bar *progress.Bar
	if interactive {
		bar = progress.NewBar("Parsing Java sources...", len(files))
	}
	tracker := analyzer.NewTracker(func(int, int, string, error) { bar.Tick() })
	ctx = analyzer.WithTracker(ctx, tracker)

	model, err := a.Analyze(ctx, files, src)
	if err != nil {
		bar.Fail(err)
		return nil, err
	}
	bar.Done()
	if failed := tracker.Failed(); len(failed) > 0 {
		color.New(color.FgYellow).Fprintf(os.Stderr,
			"Warning: %d files could not be read or parsed (--verbose for details)\n", len(failed))
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return nil, err
	}
	return &session{model: model, formatter: formatter, logger: logger}, nil
}

// discover lists the Java files to analyze and the source to read them from.
// found runs once per file found on disk.
func discover(c *cli.Context, cfg *config.Config, found func()) ([]string, source.ContentSource, error) {
	scan := scanner.NewScanner(cfg)
	scan.OnFile(found)
	paths := getPaths(c)

	if ref := c.String("ref"); ref != "" {
		if len(paths) != 1 {
			return nil, nil, fmt.Errorf("--ref takes a single repository path, got %d", len(paths))
		}
		tree, err := vcs.OpenTree(paths[0], ref)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s at %s: %w", paths[0], ref, err)
		}
		scan.LoadExcludePatterns(paths[0])
		src := source.NewTree(tree)
		files, err := src.JavaFiles(cfg.Analysis.MaxFileSize, scan.Keep)
		if err != nil {
			return nil, nil, fmt.Errorf("list %s at %s: %w", paths[0], ref, err)
		}
		return files, src, nil
	}

	var files []string
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		files = append(files, found...)
	}
	files, _ = scanner.FilterBySize(files, cfg.Analysis.MaxFileSize)
	return files, source.NewFilesystem(), nil
}
