// Package lint orchestrates running the CQL checks over files and
// directories: configuration loading, worker pooling and progress
// reporting live here, away from the pure core packages.
package lint

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/cqlang/cqlin/internal"
	tt "github.com/cqlang/cqlin/internal/types"
	"github.com/cqlang/cqlin/scanner"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LintEngine is the interface the orchestration layer drives.
type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
}

// Config represents the .cqlin.yaml configuration.
type Config struct {
	Name       string                   `yaml:"name"`
	IndentSize int                      `yaml:"indent-size,omitempty"`
	Rules      map[string]tt.ConfigRule `yaml:"rules"`
}

// New builds an engine from the configuration file at configurationPath.
// An empty path yields the default configuration.
func New(configurationPath string) (*internal.Engine, error) {
	config, err := parseConfigurationFile(configurationPath)
	if err != nil {
		return nil, err
	}
	engine, err := internal.NewEngine(config.Rules)
	if err != nil {
		return nil, err
	}
	if config.IndentSize > 0 {
		engine.SetIndentSize(config.IndentSize)
	}
	return engine, nil
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	var config Config
	if configurationPath == "" {
		return config, nil
	}

	f, err := os.Open(configurationPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return config, fmt.Errorf("parsing %s: %w", configurationPath, err)
	}
	return config, nil
}

// ProcessSources runs the engine over in-memory buffers.
func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources [][]byte,
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		issues, err := engine.RunSource(source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}
	return allIssues, nil
}

// ProcessFiles runs the engine over every given path, descending into
// directories.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}
	return allIssues, nil
}

// ProcessPath lints one file or directory. Directories are processed by a
// bounded worker pool with a progress bar.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !internal.HasDesiredExtension(path) {
			return nil, nil
		}
		return engine.Run(path)
	}

	files, err := scanner.New(path).Paths()
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		issues []tt.Issue
		errs   []error
	)

	sem := make(chan struct{}, runtime.NumCPU())
	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			fileIssues, err := engine.Run(fp)
			mu.Lock()
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				errs = append(errs, err)
			} else {
				issues = append(issues, fileIssues...)
			}
			mu.Unlock()
			bar.Add(1)
		}(filePath)
	}
	wg.Wait()
	fmt.Println()

	if len(errs) > 0 {
		return issues, errs[0]
	}
	return issues, nil
}
