package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directory layout for a run.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	BaseDir         string
	DataDir         string
	IntermediateDir string
	PredictorsDir   string
	LogsDir         string
}

// ResolvePaths resolves the configured directories against the working
// directory. Empty intermediate/predictors directories default to the
// canonical subdirectories of the data directory:
//
//	<base>/
//	  ├── data/
//	  │   ├── intermediate/   (input tables)
//	  │   └── predictors/     (predictor output)
//	  └── logs/
func (c *Config) ResolvePaths() (*Paths, error) {
	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	dataDir := resolveDir(base, c.Paths.DataDir)

	intermediateDir := c.Paths.IntermediateDir
	if intermediateDir == "" {
		intermediateDir = filepath.Join(dataDir, IntermediateDirName)
	} else {
		intermediateDir = resolveDir(base, intermediateDir)
	}

	predictorsDir := c.Paths.PredictorsDir
	if predictorsDir == "" {
		predictorsDir = filepath.Join(dataDir, PredictorsDirName)
	} else {
		predictorsDir = resolveDir(base, predictorsDir)
	}

	return &Paths{
		BaseDir:         base,
		DataDir:         dataDir,
		IntermediateDir: intermediateDir,
		PredictorsDir:   predictorsDir,
		LogsDir:         resolveDir(base, c.Paths.LogsDir),
	}, nil
}

// resolveDir anchors a relative directory at base
func resolveDir(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// EnsureDirectories creates all required directories if they don't exist.
// The intermediate directory is created too so a fresh checkout shows where
// input tables belong.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.IntermediateDir,
		p.PredictorsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// IntermediatePath returns the path of an input table file
func (p *Paths) IntermediatePath(filename string) string {
	return filepath.Join(p.IntermediateDir, filename)
}

// PredictorPath returns the path of a predictor output file
func (p *Paths) PredictorPath(filename string) string {
	return filepath.Join(p.PredictorsDir, filename)
}

// LogPath returns the path of a log file
func (p *Paths) LogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved layout for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("intermediate", p.IntermediateDir),
			slog.String("predictors", p.PredictorsDir),
			slog.String("logs", p.LogsDir),
		))
}
