// Package config provides centralized configuration management for the
// predictor pipeline. It handles loading configuration from multiple sources,
// validation, and path resolution for every file the pipeline reads or writes.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. An optional YAML configuration file
//	3. Built-in defaults (lowest priority)
//
// All environment variables follow the pattern SIGNAL_* for namespacing:
//
//	SIGNAL_PATHS_DATA_DIR=data
//	SIGNAL_LOGGING_LEVEL=debug
//	SIGNAL_FACTOR_CLIP_UPPER=3
//	SIGNAL_TRACING_ENABLED=true
//
// The YAML overlay is read from config.yaml in the working directory (or a
// path given explicitly to LoadFrom). Every binary runs with no configuration
// at all: the defaults point at ./data relative to the working directory.
//
// # Path Management
//
// The Paths type is the single source of truth for resolved locations. All
// relative directories anchor at the working directory, matching the
// convention that a run is invoked from the analysis root containing data/:
//
//	paths, err := cfg.ResolvePaths()
//	master := paths.IntermediatePath("SignalMasterTable.csv")
package config
