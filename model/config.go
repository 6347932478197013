package model

import (
	"fmt"
	"path/filepath"
)

// RunConfig holds the invocation parameters of a single report run
type RunConfig struct {
	// Directory scanned for log files
	LogDir string
	// Opaque identifier grouping the reports of this run
	BuildStamp string
	// Name of the reporting site
	SiteName string
	// Name of the build (defaults to the last path segment of LogDir)
	BuildName string
	// Identifier recorded in the completion marker
	BuildID string
}

// DefaultBuildName returns the final path segment of the log directory. The
// filesystem root has no such segment and yields an empty name.
func DefaultBuildName(logDir string) string {
	base := filepath.Base(filepath.Clean(logDir))
	if base == string(filepath.Separator) {
		return ""
	}
	return base
}

// Resolve fills in derived defaults and returns the resulting config.
func (c RunConfig) Resolve() RunConfig {
	if c.BuildName == "" && c.LogDir != "" {
		c.BuildName = DefaultBuildName(c.LogDir)
	}
	return c
}

// Validate reports the first required parameter that is missing.
func (c RunConfig) Validate() error {
	required := []struct {
		flag  string
		value string
	}{
		{"log-dir", c.LogDir},
		{"build-stamp", c.BuildStamp},
		{"site-name", c.SiteName},
		{"build-id", c.BuildID},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required parameter: --%s", r.flag)
		}
	}
	return nil
}

// Format selects how an XML document is serialized
type Format string

const (
	FormatCompact  Format = "compact"
	FormatIndented Format = "indented"
)

// ReportOptions contains the values that are constant for a given
// installation of the tool: identifiers written into every report, output
// file names and formatting.
type ReportOptions struct {
	// Generator identifier written to the Site element
	Generator string `mapstructure:"generator" yaml:"generator"`
	// Label of the (mocked) build command
	BuildCommand string `mapstructure:"build-command" yaml:"build-command"`
	// Glob pattern matched against file names in the log directory
	LogPattern string `mapstructure:"log-pattern" yaml:"log-pattern"`
	// Directory the reports are written to
	OutputDir string `mapstructure:"output-dir" yaml:"output-dir"`

	BuildFile string `mapstructure:"build-file" yaml:"build-file"`
	TestFile  string `mapstructure:"test-file" yaml:"test-file"`
	DoneFile  string `mapstructure:"done-file" yaml:"done-file"`

	BuildFormat Format `mapstructure:"build-format" yaml:"build-format"`
	TestFormat  Format `mapstructure:"test-format" yaml:"test-format"`
	DoneFormat  Format `mapstructure:"done-format" yaml:"done-format"`
}

const (
	DefaultGenerator    = "ctest-3.24.2"
	DefaultBuildCommand = "polaris_scan"
	DefaultLogPattern   = "*.log"
	DefaultBuildFile    = "Build.xml"
	DefaultTestFile     = "Test.xml"
	DefaultDoneFile     = "Done.xml"
)

// DefaultReportOptions returns the options the tool runs with when no
// configuration file is given.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Generator:    DefaultGenerator,
		BuildCommand: DefaultBuildCommand,
		LogPattern:   DefaultLogPattern,
		OutputDir:    ".",
		BuildFile:    DefaultBuildFile,
		TestFile:     DefaultTestFile,
		DoneFile:     DefaultDoneFile,
		BuildFormat:  FormatIndented,
		TestFormat:   FormatCompact,
		DoneFormat:   FormatIndented,
	}
}

// Validate checks that the options can be used to produce reports.
func (o ReportOptions) Validate() error {
	if _, err := filepath.Match(o.LogPattern, ""); err != nil {
		return fmt.Errorf("invalid log-pattern %q: %w", o.LogPattern, err)
	}
	for _, f := range []struct {
		key   string
		value Format
	}{
		{"build-format", o.BuildFormat},
		{"test-format", o.TestFormat},
		{"done-format", o.DoneFormat},
	} {
		if f.value != FormatCompact && f.value != FormatIndented {
			return fmt.Errorf("invalid %s %q: must be %q or %q", f.key, f.value, FormatCompact, FormatIndented)
		}
	}
	for _, f := range []struct {
		key   string
		value string
	}{
		{"build-file", o.BuildFile},
		{"test-file", o.TestFile},
		{"done-file", o.DoneFile},
	} {
		if f.value == "" {
			return fmt.Errorf("%s must not be empty", f.key)
		}
	}
	return nil
}
