package cli

// This file contains loading of the report options from defaults, an
// optional YAML file and command-line overrides.

import (
	"fmt"

	"github.com/polaris-ci/polaris-cdash/model"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func loadReportOptions(configPath string) (model.ReportOptions, error) {
	var opts model.ReportOptions
	defaults := model.DefaultReportOptions()

	v := viper.New()
	v.SetDefault("generator", defaults.Generator)
	v.SetDefault("build-command", defaults.BuildCommand)
	v.SetDefault("log-pattern", defaults.LogPattern)
	v.SetDefault("output-dir", defaults.OutputDir)
	v.SetDefault("build-file", defaults.BuildFile)
	v.SetDefault("test-file", defaults.TestFile)
	v.SetDefault("done-file", defaults.DoneFile)
	v.SetDefault("build-format", string(defaults.BuildFormat))
	v.SetDefault("test-format", string(defaults.TestFormat))
	v.SetDefault("done-format", string(defaults.DoneFormat))

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return opts, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(&opts); err != nil {
		return opts, fmt.Errorf("failed to parse report options: %w", err)
	}

	return opts, nil
}

// reportOptions resolves the options for the current invocation: file
// values first, then flags given on the command line.
func (a *App) reportOptions(ctx *cli.Context) (model.ReportOptions, error) {
	opts, err := loadReportOptions(ctx.String("config"))
	if err != nil {
		return opts, err
	}

	if c := setBy(ctx, "output-dir"); c != nil {
		opts.OutputDir = c.String("output-dir")
	}
	if c := setBy(ctx, "pretty-test"); c != nil {
		opts.TestFormat = model.FormatCompact
		if c.Bool("pretty-test") {
			opts.TestFormat = model.FormatIndented
		}
	}

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid report options: %w", err)
	}

	return opts, nil
}

func (a *App) showConfig(ctx *cli.Context) error {
	opts, err := a.reportOptions(ctx)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to render report options: %w", err)
	}

	_, err = a.out.Write(out)
	return err
}
