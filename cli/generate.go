package cli

// This file contains the generate command which writes the three CDash
// reports in order: Build, Test, Done.

import (
	"fmt"

	"github.com/polaris-ci/polaris-cdash/cdash"
	"github.com/polaris-ci/polaris-cdash/hostinfo"
	"github.com/polaris-ci/polaris-cdash/logscan"
	"github.com/polaris-ci/polaris-cdash/model"
	"github.com/urfave/cli/v2"
)

func runConfig(ctx *cli.Context) model.RunConfig {
	return model.RunConfig{
		LogDir:     flagString(ctx, "log-dir"),
		BuildStamp: flagString(ctx, "build-stamp"),
		SiteName:   flagString(ctx, "site-name"),
		BuildName:  flagString(ctx, "build-name"),
		BuildID:    flagString(ctx, "build-id"),
	}.Resolve()
}

func (a *App) generate(ctx *cli.Context) error {
	cfg := runConfig(ctx)
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := a.reportOptions(ctx)
	if err != nil {
		return err
	}

	a.logger.Debug().
		Str("log_dir", cfg.LogDir).
		Str("build_name", cfg.BuildName).
		Str("build_stamp", cfg.BuildStamp).
		Str("site", cfg.SiteName).
		Str("output_dir", opts.OutputDir).
		Msg("Generating CDash reports")

	host := hostinfo.New(a.logger, a.hostOptions...).Collect()
	gen := cdash.NewGenerator(opts, host, cdash.WithClock(a.now))
	scanner := logscan.New(a.logger, opts.LogPattern)

	path, err := gen.WriteBuild(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Generated %s\n", path)

	path, err = gen.WriteTest(cfg, scanner)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Generated %s\n", path)

	path, err = gen.WriteDone(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Generated %s\n", path)

	return nil
}
