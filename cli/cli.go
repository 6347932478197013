package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/polaris-ci/polaris-cdash/hostinfo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "polaris-cdash"

type App struct {
	logger zerolog.Logger
	cli    *cli.App

	// out receives the confirmation lines and the rendered config
	out io.Writer
	// now is the clock used for report timestamps
	now func() time.Time
	// hostOptions configure the host info collector
	hostOptions []hostinfo.Option
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		out:    os.Stdout,
		now:    time.Now,
	}
	app.cli = &cli.App{
		Name:  AppName,
		Usage: "Generate CDash Build, Test and Done XML files from a directory of log files",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose (debug) logging",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML file overriding report options (generator, file names, formats)",
			},
		}, generateFlags()...),
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
		// Running without a subcommand generates the reports
		Action: app.generate,
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "generate",
		Usage:  "Write Build.xml, Test.xml and Done.xml",
		Action: app.generate,
		Flags:  generateFlags(),
		Description: `Scan the log directory for log files and write the CDash reports.

Every log file becomes one test. A test fails when its content, with
terminal escape sequences removed, contains the text ERROR.

Examples:
  polaris-cdash generate --log-dir logs/nightly --build-stamp 20240101-0100-Nightly \
      --site-name ci-runner-1 --build-id 42`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "config",
		Usage:  "Print the effective report options as YAML",
		Action: app.showConfig,
	})
	return app
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "log-dir",
			Usage: "Directory containing log files (required)",
		},
		&cli.StringFlag{
			Name:  "build-stamp",
			Usage: "Build stamp (required)",
		},
		&cli.StringFlag{
			Name:  "site-name",
			Usage: "Name of the site (required)",
		},
		&cli.StringFlag{
			Name:  "build-name",
			Usage: "Name of the build (defaults to the log directory name)",
		},
		&cli.StringFlag{
			Name:  "build-id",
			Usage: "ID of the build (required)",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Directory the reports are written to (default: current directory)",
		},
		&cli.BoolFlag{
			Name:  "pretty-test",
			Usage: "Indent Test.xml like the other reports",
		},
	}
}

// setBy returns the innermost command context in which the flag was given.
// The report flags are registered on both the root and the generate command,
// so "polaris-cdash --output-dir out generate ..." must still see the value.
func setBy(ctx *cli.Context, name string) *cli.Context {
	for _, c := range ctx.Lineage() {
		if c.Command != nil && c.IsSet(name) {
			return c
		}
	}
	return nil
}

func flagString(ctx *cli.Context, name string) string {
	if c := setBy(ctx, name); c != nil {
		return c.String(name)
	}
	return ""
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		if len(commit) > 8 {
			commit = commit[:8]
		}
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	}
}
