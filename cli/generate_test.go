package cli

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/polaris-ci/polaris-cdash/cdash"
	"github.com/polaris-ci/polaris-cdash/hostinfo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app := New()
	app.logger = zerolog.Nop()
	app.out = &out
	app.now = func() time.Time { return time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC) }
	app.hostOptions = []hostinfo.Option{hostinfo.WithProbes()}
	return app, &out
}

func writeLog(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func readSite(t *testing.T, path string) cdash.Site {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var site cdash.Site
	require.NoError(t, xml.Unmarshal(data, &site))
	return site
}

func TestGenerate(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "nightly_run")
	require.NoError(t, os.Mkdir(logDir, 0755))
	writeLog(t, logDir, "c.log", "\x1B[31mOK\x1B[0m\n")
	writeLog(t, logDir, "a.log", "all good\n")
	writeLog(t, logDir, "b.log", "ERROR: boom\n")
	outDir := t.TempDir()

	app, out := newTestApp(t)
	err := app.Run([]string{AppName, "generate",
		"--log-dir", logDir,
		"--build-stamp", "20240305-1400-Nightly",
		"--site-name", "ci-runner",
		"--build-id", "42",
		"--output-dir", outDir,
	})
	require.NoError(t, err)

	require.Equal(t,
		"Generated "+filepath.Join(outDir, "Build.xml")+"\n"+
			"Generated "+filepath.Join(outDir, "Test.xml")+"\n"+
			"Generated "+filepath.Join(outDir, "Done.xml")+"\n",
		out.String())

	build := readSite(t, filepath.Join(outDir, "Build.xml"))
	require.Equal(t, "nightly_run", build.BuildName)
	require.Equal(t, "ci-runner", build.Name)
	require.NotNil(t, build.Build)
	require.Equal(t, build.Build.StartBuildTime, build.Build.EndBuildTime)

	hostAttrs := map[string]string{}
	for _, attr := range build.Host {
		hostAttrs[attr.Name.Local] = attr.Value
	}
	require.Equal(t, "1", hostAttrs["NumberOfLogicalCPU"])
	require.Equal(t, "1024", hostAttrs["TotalPhysicalMemory"])

	test := readSite(t, filepath.Join(outDir, "Test.xml"))
	require.Len(t, test.Testing.TestList.Tests, 3)
	require.Equal(t, filepath.Base(test.Testing.TestList.Tests[0]), "a.log")
	require.Equal(t, filepath.Base(test.Testing.TestList.Tests[1]), "b.log")
	require.Equal(t, filepath.Base(test.Testing.TestList.Tests[2]), "c.log")

	statuses := map[string]string{}
	for _, tc := range test.Testing.Tests {
		statuses[tc.Name] = tc.Status
	}
	require.Equal(t, map[string]string{"a.log": "passed", "b.log": "failed", "c.log": "passed"}, statuses)
	require.Equal(t, "OK\n", test.Testing.Tests[2].Results.Measurement.Value)

	data, err := os.ReadFile(filepath.Join(outDir, "Done.xml"))
	require.NoError(t, err)
	var done cdash.Done
	require.NoError(t, xml.Unmarshal(data, &done))
	require.Equal(t, "42", done.BuildID)
}

func TestGenerate_FlatInvocation(t *testing.T) {
	logDir := t.TempDir()
	writeLog(t, logDir, "a.log", "all good\n")
	outDir := t.TempDir()

	app, _ := newTestApp(t)
	err := app.Run([]string{AppName,
		"--log-dir", logDir,
		"--build-stamp", "stamp",
		"--site-name", "site",
		"--build-name", "custom",
		"--build-id", "1",
		"--output-dir", outDir,
	})
	require.NoError(t, err)

	build := readSite(t, filepath.Join(outDir, "Build.xml"))
	require.Equal(t, "custom", build.BuildName)
}

func TestGenerate_RootFlagsBeforeCommand(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "smoke")
	require.NoError(t, os.Mkdir(logDir, 0755))
	writeLog(t, logDir, "a.log", "all good\n")
	outDir := t.TempDir()

	app, out := newTestApp(t)
	err := app.Run([]string{AppName,
		"--output-dir", outDir,
		"--log-dir", logDir,
		"--pretty-test",
		"generate",
		"--build-stamp", "stamp",
		"--site-name", "site",
		"--build-id", "1",
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), filepath.Join(outDir, "Build.xml"))

	build := readSite(t, filepath.Join(outDir, "Build.xml"))
	require.Equal(t, "smoke", build.BuildName)

	data, err := os.ReadFile(filepath.Join(outDir, "Test.xml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "\n\t<Testing>\n")
	require.FileExists(t, filepath.Join(outDir, "Done.xml"))
}

func TestGenerate_CommandFlagWins(t *testing.T) {
	rootOut := t.TempDir()
	outDir := t.TempDir()

	app, _ := newTestApp(t)
	err := app.Run([]string{AppName, "-o", rootOut, "generate",
		"--log-dir", t.TempDir(),
		"--build-stamp", "stamp",
		"--site-name", "site",
		"--build-id", "1",
		"-o", outDir,
	})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(outDir, "Build.xml"))
	require.NoFileExists(t, filepath.Join(rootOut, "Build.xml"))
}

func TestGenerate_EmptyLogDir(t *testing.T) {
	outDir := t.TempDir()
	logDir := t.TempDir()

	var logs bytes.Buffer
	app, out := newTestApp(t)
	app.logger = zerolog.New(&logs)
	err := app.Run([]string{AppName, "generate",
		"--log-dir", logDir,
		"--build-stamp", "stamp",
		"--site-name", "site",
		"--build-id", "1",
		"--output-dir", outDir,
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Test.xml")

	test := readSite(t, filepath.Join(outDir, "Test.xml"))
	require.NotNil(t, test.Testing)
	require.Empty(t, test.Testing.TestList.Tests)
	require.Empty(t, test.Testing.Tests)

	var warned bool
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "No log files found" {
			require.Equal(t, "warn", entry["level"])
			require.Equal(t, logDir, entry["dir"])
			warned = true
		}
	}
	require.True(t, warned, "expected a warning for the empty log directory")
}

func TestGenerate_UnreadableLog(t *testing.T) {
	logDir := t.TempDir()
	writeLog(t, logDir, "a.log", "fine\n")
	require.NoError(t, os.Symlink(filepath.Join(logDir, "gone"), filepath.Join(logDir, "b.log")))
	outDir := t.TempDir()

	app, _ := newTestApp(t)
	err := app.Run([]string{AppName, "generate",
		"--log-dir", logDir,
		"--build-stamp", "stamp",
		"--site-name", "site",
		"--build-id", "1",
		"--output-dir", outDir,
	})
	require.NoError(t, err)

	test := readSite(t, filepath.Join(outDir, "Test.xml"))
	require.Len(t, test.Testing.Tests, 2)
	require.Contains(t, test.Testing.Tests[1].Results.Measurement.Value, "Error reading file")
	require.FileExists(t, filepath.Join(outDir, "Done.xml"))
}

func TestGenerate_MissingParameter(t *testing.T) {
	outDir := t.TempDir()

	app, out := newTestApp(t)
	err := app.Run([]string{AppName, "generate",
		"--log-dir", t.TempDir(),
		"--build-stamp", "stamp",
		"--site-name", "site",
		"--output-dir", outDir,
	})
	require.ErrorContains(t, err, "--build-id")
	require.Empty(t, out.String())

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestGenerate_OutputFailure(t *testing.T) {
	app, out := newTestApp(t)
	err := app.Run([]string{AppName, "generate",
		"--log-dir", t.TempDir(),
		"--build-stamp", "stamp",
		"--site-name", "site",
		"--build-id", "1",
		"--output-dir", filepath.Join(t.TempDir(), "missing"),
	})
	require.ErrorContains(t, err, "failed to write")
	require.Empty(t, out.String())
}

func TestGenerate_ConfigFile(t *testing.T) {
	logDir := t.TempDir()
	writeLog(t, logDir, "run.txt", "ERROR here\n")
	writeLog(t, logDir, "ignored.log", "all good\n")
	outDir := t.TempDir()

	cfg, err := yaml.Marshal(map[string]string{
		"generator":   "polaris-1.0",
		"log-pattern": "*.txt",
		"test-file":   "Tests.xml",
		"test-format": "indented",
	})
	require.NoError(t, err)
	cfgPath := filepath.Join(t.TempDir(), "cdash.yml")
	require.NoError(t, os.WriteFile(cfgPath, cfg, 0644))

	app, _ := newTestApp(t)
	err = app.Run([]string{AppName, "--config", cfgPath, "generate",
		"--log-dir", logDir,
		"--build-stamp", "stamp",
		"--site-name", "site",
		"--build-id", "1",
		"--output-dir", outDir,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "Tests.xml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "\n\t<Testing>\n")

	test := readSite(t, filepath.Join(outDir, "Tests.xml"))
	require.Equal(t, "polaris-1.0", test.Generator)
	require.Len(t, test.Testing.Tests, 1)
	require.Equal(t, "run.txt", test.Testing.Tests[0].Name)
	require.Equal(t, "failed", test.Testing.Tests[0].Status)
}

func TestShowConfig(t *testing.T) {
	app, out := newTestApp(t)
	require.NoError(t, app.Run([]string{AppName, "config"}))

	var rendered map[string]string
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rendered))
	require.Equal(t, "ctest-3.24.2", rendered["generator"])
	require.Equal(t, "polaris_scan", rendered["build-command"])
	require.Equal(t, "*.log", rendered["log-pattern"])
	require.Equal(t, "Build.xml", rendered["build-file"])
	require.Equal(t, "compact", rendered["test-format"])
	require.Equal(t, "indented", rendered["done-format"])
}

func TestShowConfig_InvalidFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cdash.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("test-format: fancy\n"), 0644))

	app, _ := newTestApp(t)
	err := app.Run([]string{AppName, "--config", cfgPath, "config"})
	require.ErrorContains(t, err, "test-format")

	app, _ = newTestApp(t)
	err = app.Run([]string{AppName, "--config", filepath.Join(t.TempDir(), "nope.yml"), "config"})
	require.ErrorContains(t, err, "failed to read config file")
}
