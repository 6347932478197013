package cdash

import (
	"encoding/xml"
	"path/filepath"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/polaris-ci/polaris-cdash/model"
)

const (
	// BuildTimeLayout matches the C library ctime format.
	BuildTimeLayout = time.ANSIC
	// TestTimeLayout is the short display form used by the Testing element.
	TestTimeLayout = "Jan 02 15:04 MST"
)

// RecordSource produces the test records of a log directory.
type RecordSource interface {
	Scan(dir string) ([]model.TestRecord, error)
}

// Generator assembles the CDash documents of one run.
type Generator struct {
	opts model.ReportOptions
	host model.HostInfo
	now  func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock sets the time source used for all timestamps.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a generator that tags every Site with host.
func NewGenerator(opts model.ReportOptions, host model.HostInfo, options ...GeneratorOption) *Generator {
	g := &Generator{
		opts: opts,
		host: host,
		now:  time.Now,
	}

	for _, opt := range options {
		opt(g)
	}

	return g
}

func (g *Generator) site(cfg model.RunConfig) *Site {
	keys := g.host.Keys()
	attrs := make([]xml.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: k}, Value: g.host[k]})
	}

	return &Site{
		BuildName:  cfg.BuildName,
		BuildStamp: cfg.BuildStamp,
		Name:       cfg.SiteName,
		Generator:  g.opts.Generator,
		Host:       attrs,
	}
}

// BuildReport returns the Build.xml document. The build is reported as
// instantaneous and successful: end equals start and no diagnostics are
// attached.
func (g *Generator) BuildReport(cfg model.RunConfig) *Site {
	start := g.now()
	display := start.Format(BuildTimeLayout)
	epoch := start.Unix()

	site := g.site(cfg)
	site.Build = &Build{
		StartDateTime:  display,
		StartBuildTime: epoch,
		BuildCommand:   g.opts.BuildCommand,
		EndDateTime:    display,
		EndBuildTime:   epoch,
		ElapsedMinutes: 0,
	}
	return site
}

// TestReport scans the log directory through source and returns the
// Test.xml document.
func (g *Generator) TestReport(cfg model.RunConfig, source RecordSource) (*Site, error) {
	start := g.now()

	records, err := source.Scan(cfg.LogDir)
	if err != nil {
		return nil, err
	}

	dir := testDir(cfg.LogDir)
	session := &Testing{
		StartDateTime: start.Format(TestTimeLayout),
		StartTestTime: start.Unix(),
		TestList:      TestList{Tests: make([]string, 0, len(records))},
		Tests:         make([]Test, 0, len(records)),
	}

	for _, rec := range records {
		fullName := joinTestPath(dir, rec.Name)
		command := CommandLine(rec.Path)

		session.TestList.Tests = append(session.TestList.Tests, fullName)
		session.Tests = append(session.Tests, Test{
			Status:          string(rec.Status),
			Name:            rec.Name,
			Path:            dir,
			FullName:        fullName,
			FullCommandLine: command,
			Results: Results{
				NamedMeasurements: []NamedMeasurement{
					{Type: TypeNumericDouble, Name: MeasurementExecutionTime, Value: "1.0"},
					{Type: TypeTextString, Name: MeasurementCompletionStatus, Value: "Completed"},
					{Type: TypeTextString, Name: MeasurementCommandLine, Value: command},
				},
				Measurement: Measurement{Value: rec.Content},
			},
		})
	}

	end := g.now()
	session.EndDateTime = end.Format(TestTimeLayout)
	session.EndTestTime = end.Unix()

	site := g.site(cfg)
	site.Testing = session
	return site, nil
}

// DoneReport returns the Done.xml completion marker.
func (g *Generator) DoneReport(cfg model.RunConfig) *Done {
	return &Done{
		BuildID: cfg.BuildID,
		Time:    g.now().Unix(),
	}
}

// WriteBuild writes Build.xml and returns its path.
func (g *Generator) WriteBuild(cfg model.RunConfig) (string, error) {
	path := g.outputPath(g.opts.BuildFile)
	return path, WriteFile(path, g.BuildReport(cfg), g.opts.BuildFormat)
}

// WriteTest writes Test.xml and returns its path.
func (g *Generator) WriteTest(cfg model.RunConfig, source RecordSource) (string, error) {
	path := g.outputPath(g.opts.TestFile)
	site, err := g.TestReport(cfg, source)
	if err != nil {
		return path, err
	}
	return path, WriteFile(path, site, g.opts.TestFormat)
}

// WriteDone writes Done.xml and returns its path.
func (g *Generator) WriteDone(cfg model.RunConfig) (string, error) {
	path := g.outputPath(g.opts.DoneFile)
	return path, WriteFile(path, g.DoneReport(cfg), g.opts.DoneFormat)
}

func (g *Generator) outputPath(name string) string {
	if g.opts.OutputDir == "" {
		return name
	}
	return filepath.Join(g.opts.OutputDir, name)
}

// CommandLine is the synthetic command reported for a log file.
func CommandLine(path string) string {
	return "cat " + shellescape.Quote(path)
}

// testDir returns the directory part of test names: the cleaned log
// directory, prefixed with "./" when it is relative.
func testDir(logDir string) string {
	dir := filepath.ToSlash(filepath.Clean(logDir))
	if filepath.IsAbs(logDir) || dir == "." || strings.HasPrefix(dir, "../") || dir == ".." {
		return dir
	}
	return "./" + dir
}

func joinTestPath(dir, name string) string {
	return strings.TrimSuffix(dir, "/") + "/" + name
}
