// Package cdash assembles and writes the Build, Test and Done XML documents
// submitted to a CDash dashboard.
package cdash

import "encoding/xml"

// Site is the root element of Build.xml and Test.xml.
type Site struct {
	XMLName         xml.Name   `xml:"Site"`
	BuildName       string     `xml:"BuildName,attr"`
	BuildStamp      string     `xml:"BuildStamp,attr"`
	Name            string     `xml:"Name,attr"`
	Generator       string     `xml:"Generator,attr"`
	CompilerName    string     `xml:"CompilerName,attr"`
	CompilerVersion string     `xml:"CompilerVersion,attr"`
	Host            []xml.Attr `xml:",any,attr"`

	Build   *Build   `xml:"Build,omitempty"`
	Testing *Testing `xml:"Testing,omitempty"`
}

// Build describes a build event. There are intentionally no Warning or
// Error children: every reported build succeeded.
type Build struct {
	StartDateTime  string `xml:"StartDateTime"`
	StartBuildTime int64  `xml:"StartBuildTime"`
	BuildCommand   string `xml:"BuildCommand"`
	EndDateTime    string `xml:"EndDateTime"`
	EndBuildTime   int64  `xml:"EndBuildTime"`
	ElapsedMinutes int    `xml:"ElapsedMinutes"`
}

// Testing describes a test session.
type Testing struct {
	StartDateTime string   `xml:"StartDateTime"`
	StartTestTime int64    `xml:"StartTestTime"`
	TestList      TestList `xml:"TestList"`
	Tests         []Test   `xml:"Test"`
	EndDateTime   string   `xml:"EndDateTime"`
	EndTestTime   int64    `xml:"EndTestTime"`
}

// TestList enumerates the full names of all tests in the session.
type TestList struct {
	Tests []string `xml:"Test"`
}

// Test is the result of a single test.
type Test struct {
	Status          string  `xml:"Status,attr"`
	Name            string  `xml:"Name"`
	Path            string  `xml:"Path"`
	FullName        string  `xml:"FullName"`
	FullCommandLine string  `xml:"FullCommandLine"`
	Results         Results `xml:"Results"`
}

// Results holds the measurements of a test.
type Results struct {
	NamedMeasurements []NamedMeasurement `xml:"NamedMeasurement"`
	Measurement       Measurement        `xml:"Measurement"`
}

// NamedMeasurement is a typed, named value such as the execution time.
type NamedMeasurement struct {
	Type  string `xml:"type,attr"`
	Name  string `xml:"name,attr"`
	Value string `xml:"Value"`
}

// Measurement carries the test output.
type Measurement struct {
	Value string `xml:"Value"`
}

// Done marks the submission of a build as complete.
type Done struct {
	XMLName xml.Name `xml:"Done"`
	BuildID string   `xml:"buildId"`
	Time    int64    `xml:"time"`
}

// Measurement names and types used in test results.
const (
	MeasurementExecutionTime    = "Execution Time"
	MeasurementCompletionStatus = "Completion Status"
	MeasurementCommandLine      = "Command Line"

	TypeNumericDouble = "numeric/double"
	TypeTextString    = "text/string"
)
