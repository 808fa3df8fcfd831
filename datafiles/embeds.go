// Package datafiles holds the files embedded into the tools.
package datafiles

import _ "embed"

// ReportHTML is the html/template source of the run report.
//
//go:embed report.html
var ReportHTML string
