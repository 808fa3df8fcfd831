// Package report writes an HTML overview of a conversion run.
package report

import (
	"bytes"
	"html/template"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-pmdanim/datafiles"
)

// FileName is the name of the report in the output root.
const FileName = "index.html"

var page = template.Must(template.New("report").Parse(datafiles.ReportHTML))

// Entry is one converted (or failed) variant.
type Entry struct {
	Variant string
	Dir     string

	Frames, Reused, Records, Skipped, Missing int

	// Sheet is the composed sheet as a data URL, or empty.
	Sheet template.URL
	Err   string
}

// Page is the data the report template is executed with.
type Page struct {
	Title             string
	Converted, Failed int
	Entries           []Entry
}

// SheetURL reads the PNG at path and returns it as a data URL.
func SheetURL(path string) (template.URL, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "reading sheet for report")
	}
	return template.URL(dataurl.New(b, "image/png").String()), nil
}

// Render executes the report template.
func Render(title string, entries []Entry) ([]byte, error) {
	p := Page{Title: title, Entries: entries}
	for _, e := range entries {
		if e.Err != "" {
			p.Failed++
		} else {
			p.Converted++
		}
	}
	var buf bytes.Buffer
	if err := page.Execute(&buf, p); err != nil {
		return nil, errors.Wrap(err, "rendering report")
	}
	return buf.Bytes(), nil
}

// Write renders the report and writes it to path.
func Write(path, title string, entries []Entry) error {
	b, err := Render(title, entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	glog.Infof("wrote report of %d variants to %s", len(entries), path)
	return nil
}
