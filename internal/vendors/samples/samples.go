// Package samples bundles synthetic vendor documents used by the inline:
// fetch scheme, the CLI and the tests.
package samples

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.html
var files embed.FS

// DemoReport is the name of the bundled demo-vendor report.
const DemoReport = "demo-report-1.html"

// GridReport is the name of the bundled tri-bureau grid report.
const GridReport = "tri-bureau-grid-1.html"

// Get returns a bundled sample by name ("demo-report-1" or "demo-report-1.html").
func Get(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("sample %q: %w", name, err)
	}
	return data, nil
}

// MustGet is Get for names known at compile time.
func MustGet(name string) []byte {
	data, err := Get(name)
	if err != nil {
		panic(err)
	}
	return data
}

// Names lists the bundled samples.
func Names() []string {
	entries, _ := fs.ReadDir(files, ".")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}
