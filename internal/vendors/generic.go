package vendors

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/Fchery87/Rapid-CRM/internal/textnorm"
)

// UnknownProfile returns the sentinel profile used when no vendor matches.
func UnknownProfile() Profile {
	return Profile{
		Info:      domain.VendorInfo{ID: domain.UnknownVendorID, Name: "Unknown vendor", Version: "0"},
		Matcher:   AnyMatcher{},
		Extractor: genericExtractor{},
	}
}

var _ driven.VendorExtractor = genericExtractor{}

// genericExtractor scans "Label: value" lines, using bureau headings
// ("TransUnion", "Experian Report", ...) as context. Values seen outside any
// bureau context cannot be attributed and are ignored. It never fails.
type genericExtractor struct{}

func (genericExtractor) Extract(doc domain.RawDocument, diags *domain.Diagnostics) (*domain.RawExtractionSet, error) {
	set := domain.NewRawExtractionSet()
	if doc.IsEmpty() {
		return set, nil
	}

	var current domain.Bureau
	for _, line := range flatten(doc) {
		label, value, hasColon := strings.Cut(line, ":")
		if !hasColon || strings.TrimSpace(value) == "" {
			if b, ok := bureauFromHeading(line); ok && len(strings.Fields(line)) <= 3 {
				current = b
			}
			continue
		}
		key := labelKey(label)
		if key == "REPORT DATE" {
			set.ReportDate = valueOrEmpty(value)
			continue
		}
		if current == "" {
			continue
		}
		slot := set.Slot(current)
		switch key {
		case "SCORE", "CREDIT SCORE":
			if v := valueOrEmpty(value); v != "" {
				slot.Present = true
				slot.Score = &domain.ScoreFragment{Provenance: heuristic(current, domain.SectionScores), Value: v}
			}
		default:
			p := slot.PersonalInfo
			if p == nil {
				p = &domain.PersonalInfoFragment{Provenance: heuristic(current, domain.SectionPersonalInfo)}
			}
			if personalField(p, label, value) {
				slot.Present = true
				slot.PersonalInfo = p
			}
		}
	}

	if set.IsEmpty() {
		diags.Warn(domain.SectionDocument, "", "unrecognized vendor format, nothing extracted")
	}
	return set, nil
}

// lineBreak marks block boundaries while source newlines are folded to spaces.
const lineBreak = "\uE000"

// flatten returns the document's text lines. HTML block elements become line
// breaks; anything that fails to parse is treated as plain text.
func flatten(doc domain.RawDocument) []string {
	raw := string(doc.Payload)
	if doc.IsHTML() {
		if d, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Payload)); err == nil {
			d.Find("script,style").Remove()
			d.Find("br").ReplaceWithHtml(lineBreak)
			d.Find("p,div,li,tr,dd,h1,h2,h3,h4,h5,h6,section,table").AppendHtml(lineBreak)
			d.Find("dt").AppendHtml(": ")
			d.Find("td,th").AppendHtml(" ")
			raw = strings.ReplaceAll(d.Text(), "\n", " ")
			raw = strings.ReplaceAll(raw, lineBreak, "\n")
		}
	}
	var out []string
	for _, l := range strings.Split(raw, "\n") {
		if l = textnorm.Clean(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
