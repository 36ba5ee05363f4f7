package vendors

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

var (
	_ driven.SignatureMatcher = MetaGeneratorMatcher{}
	_ driven.SignatureMatcher = MarkerMatcher{}
	_ driven.SignatureMatcher = AnyMatcher{}
)

// MetaGeneratorMatcher scores 1 when <meta name="generator"> contains Generator.
type MetaGeneratorMatcher struct {
	Generator string
}

func (m MetaGeneratorMatcher) Match(doc domain.RawDocument) float64 {
	if m.Generator == "" || !doc.IsHTML() {
		return 0
	}
	d, err := parseHTML(doc)
	if err != nil {
		return 0
	}
	gen := metaContent(d, "generator")
	if strings.Contains(strings.ToLower(gen), strings.ToLower(m.Generator)) {
		return 1
	}
	return 0
}

// Marker is one structural signature element. Exactly one of Selector
// (a CSS selector, HTML only) or Contains (a case-insensitive byte
// signature) is set.
type Marker struct {
	Selector string
	Contains string
	Weight   float64
}

// MarkerMatcher scores matched marker weight / total weight.
type MarkerMatcher struct {
	Markers []Marker
}

func (m MarkerMatcher) Match(doc domain.RawDocument) float64 {
	var total, matched float64
	for _, mk := range m.Markers {
		if mk.Weight > 0 {
			total += mk.Weight
		}
	}
	if total == 0 || doc.IsEmpty() {
		return 0
	}

	lower := bytes.ToLower(doc.Payload)
	var d *goquery.Document
	if doc.IsHTML() {
		d, _ = parseHTML(doc)
	}

	for _, mk := range m.Markers {
		if mk.Weight <= 0 {
			continue
		}
		switch {
		case mk.Selector != "":
			if d != nil && d.Find(mk.Selector).Length() > 0 {
				matched += mk.Weight
			}
		case mk.Contains != "":
			if bytes.Contains(lower, []byte(strings.ToLower(mk.Contains))) {
				matched += mk.Weight
			}
		}
	}
	return matched / total
}

// AnyMatcher returns the best score among its matchers.
type AnyMatcher []driven.SignatureMatcher

func (m AnyMatcher) Match(doc domain.RawDocument) float64 {
	var best float64
	for _, sub := range m {
		if s := sub.Match(doc); s > best {
			best = s
		}
	}
	return best
}
