package vendors

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/textnorm"
)

// parseHTML parses the payload and turns <br> into newlines so that
// multi-line cells survive Text(). The returned document must not be mutated
// afterwards: bureau extractors read it concurrently.
func parseHTML(doc domain.RawDocument) (*goquery.Document, error) {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Payload))
	if err != nil {
		return nil, err
	}
	d.Find("br").ReplaceWithHtml("\n")
	return d, nil
}

// text returns the whitespace-collapsed text of a selection.
func text(s *goquery.Selection) string {
	return textnorm.Clean(s.Text())
}

// lines returns the non-empty, collapsed lines of a selection's text.
func lines(s *goquery.Selection) []string {
	var out []string
	for _, l := range strings.Split(s.Text(), "\n") {
		if l = textnorm.Clean(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// labelKey normalizes a field label: "Date of Birth:" -> "DATE OF BIRTH".
func labelKey(s string) string {
	s = textnorm.Clean(s)
	s = strings.TrimSuffix(s, ":")
	return textnorm.Key(s)
}

// metaContent returns the content attribute of <meta name=...>.
func metaContent(d *goquery.Document, name string) string {
	var out string
	d.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
		out, _ = s.Attr("content")
		out = textnorm.Clean(out)
		return false
	})
	return out
}

// valueOrEmpty drops vendor placeholders ("-", "N/A", ...).
func valueOrEmpty(s string) string {
	s = textnorm.Clean(s)
	if textnorm.IsAbsent(s) {
		return ""
	}
	return s
}

// personalField maps a personal-info label onto a fragment field.
// Returns false for labels the extractors do not know.
func personalField(p *domain.PersonalInfoFragment, label, value string) bool {
	value = valueOrEmpty(value)
	switch labelKey(label) {
	case "NAME", "FULL NAME", "CONSUMER NAME":
		p.Name = value
	case "AKA", "ALSO KNOWN AS", "ALIAS", "ALIASES":
		if value != "" {
			p.Aliases = append(p.Aliases, value)
		}
	case "SSN", "SOCIAL SECURITY", "SOCIAL SECURITY NUMBER":
		p.SSN = value
	case "DATE OF BIRTH", "DOB", "BIRTH DATE":
		p.DOB = value
	case "ADDRESS", "STREET", "CURRENT ADDRESS", "STREET ADDRESS":
		p.Street = value
	case "CITY":
		p.City = value
	case "STATE":
		p.State = value
	case "ZIP", "ZIP CODE", "POSTAL CODE":
		p.PostalCode = value
	case "EMPLOYER", "CURRENT EMPLOYER":
		p.Employer = value
	default:
		return false
	}
	return true
}

// bureauFromHeading finds a bureau name in heading text like "TransUnion Report".
func bureauFromHeading(s string) (domain.Bureau, bool) {
	key := labelKey(s)
	if key == "" {
		return "", false
	}
	if b, err := domain.ParseBureau(key); err == nil {
		return b, true
	}
	for _, tok := range strings.Fields(key) {
		if b, err := domain.ParseBureau(tok); err == nil && len(tok) > 2 {
			return b, true
		}
	}
	// "TRANS UNION" splits into two tokens
	if strings.Contains(key, "TRANS UNION") {
		return domain.BureauTransUnion, true
	}
	return "", false
}
