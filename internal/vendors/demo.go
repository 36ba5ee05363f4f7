package vendors

import (
	"errors"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

// DemoVendorID identifies the demo vendor layout.
const DemoVendorID = "demo-vendor"

// DemoProfile returns the demo vendor profile.
//
// Layout: one <section class="bureau" data-bureau="TU|EX|EQ"> panel per bureau
// holding a score block, a <dl class="personal-info"> list and
// tradelines / inquiries / public-records tables whose cells carry classes.
func DemoProfile() Profile {
	return Profile{
		Info: domain.VendorInfo{ID: DemoVendorID, Name: "Demo Vendor", Version: "1", Threshold: 0.6},
		Matcher: AnyMatcher{
			MetaGeneratorMatcher{Generator: "DemoVendor"},
			MarkerMatcher{Markers: []Marker{
				{Selector: "section.bureau[data-bureau]", Weight: 2},
				{Selector: "dl.personal-info", Weight: 1},
				{Selector: "table.tradelines", Weight: 1},
			}},
		},
		Extractor: demoExtractor{},
	}
}

var _ driven.VendorExtractor = demoExtractor{}

type demoExtractor struct{}

func (demoExtractor) Extract(doc domain.RawDocument, diags *domain.Diagnostics) (*domain.RawExtractionSet, error) {
	d, err := parseHTML(doc)
	if err != nil {
		return nil, domain.NewDocumentFailure("parse html: %v", err)
	}

	panels := make(map[domain.Bureau]*goquery.Selection, domain.BureauCount)
	d.Find("section.bureau[data-bureau]").Each(func(_ int, s *goquery.Selection) {
		code, _ := s.Attr("data-bureau")
		b, err := domain.ParseBureau(code)
		if err != nil {
			diags.Warn(domain.SectionDocument, "", "ignoring panel with bureau %q", code)
			return
		}
		if _, dup := panels[b]; dup {
			diags.Warn(domain.SectionDocument, b, "duplicate bureau panel ignored")
			return
		}
		panels[b] = s
	})
	if len(panels) == 0 {
		return nil, domain.NewDocumentFailure("no bureau panels found")
	}

	set := domain.NewRawExtractionSet()
	set.VendorLabel = valueOrEmpty(text(d.Find(".report-header .vendor").First()))
	if set.VendorLabel == "" {
		set.VendorLabel = metaContent(d, "generator")
	}
	set.ReportDate = valueOrEmpty(text(d.Find(".report-header .report-date").First()))
	if set.ReportDate == "" {
		set.ReportDate = metaContent(d, "report-date")
	}

	// Panels are disjoint subtrees and each goroutine writes only its own slot.
	var g errgroup.Group
	for b, panel := range panels {
		slot := set.Slot(b)
		g.Go(func() error {
			extractDemoPanel(panel, slot, diags)
			return nil
		})
	}
	_ = g.Wait()

	return set, nil
}

func extractDemoPanel(panel *goquery.Selection, slot *domain.BureauExtraction, diags *domain.Diagnostics) {
	b := slot.Bureau
	slot.Present = true

	// Score
	if score := panel.Find(".score").First(); score.Length() > 0 {
		value := valueOrEmpty(text(score.Find(".value").First()))
		if value == "" {
			diags.Warn(domain.SectionScores, b, "score value empty")
		} else {
			slot.Score = &domain.ScoreFragment{
				Provenance: exact(b, domain.SectionScores),
				Value:      value,
				Model:      valueOrEmpty(text(score.Find(".model").First())),
			}
		}
	} else {
		diags.Warn(domain.SectionScores, b, "score block absent")
	}

	// Personal info
	if dl := panel.Find("dl.personal-info").First(); dl.Length() > 0 {
		p := &domain.PersonalInfoFragment{Provenance: exact(b, domain.SectionPersonalInfo)}
		known := 0
		dl.Find("dt").Each(func(_ int, dt *goquery.Selection) {
			dd := dt.NextFiltered("dd")
			if dd.Length() == 0 {
				diags.Warn(domain.SectionPersonalInfo, b, "label %q has no value", text(dt))
				return
			}
			if personalField(p, text(dt), text(dd)) {
				known++
			} else {
				diags.Warn(domain.SectionPersonalInfo, b, "unrecognized label %q", text(dt))
			}
		})
		if known > 0 {
			slot.PersonalInfo = p
		} else {
			diags.Fail(domain.SectionPersonalInfo, b, errors.New("personal info list has no recognized fields"))
		}
	} else {
		diags.Warn(domain.SectionPersonalInfo, b, "personal info absent")
	}

	slot.Tradelines = demoTradelines(panel, b, diags)
	slot.Inquiries = demoInquiries(panel, b, diags)
	slot.PublicRecords = demoPublicRecords(panel, b, diags)
}

func demoTradelines(panel *goquery.Selection, b domain.Bureau, diags *domain.Diagnostics) []domain.TradelineFragment {
	table := panel.Find("table.tradelines").First()
	if table.Length() == 0 {
		diags.Warn(domain.SectionTradelines, b, "tradelines table absent")
		return nil
	}
	rows := table.Find("tbody tr")
	var out []domain.TradelineFragment
	rows.Each(func(i int, row *goquery.Selection) {
		cell := func(class string) string { return valueOrEmpty(text(row.Find("td." + class).First())) }
		t := domain.TradelineFragment{
			Provenance:     exact(b, domain.SectionTradelines),
			CreditorName:   cell("creditor"),
			AccountNumber:  cell("account"),
			AccountType:    cell("type"),
			Balance:        cell("balance"),
			CreditLimit:    cell("limit"),
			Status:         cell("status"),
			PaymentStatus:  cell("payment-status"),
			PaymentHistory: cell("history"),
			OpenDate:       cell("opened"),
			CloseDate:      cell("closed"),
		}
		if t.CreditorName == "" {
			diags.Warn(domain.SectionTradelines, b, "row %d has no creditor, skipped", i+1)
			return
		}
		out = append(out, t)
	})
	if rows.Length() > 0 && len(out) == 0 {
		diags.Fail(domain.SectionTradelines, b, errors.New("no readable tradeline rows"))
	}
	return out
}

func demoInquiries(panel *goquery.Selection, b domain.Bureau, diags *domain.Diagnostics) []domain.InquiryFragment {
	table := panel.Find("table.inquiries").First()
	if table.Length() == 0 {
		return nil
	}
	var out []domain.InquiryFragment
	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cell := func(class string) string { return valueOrEmpty(text(row.Find("td." + class).First())) }
		q := domain.InquiryFragment{
			Provenance:   exact(b, domain.SectionInquiries),
			CreditorName: cell("creditor"),
			Date:         cell("date"),
			Type:         cell("type"),
		}
		if q.CreditorName == "" {
			diags.Warn(domain.SectionInquiries, b, "row %d has no creditor, skipped", i+1)
			return
		}
		out = append(out, q)
	})
	return out
}

func demoPublicRecords(panel *goquery.Selection, b domain.Bureau, diags *domain.Diagnostics) []domain.PublicRecordFragment {
	table := panel.Find("table.public-records").First()
	if table.Length() == 0 {
		return nil
	}
	var out []domain.PublicRecordFragment
	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cell := func(class string) string { return valueOrEmpty(text(row.Find("td." + class).First())) }
		r := domain.PublicRecordFragment{
			Provenance: exact(b, domain.SectionPublicRecords),
			Kind:       cell("kind"),
			Reference:  cell("reference"),
			FiledDate:  cell("filed"),
			Status:     cell("status"),
			Amount:     cell("amount"),
		}
		if r.Kind == "" {
			diags.Warn(domain.SectionPublicRecords, b, "row %d has no kind, skipped", i+1)
			return
		}
		out = append(out, r)
	})
	return out
}

func exact(b domain.Bureau, s domain.Section) domain.Provenance {
	return domain.Provenance{Bureau: b, Section: s, Confidence: domain.ConfidenceExact}
}

func heuristic(b domain.Bureau, s domain.Section) domain.Provenance {
	return domain.Provenance{Bureau: b, Section: s, Confidence: domain.ConfidenceHeuristic}
}
