package vendors

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

// GridVendorID identifies the three-column tri-bureau layout.
const GridVendorID = "tri-bureau-grid"

// GridProfile returns the tri-bureau grid profile.
//
// Layout: a div#TriBureauReport holding table.grid elements whose header row
// names the bureaus (TransUnion | Experian | Equifax). Scores and personal
// info are grids tagged with data-section; each account is a div.account with
// its own grid. Inquiries and public records are row lists with a Bureau column.
func GridProfile() Profile {
	return Profile{
		Info: domain.VendorInfo{ID: GridVendorID, Name: "Tri-Bureau Grid", Version: "1", Threshold: 0.6},
		Matcher: MarkerMatcher{Markers: []Marker{
			{Selector: "#TriBureauReport", Weight: 3},
			{Selector: "table.grid", Weight: 1},
			{Selector: "div.account", Weight: 1},
			{Contains: "tri-bureau", Weight: 1},
		}},
		Extractor: gridExtractor{},
	}
}

var _ driven.VendorExtractor = gridExtractor{}

type gridExtractor struct{}

// cityStateZip matches "SPRINGFIELD, IL 62704" and "SPRINGFIELD IL 62704-1234".
var cityStateZip = regexp.MustCompile(`^(.+?),?\s+([A-Za-z]{2})\s+(\d{5}(?:-\d{4})?)$`)

// gridTable is a parsed table.grid: row label -> bureau column -> cell.
type gridTable struct {
	columns map[domain.Bureau]int
	rows    []gridRow
}

type gridRow struct {
	label string
	cells []*goquery.Selection
}

func (g gridTable) cell(b domain.Bureau, r gridRow) *goquery.Selection {
	idx, ok := g.columns[b]
	if !ok || idx >= len(r.cells) {
		return nil
	}
	return r.cells[idx]
}

func (g gridTable) value(b domain.Bureau, r gridRow) string {
	c := g.cell(b, r)
	if c == nil {
		return ""
	}
	return valueOrEmpty(text(c))
}

// parseGrid reads the header row for bureau columns. Data cells are the <td>
// elements of each row, in order; the row label is its <th>. A leading header
// cell that names no bureau sits over the label column, blank or not, and
// takes no data column.
func parseGrid(table *goquery.Selection) gridTable {
	g := gridTable{columns: make(map[domain.Bureau]int, domain.BureauCount)}
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if tr.HasClass("header") || (i == 0 && tr.Find("td").Length() == 0) {
			heads := tr.Find("th")
			offset := 0
			if _, ok := bureauFromHeading(text(heads.First())); !ok {
				offset = 1
			}
			heads.Each(func(j int, th *goquery.Selection) {
				if j < offset {
					return
				}
				if b, ok := bureauFromHeading(text(th)); ok {
					g.columns[b] = j - offset
				}
			})
			return
		}
		row := gridRow{label: labelKey(text(tr.Find("th").First()))}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row.cells = append(row.cells, td)
		})
		g.rows = append(g.rows, row)
	})
	return g
}

func (gridExtractor) Extract(doc domain.RawDocument, diags *domain.Diagnostics) (*domain.RawExtractionSet, error) {
	d, err := parseHTML(doc)
	if err != nil {
		return nil, domain.NewDocumentFailure("parse html: %v", err)
	}
	root := d.Find("#TriBureauReport").First()
	if root.Length() == 0 {
		root = d.Selection
	}

	scores := parseGrid(root.Find(`table.grid[data-section="scores"]`).First())
	personal := parseGrid(root.Find(`table.grid[data-section="personal"]`).First())
	var accounts []gridAccount
	root.Find("div.account").Each(func(i int, acct *goquery.Selection) {
		accounts = append(accounts, gridAccount{
			index: i + 1,
			title: valueOrEmpty(text(acct.Find(".account-title").First())),
			grid:  parseGrid(acct.Find("table.grid").First()),
		})
	})

	present := make(map[domain.Bureau]bool, domain.BureauCount)
	for b := range scores.columns {
		present[b] = true
	}
	for b := range personal.columns {
		present[b] = true
	}
	for _, a := range accounts {
		for b := range a.grid.columns {
			present[b] = true
		}
	}
	if len(present) == 0 {
		return nil, domain.NewDocumentFailure("no bureau columns found")
	}

	set := domain.NewRawExtractionSet()
	set.VendorLabel = "Tri-Bureau Grid"
	if date, ok := root.Attr("data-report-date"); ok {
		set.ReportDate = valueOrEmpty(date)
	}
	if set.ReportDate == "" {
		set.ReportDate = valueOrEmpty(text(d.Find(".report-date").First()))
	}

	var g errgroup.Group
	for b := range present {
		slot := set.Slot(b)
		g.Go(func() error {
			slot.Present = true
			gridScore(scores, slot, diags)
			gridPersonal(personal, slot, diags)
			gridTradelines(accounts, slot, diags)
			return nil
		})
	}
	_ = g.Wait()

	// Row lists carry a bureau per row; they are read after the fan-out.
	gridInquiries(root.Find(`table.grid[data-section="inquiries"]`).First(), set, diags)
	gridPublicRecords(root.Find(`table.grid[data-section="public-records"]`).First(), set, diags)

	return set, nil
}

type gridAccount struct {
	index int
	title string
	grid  gridTable
}

func gridScore(t gridTable, slot *domain.BureauExtraction, diags *domain.Diagnostics) {
	b := slot.Bureau
	if _, ok := t.columns[b]; !ok {
		diags.Warn(domain.SectionScores, b, "no score column")
		return
	}
	frag := &domain.ScoreFragment{Provenance: exact(b, domain.SectionScores)}
	for _, r := range t.rows {
		switch r.label {
		case "CREDIT SCORE", "SCORE":
			frag.Value = t.value(b, r)
		case "SCORE MODEL", "MODEL", "SCORE TYPE":
			frag.Model = t.value(b, r)
		}
	}
	if frag.Value == "" {
		diags.Warn(domain.SectionScores, b, "score value empty")
		return
	}
	slot.Score = frag
}

func gridPersonal(t gridTable, slot *domain.BureauExtraction, diags *domain.Diagnostics) {
	b := slot.Bureau
	if _, ok := t.columns[b]; !ok {
		diags.Warn(domain.SectionPersonalInfo, b, "no personal info column")
		return
	}
	p := &domain.PersonalInfoFragment{Provenance: exact(b, domain.SectionPersonalInfo)}
	known := 0
	for _, r := range t.rows {
		cell := t.cell(b, r)
		if cell == nil {
			continue
		}
		if r.label == "CURRENT ADDRESS" || r.label == "ADDRESS" {
			if splitGridAddress(p, lines(cell)) {
				p.Confidence = domain.ConfidenceHeuristic
			} else {
				diags.Warn(domain.SectionPersonalInfo, b, "address %q not split into components", text(cell))
			}
			known++
			continue
		}
		if personalField(p, r.label, text(cell)) {
			known++
		}
	}
	if known == 0 {
		diags.Fail(domain.SectionPersonalInfo, b, errors.New("personal info column has no recognized fields"))
		return
	}
	if p.Name == "" && p.SSN == "" && p.DOB == "" && p.Street == "" {
		diags.Warn(domain.SectionPersonalInfo, b, "personal info column empty")
		return
	}
	slot.PersonalInfo = p
}

// splitGridAddress fills street, city, state and ZIP from a multi-line cell.
// Returns true when the city line was split.
func splitGridAddress(p *domain.PersonalInfoFragment, ls []string) bool {
	if len(ls) == 0 {
		return false
	}
	if len(ls) == 1 {
		// "123 MAIN ST SPRINGFIELD, IL 62704" has no reliable street/city boundary
		p.Street = ls[0]
		return false
	}
	p.Street = strings.Join(ls[:len(ls)-1], " ")
	m := cityStateZip.FindStringSubmatch(ls[len(ls)-1])
	if m == nil {
		return false
	}
	p.City = strings.TrimSpace(m[1])
	p.State = strings.ToUpper(m[2])
	p.PostalCode = m[3]
	return true
}

func gridTradelines(accounts []gridAccount, slot *domain.BureauExtraction, diags *domain.Diagnostics) {
	b := slot.Bureau
	for _, a := range accounts {
		if _, ok := a.grid.columns[b]; !ok {
			continue
		}
		t := domain.TradelineFragment{Provenance: exact(b, domain.SectionTradelines), CreditorName: a.title}
		filled := 0
		for _, r := range a.grid.rows {
			v := a.grid.value(b, r)
			if v == "" {
				continue
			}
			filled++
			switch r.label {
			case "ACCOUNT", "ACCOUNT NUMBER":
				t.AccountNumber = v
			case "ACCOUNT TYPE", "TYPE":
				t.AccountType = v
			case "BALANCE", "CURRENT BALANCE":
				t.Balance = v
			case "CREDIT LIMIT", "HIGH CREDIT", "LIMIT":
				t.CreditLimit = v
			case "ACCOUNT STATUS", "STATUS":
				t.Status = v
			case "PAYMENT STATUS":
				t.PaymentStatus = v
			case "PAYMENT HISTORY", "HISTORY":
				t.PaymentHistory = v
			case "DATE OPENED", "OPENED", "OPEN DATE":
				t.OpenDate = v
			case "DATE CLOSED", "CLOSED", "CLOSE DATE":
				t.CloseDate = v
			case "CREDITOR", "CREDITOR NAME":
				if t.CreditorName == "" {
					t.CreditorName = v
				}
			default:
				filled--
			}
		}
		if filled == 0 {
			// every cell blank: the bureau does not report this account
			continue
		}
		if t.CreditorName == "" {
			diags.Warn(domain.SectionTradelines, b, "account %d has no creditor, skipped", a.index)
			continue
		}
		slot.Tradelines = append(slot.Tradelines, t)
	}
}

// listTable maps header labels to column indexes for a row-list table.
func listTable(table *goquery.Selection) (map[string]int, *goquery.Selection) {
	cols := make(map[string]int)
	header := table.Find("tr.header").First()
	if header.Length() == 0 {
		header = table.Find("tr").First()
	}
	header.Find("th").Each(func(i int, th *goquery.Selection) {
		cols[labelKey(text(th))] = i
	})
	return cols, table.Find("tr").Not("tr.header").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Find("td").Length() > 0
	})
}

func listCell(row *goquery.Selection, cols map[string]int, names ...string) string {
	for _, n := range names {
		if idx, ok := cols[n]; ok {
			return valueOrEmpty(text(row.Find("td").Eq(idx)))
		}
	}
	return ""
}

func gridInquiries(table *goquery.Selection, set *domain.RawExtractionSet, diags *domain.Diagnostics) {
	if table.Length() == 0 {
		return
	}
	cols, rows := listTable(table)
	rows.Each(func(i int, row *goquery.Selection) {
		b, ok := bureauFromHeading(listCell(row, cols, "BUREAU", "REPORTED BY"))
		if !ok || !set.Slot(b).Present {
			diags.Warn(domain.SectionInquiries, "", "row %d has no usable bureau, skipped", i+1)
			return
		}
		q := domain.InquiryFragment{
			Provenance:   exact(b, domain.SectionInquiries),
			CreditorName: listCell(row, cols, "CREDITOR", "CREDITOR NAME", "SUBSCRIBER"),
			Date:         listCell(row, cols, "DATE", "INQUIRY DATE"),
			Type:         listCell(row, cols, "TYPE", "INQUIRY TYPE"),
		}
		if q.CreditorName == "" {
			diags.Warn(domain.SectionInquiries, b, "row %d has no creditor, skipped", i+1)
			return
		}
		slot := set.Slot(b)
		slot.Inquiries = append(slot.Inquiries, q)
	})
}

func gridPublicRecords(table *goquery.Selection, set *domain.RawExtractionSet, diags *domain.Diagnostics) {
	if table.Length() == 0 {
		return
	}
	cols, rows := listTable(table)
	rows.Each(func(i int, row *goquery.Selection) {
		b, ok := bureauFromHeading(listCell(row, cols, "BUREAU", "REPORTED BY"))
		if !ok || !set.Slot(b).Present {
			diags.Warn(domain.SectionPublicRecords, "", "row %d has no usable bureau, skipped", i+1)
			return
		}
		r := domain.PublicRecordFragment{
			Provenance: exact(b, domain.SectionPublicRecords),
			Kind:       listCell(row, cols, "TYPE", "KIND", "RECORD TYPE"),
			Reference:  listCell(row, cols, "REFERENCE", "CASE NUMBER"),
			FiledDate:  listCell(row, cols, "FILED", "DATE FILED", "FILED DATE"),
			Status:     listCell(row, cols, "STATUS"),
			Amount:     listCell(row, cols, "AMOUNT", "LIABILITY"),
		}
		if r.Kind == "" {
			diags.Warn(domain.SectionPublicRecords, b, "row %d has no kind, skipped", i+1)
			return
		}
		slot := set.Slot(b)
		slot.PublicRecords = append(slot.PublicRecords, r)
	})
}
