// Package assembler builds the NormalizedReport from the reconciled identity,
// the classified tradelines and the passthrough sections of an extraction.
package assembler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/textnorm"
)

// Valid score range.
const (
	MinScore = 300
	MaxScore = 900
)

// Input is everything the assembler merges into one report.
type Input struct {
	Extraction *domain.RawExtractionSet

	Identity     *domain.CanonicalIdentity
	PersonalInfo []domain.PersonalInfo
	// IdentityErr is set when reconciliation produced no identity
	IdentityErr error

	// Tradelines are classified, one per extracted fragment
	Tradelines []domain.Tradeline
}

// Config holds configuration for the Assembler.
type Config struct {
	Logger *slog.Logger
	// Now overrides the clock used for the default report date
	Now func() time.Time
}

// Assembler merges stage outputs into a NormalizedReport. Assembly never
// fails: problems become warnings or section failures in the diagnostics.
type Assembler struct {
	logger *slog.Logger
	now    func() time.Time
}

// New creates an Assembler.
func New(cfg Config) *Assembler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Assembler{logger: logger, now: now}
}

// Assemble builds the report. Partial and Warnings reflect diags as of the
// end of assembly.
func (a *Assembler) Assemble(in Input, diags *domain.Diagnostics) *domain.NormalizedReport {
	set := in.Extraction
	if set == nil {
		set = domain.NewRawExtractionSet()
	}

	report := &domain.NormalizedReport{
		OK:            true,
		ReportDate:    a.reportDate(set.ReportDate, diags),
		Bureaus:       scores(set.Scores(), diags),
		PersonalInfo:  in.PersonalInfo,
		Identity:      in.Identity,
		Inquiries:     inquiries(set.Inquiries(), diags),
		PublicRecords: publicRecords(set.PublicRecords(), diags),
	}
	if report.PersonalInfo == nil {
		report.PersonalInfo = []domain.PersonalInfo{}
	}
	if in.IdentityErr != nil {
		diags.Fail(domain.SectionPersonalInfo, "", in.IdentityErr)
	}

	merged := mergeTradelines(in.Tradelines)
	report.Tradelines = a.checkTradelines(merged, set.Bureaus(), diags)

	report.Partial = diags.Partial()
	report.Warnings = diags.Messages()

	a.logger.Debug("report assembled",
		"bureaus", len(report.Bureaus),
		"tradelines", len(report.Tradelines),
		"merged", len(in.Tradelines)-len(merged),
		"partial", report.Partial,
		"warnings", len(report.Warnings),
	)
	return report
}

func (a *Assembler) reportDate(raw string, diags *domain.Diagnostics) string {
	if iso, ok := textnorm.ParseDate(raw); ok {
		return iso
	}
	date := a.now().UTC().Format("2006-01-02")
	if textnorm.IsAbsent(raw) {
		diags.Warn(domain.SectionDocument, "", "report date missing, using %s", date)
	} else {
		diags.Warn(domain.SectionDocument, "", "unreadable report date %q, using %s", raw, date)
	}
	return date
}

// checkTradelines drops tradelines whose reporting bureaus are empty or not
// among the bureaus present in the document.
func (a *Assembler) checkTradelines(in []domain.Tradeline, present []domain.Bureau, diags *domain.Diagnostics) []domain.Tradeline {
	out := make([]domain.Tradeline, 0, len(in))
	for _, t := range in {
		if len(t.ReportedBureaus) == 0 {
			diags.Warn(domain.SectionTradelines, "", "%s: dropped, no reporting bureau", t.CreditorName)
			continue
		}
		ok := true
		for _, b := range t.ReportedBureaus {
			if !containsBureau(present, b) {
				diags.Warn(domain.SectionTradelines, b, "%s: dropped, bureau not present in document", t.CreditorName)
				ok = false
				break
			}
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}

func scores(frags []domain.ScoreFragment, diags *domain.Diagnostics) []domain.BureauScore {
	var byBureau [domain.BureauCount]*domain.BureauScore
	for _, f := range frags {
		idx := f.Bureau.Index()
		if idx < 0 {
			diags.Warn(domain.SectionScores, f.Bureau, "score for unknown bureau ignored")
			continue
		}
		if textnorm.IsAbsent(f.Value) {
			continue
		}
		v, ok := firstNumber(f.Value)
		if !ok || v < MinScore || v > MaxScore {
			diags.Warn(domain.SectionScores, f.Bureau, "score %q outside %d-%d", f.Value, MinScore, MaxScore)
			continue
		}
		if byBureau[idx] != nil {
			diags.Warn(domain.SectionScores, f.Bureau, "duplicate score %q ignored", f.Value)
			continue
		}
		byBureau[idx] = &domain.BureauScore{Bureau: f.Bureau, Score: v, Model: textnorm.Clean(f.Model)}
	}
	out := make([]domain.BureauScore, 0, domain.BureauCount)
	for _, s := range byBureau {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// firstNumber returns the first run of digits in s.
func firstNumber(s string) (int, bool) {
	start := -1
	for i, r := range s {
		isDigit := r >= '0' && r <= '9'
		if isDigit && start < 0 {
			start = i
		}
		if !isDigit && start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:])
	return n, err == nil
}

func inquiries(frags []domain.InquiryFragment, diags *domain.Diagnostics) []domain.Inquiry {
	out := make([]domain.Inquiry, 0, len(frags))
	seen := make(map[string]bool)
	for _, f := range frags {
		if !f.Bureau.IsValid() {
			diags.Warn(domain.SectionInquiries, f.Bureau, "inquiry for unknown bureau ignored")
			continue
		}
		inq := domain.Inquiry{
			Bureau:       f.Bureau,
			CreditorName: textnorm.Fold(present(f.CreditorName)),
			Type:         present(f.Type),
		}
		if inq.CreditorName == "" {
			diags.Warn(domain.SectionInquiries, f.Bureau, "inquiry without creditor ignored")
			continue
		}
		inq.Date = date(domain.SectionInquiries, f.Bureau, f.Date, diags)

		key := string(inq.Bureau) + "|" + textnorm.Key(inq.CreditorName) + "|" + inq.Date
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, inq)
	}
	return out
}

func publicRecords(frags []domain.PublicRecordFragment, diags *domain.Diagnostics) []domain.PublicRecord {
	out := make([]domain.PublicRecord, 0, len(frags))
	for _, f := range frags {
		if !f.Bureau.IsValid() {
			diags.Warn(domain.SectionPublicRecords, f.Bureau, "public record for unknown bureau ignored")
			continue
		}
		rec := domain.PublicRecord{
			Bureau:    f.Bureau,
			Kind:      present(f.Kind),
			Reference: present(f.Reference),
			Status:    present(f.Status),
			FiledDate: date(domain.SectionPublicRecords, f.Bureau, f.FiledDate, diags),
		}
		if rec.Kind == "" {
			diags.Warn(domain.SectionPublicRecords, f.Bureau, "public record without kind ignored")
			continue
		}
		v, ok, err := textnorm.ParseMoney(f.Amount)
		switch {
		case err != nil:
			diags.Warn(domain.SectionPublicRecords, f.Bureau, "%s: unreadable amount %q", rec.Kind, f.Amount)
		case ok:
			rec.Amount = &v
		}
		out = append(out, rec)
	}
	return out
}

func date(section domain.Section, b domain.Bureau, raw string, diags *domain.Diagnostics) string {
	if textnorm.IsAbsent(raw) {
		return ""
	}
	iso, ok := textnorm.ParseDate(raw)
	if !ok {
		diags.Warn(section, b, "unreadable date %q", raw)
		return ""
	}
	return iso
}

func present(s string) string {
	if textnorm.IsAbsent(s) {
		return ""
	}
	return textnorm.Clean(s)
}
