package services

import (
	"sort"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

// BuildAudit derives the audit view of a report. It never modifies the report.
func BuildAudit(r *domain.NormalizedReport, policy domain.Policy) *domain.Audit {
	policy = policy.WithDefaults()
	audit := &domain.Audit{
		AccountID:          r.AccountID,
		Vendor:             r.Vendor,
		ReportDate:         r.ReportDate,
		KPIs:               auditKPIs(r),
		NegativeItems:      negativeItems(r.Tradelines),
		Utilization:        utilization(r.Tradelines, policy.UtilizationTarget),
		PersonalInfoIssues: personalInfoIssues(r.Identity),
		Duplicates:         duplicates(r.Tradelines),
		Partial:            r.Partial,
		Warnings:           append([]string{}, r.Warnings...),
	}
	return audit
}

func auditKPIs(r *domain.NormalizedReport) domain.AuditKPIs {
	k := domain.AuditKPIs{
		Scores:            make(map[domain.Bureau]int, len(r.Bureaus)),
		TradelineCount:    len(r.Tradelines),
		NegativeCount:     r.NegativeCount(),
		InquiryCount:      len(r.Inquiries),
		PublicRecordCount: len(r.PublicRecords),
	}
	for _, s := range r.Bureaus {
		k.Scores[s.Bureau] = s.Score
	}
	if r.Identity != nil {
		k.IdentityConfidence = r.Identity.Confidence
	}
	return k
}

// Priority is P1 for charge-offs and collections, P2 for late payments,
// closed derogatory and unmapped derogatory statuses, P3 for utilization alone.
func priority(t *domain.Tradeline) domain.Priority {
	switch {
	case t.HasIssue(domain.IssueChargeOff), t.HasIssue(domain.IssueCollection):
		return domain.PriorityP1
	case t.HasIssue(domain.IssueLatePayment), t.HasIssue(domain.IssueClosedDerogatory), len(t.Issues) == 0:
		return domain.PriorityP2
	default:
		return domain.PriorityP3
	}
}

func negativeItems(lines []domain.Tradeline) []domain.NegativeItem {
	items := []domain.NegativeItem{}
	for i := range lines {
		t := &lines[i]
		if !t.IsNegative {
			continue
		}
		item := domain.NegativeItem{
			CreditorName: t.CreditorName,
			AccountRef:   t.AccountRef,
			Priority:     priority(t),
			Reasons:      []domain.IssueTag{},
			Status:       t.Status,
			Bureaus:      t.ReportedBureaus,
		}
		seen := make(map[domain.IssueTag]bool)
		for _, is := range t.Issues {
			if !seen[is.Rule] {
				seen[is.Rule] = true
				item.Reasons = append(item.Reasons, is.Rule)
			}
		}
		if date := firstNonEmpty(t.CloseDate, t.OpenDate); date != "" {
			item.BureauDates = make(map[domain.Bureau]string, len(t.ReportedBureaus))
			for _, b := range t.ReportedBureaus {
				item.BureauDates[b] = date
			}
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		return items[i].CreditorName < items[j].CreditorName
	})
	return items
}

// utilization sums open accounts that carry both a balance and a positive limit.
func utilization(lines []domain.Tradeline, target float64) domain.UtilizationSummary {
	sum := domain.UtilizationSummary{
		ByBureau: make(map[domain.Bureau]domain.UtilizationFigure),
		Target:   target,
	}
	for i := range lines {
		t := &lines[i]
		if t.IsClosed() || t.Balance == nil || t.CreditLimit == nil || *t.CreditLimit <= 0 {
			continue
		}
		sum.Overall.Balance += *t.Balance
		sum.Overall.Limit += *t.CreditLimit
		for _, b := range t.ReportedBureaus {
			f := sum.ByBureau[b]
			f.Balance += *t.Balance
			f.Limit += *t.CreditLimit
			sum.ByBureau[b] = f
		}
	}
	sum.Overall.Percent = percent(sum.Overall)
	for b, f := range sum.ByBureau {
		f.Percent = percent(f)
		sum.ByBureau[b] = f
	}
	sum.OverTarget = sum.Overall.Percent != nil && *sum.Overall.Percent > target
	return sum
}

func percent(f domain.UtilizationFigure) *float64 {
	if f.Limit <= 0 {
		return nil
	}
	p := f.Balance / f.Limit * 100
	return &p
}

// fieldRisk grades a discrepancy: ssn and dob high, name medium, address low.
func fieldRisk(field string) domain.Risk {
	switch field {
	case domain.FieldSSNLast4, domain.FieldDOB:
		return domain.RiskHigh
	case domain.FieldName:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func personalInfoIssues(id *domain.CanonicalIdentity) []domain.PersonalInfoIssue {
	issues := []domain.PersonalInfoIssue{}
	if id == nil {
		return issues
	}
	for _, d := range id.Discrepancies {
		issues = append(issues, domain.PersonalInfoIssue{
			Field:        d.Field,
			Risk:         fieldRisk(d.Field),
			BureauValues: d.BureauValues,
		})
	}
	return issues
}

func duplicates(lines []domain.Tradeline) []domain.DuplicateAccount {
	out := []domain.DuplicateAccount{}
	for i := range lines {
		t := &lines[i]
		if len(t.ReportedBureaus) < 2 && len(t.DuplicateBureaus) == 0 {
			continue
		}
		out = append(out, domain.DuplicateAccount{
			CreditorName:     t.CreditorName,
			AccountRef:       t.AccountRef,
			ReportedBureaus:  t.ReportedBureaus,
			DuplicateBureaus: t.DuplicateBureaus,
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
