package domain

// Priority ranks a negative item for follow-up (P1 most severe).
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// Risk grades a personal-info discrepancy.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// AuditKPIs summarizes a report.
type AuditKPIs struct {
	Scores             map[Bureau]int `json:"scores"`
	TradelineCount     int            `json:"tradelineCount"`
	NegativeCount      int            `json:"negativeCount"`
	InquiryCount       int            `json:"inquiryCount"`
	PublicRecordCount  int            `json:"publicRecordCount"`
	IdentityConfidence float64        `json:"identityConfidence"`
}

// NegativeItem is a negative tradeline as shown in the audit view.
type NegativeItem struct {
	CreditorName string            `json:"creditorName"`
	AccountRef   string            `json:"accountRef,omitempty"`
	Priority     Priority          `json:"priority"`
	Reasons      []IssueTag        `json:"reasons"`
	Status       string            `json:"status,omitempty"`
	Bureaus      []Bureau          `json:"bureaus"`
	BureauDates  map[Bureau]string `json:"bureauDates,omitempty"`
}

// UtilizationFigure is a balance/limit pair and its percentage.
type UtilizationFigure struct {
	Balance float64  `json:"balance"`
	Limit   float64  `json:"limit"`
	Percent *float64 `json:"percent"`
}

// UtilizationSummary reports overall and per-bureau revolving utilization.
type UtilizationSummary struct {
	Overall    UtilizationFigure            `json:"overall"`
	ByBureau   map[Bureau]UtilizationFigure `json:"byBureau"`
	Target     float64                      `json:"target"`
	OverTarget bool                         `json:"overTarget"`
}

// PersonalInfoIssue is a discrepancy graded by risk.
type PersonalInfoIssue struct {
	Field        string        `json:"field"`
	Risk         Risk          `json:"risk"`
	BureauValues []BureauValue `json:"bureauValues"`
}

// DuplicateAccount is an account reported by more than one bureau or twice by one.
type DuplicateAccount struct {
	CreditorName     string   `json:"creditorName"`
	AccountRef       string   `json:"accountRef,omitempty"`
	ReportedBureaus  []Bureau `json:"reportedBureaus"`
	DuplicateBureaus []Bureau `json:"duplicateBureaus,omitempty"`
}

// Audit is a derived review of a NormalizedReport.
type Audit struct {
	ReportID           string              `json:"reportId,omitempty"`
	AccountID          string              `json:"accountId"`
	Vendor             string              `json:"vendor"`
	ReportDate         string              `json:"reportDate"`
	KPIs               AuditKPIs           `json:"kpis"`
	NegativeItems      []NegativeItem      `json:"negativeItems"`
	Utilization        UtilizationSummary  `json:"utilization"`
	PersonalInfoIssues []PersonalInfoIssue `json:"personalInfoIssues"`
	Duplicates         []DuplicateAccount  `json:"duplicates"`
	Partial            bool                `json:"partial"`
	Warnings           []string            `json:"warnings"`
}
