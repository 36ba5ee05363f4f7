package domain

import "time"

// BureauScore is one bureau's credit score.
type BureauScore struct {
	Bureau Bureau `json:"bureau"`
	Score  int    `json:"score"`
	Model  string `json:"model,omitempty"`
}

// Inquiry is a credit inquiry reported by one bureau.
type Inquiry struct {
	Bureau       Bureau `json:"bureau"`
	CreditorName string `json:"creditorName"`
	Date         string `json:"date,omitempty"`
	Type         string `json:"type,omitempty"`
}

// PublicRecord is a public record reported by one bureau.
type PublicRecord struct {
	Bureau    Bureau   `json:"bureau"`
	Kind      string   `json:"kind"`
	Reference string   `json:"reference,omitempty"`
	FiledDate string   `json:"filedDate,omitempty"`
	Status    string   `json:"status,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
}

// NormalizedReport is the canonical output of the pipeline. Field names and
// bureau codes are a compatibility contract for downstream consumers.
type NormalizedReport struct {
	OK                       bool               `json:"ok"`
	Vendor                   string             `json:"vendor"`
	VendorVersion            string             `json:"vendorVersion,omitempty"`
	ClassificationConfidence float64            `json:"classificationConfidence"`
	ReportDate               string             `json:"reportDate"`
	ObjectKey                string             `json:"objectKey"`
	AccountID                string             `json:"accountId"`
	Bureaus                  []BureauScore      `json:"bureaus"`
	PersonalInfo             []PersonalInfo     `json:"personalInfo"`
	Identity                 *CanonicalIdentity `json:"identity"`
	Tradelines               []Tradeline        `json:"tradelines"`
	Inquiries                []Inquiry          `json:"inquiries"`
	PublicRecords            []PublicRecord     `json:"publicRecords"`
	Partial                  bool               `json:"partial"`
	Warnings                 []string           `json:"warnings"`
}

// Score returns the score reported by a bureau, or 0 if absent.
func (r *NormalizedReport) Score(b Bureau) int {
	for _, s := range r.Bureaus {
		if s.Bureau == b {
			return s.Score
		}
	}
	return 0
}

// NegativeCount returns the number of negative tradelines.
func (r *NormalizedReport) NegativeCount() int {
	n := 0
	for i := range r.Tradelines {
		if r.Tradelines[i].IsNegative {
			n++
		}
	}
	return n
}

// WithCorrelation returns a shallow copy stamped with new correlation ids.
// Used when a cached report is served for a different upload of the same bytes.
func (r *NormalizedReport) WithCorrelation(objectKey, accountID string) *NormalizedReport {
	cp := *r
	cp.ObjectKey = objectKey
	cp.AccountID = accountID
	return &cp
}

// StoredReport is a persisted NormalizedReport.
type StoredReport struct {
	ID        string            `json:"id"`
	AccountID string            `json:"accountId"`
	ObjectKey string            `json:"objectKey"`
	Vendor    string            `json:"vendor"`
	Partial   bool              `json:"partial"`
	Report    *NormalizedReport `json:"report"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewStoredReport wraps a report for persistence.
func NewStoredReport(r *NormalizedReport) *StoredReport {
	return &StoredReport{
		ID:        NewID(),
		AccountID: r.AccountID,
		ObjectKey: r.ObjectKey,
		Vendor:    r.Vendor,
		Partial:   r.Partial,
		Report:    r,
		CreatedAt: time.Now(),
	}
}

// ReportSummary is a list-view projection of a stored report.
type ReportSummary struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"accountId"`
	ObjectKey  string    `json:"objectKey"`
	Vendor     string    `json:"vendor"`
	ReportDate string    `json:"reportDate"`
	Partial    bool      `json:"partial"`
	CreatedAt  time.Time `json:"createdAt"`
}
