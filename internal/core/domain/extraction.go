package domain

// Section names a logical part of a credit report.
type Section string

const (
	SectionDocument      Section = "document"
	SectionScores        Section = "scores"
	SectionPersonalInfo  Section = "personalInfo"
	SectionTradelines    Section = "tradelines"
	SectionInquiries     Section = "inquiries"
	SectionPublicRecords Section = "publicRecords"
)

// Confidence tells how a fragment was located in the source document.
type Confidence string

const (
	// ConfidenceExact means the value came from a known structural slot
	ConfidenceExact Confidence = "exact"
	// ConfidenceHeuristic means the value was inferred (label scan, regex split, ...)
	ConfidenceHeuristic Confidence = "heuristic"
)

// Rank orders confidences for base-record selection (higher is better).
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceExact:
		return 2
	case ConfidenceHeuristic:
		return 1
	default:
		return 0
	}
}

// Provenance records where a fragment came from.
type Provenance struct {
	Bureau     Bureau     `json:"bureau"`
	Section    Section    `json:"section"`
	Confidence Confidence `json:"confidence"`
}

// ScoreFragment is a raw bureau score observation.
type ScoreFragment struct {
	Provenance
	Value string `json:"value"`
	Model string `json:"model,omitempty"`
}

// PersonalInfoFragment is one bureau's raw personal information.
type PersonalInfoFragment struct {
	Provenance
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases,omitempty"`
	SSN        string   `json:"ssn"`
	DOB        string   `json:"dob"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode string   `json:"postal_code"`
	Employer   string   `json:"employer,omitempty"`
}

// TradelineFragment is one bureau's raw view of an account.
type TradelineFragment struct {
	Provenance
	CreditorName   string `json:"creditor_name"`
	AccountNumber  string `json:"account_number"`
	AccountType    string `json:"account_type"`
	Balance        string `json:"balance"`
	CreditLimit    string `json:"credit_limit"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
	PaymentHistory string `json:"payment_history"`
	OpenDate       string `json:"open_date"`
	CloseDate      string `json:"close_date"`
}

// InquiryFragment is a raw hard/soft inquiry observation.
type InquiryFragment struct {
	Provenance
	CreditorName string `json:"creditor_name"`
	Date         string `json:"date"`
	Type         string `json:"type"`
}

// PublicRecordFragment is a raw public record observation.
type PublicRecordFragment struct {
	Provenance
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
	FiledDate string `json:"filed_date"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
}

// BureauExtraction holds everything extracted for one bureau.
type BureauExtraction struct {
	Bureau        Bureau                 `json:"bureau"`
	Present       bool                   `json:"present"`
	Score         *ScoreFragment         `json:"score,omitempty"`
	PersonalInfo  *PersonalInfoFragment  `json:"personal_info,omitempty"`
	Tradelines    []TradelineFragment    `json:"tradelines,omitempty"`
	Inquiries     []InquiryFragment      `json:"inquiries,omitempty"`
	PublicRecords []PublicRecordFragment `json:"public_records,omitempty"`
}

// IsEmpty returns true if nothing at all was extracted for the bureau.
func (b *BureauExtraction) IsEmpty() bool {
	return b.Score == nil && b.PersonalInfo == nil && len(b.Tradelines) == 0 &&
		len(b.Inquiries) == 0 && len(b.PublicRecords) == 0
}

// RawExtractionSet is the loosely-typed output of a vendor extractor.
// Slots are indexed by Bureau.Index so concurrent bureau extractors write
// disjoint memory. The set is not modified after the extractor returns.
type RawExtractionSet struct {
	VendorLabel string                        `json:"vendor_label,omitempty"`
	ReportDate  string                        `json:"report_date,omitempty"`
	Slots       [BureauCount]BureauExtraction `json:"slots"`
}

// NewRawExtractionSet returns a set with bureau codes stamped on every slot.
func NewRawExtractionSet() *RawExtractionSet {
	set := &RawExtractionSet{}
	for i, b := range AllBureaus {
		set.Slots[i].Bureau = b
	}
	return set
}

// Slot returns the mutable slot for a bureau; nil for an invalid code.
func (s *RawExtractionSet) Slot(b Bureau) *BureauExtraction {
	idx := b.Index()
	if idx < 0 {
		return nil
	}
	return &s.Slots[idx]
}

// Bureaus returns the bureaus marked present, in priority order.
func (s *RawExtractionSet) Bureaus() []Bureau {
	var out []Bureau
	for i := range s.Slots {
		if s.Slots[i].Present {
			out = append(out, s.Slots[i].Bureau)
		}
	}
	return out
}

// PersonalInfo returns present personal-info fragments in priority order.
func (s *RawExtractionSet) PersonalInfo() []PersonalInfoFragment {
	var out []PersonalInfoFragment
	for i := range s.Slots {
		if s.Slots[i].PersonalInfo != nil {
			out = append(out, *s.Slots[i].PersonalInfo)
		}
	}
	return out
}

// Tradelines returns all tradeline fragments, bureau by bureau in priority order.
func (s *RawExtractionSet) Tradelines() []TradelineFragment {
	var out []TradelineFragment
	for i := range s.Slots {
		out = append(out, s.Slots[i].Tradelines...)
	}
	return out
}

// Scores returns present score fragments in priority order.
func (s *RawExtractionSet) Scores() []ScoreFragment {
	var out []ScoreFragment
	for i := range s.Slots {
		if s.Slots[i].Score != nil {
			out = append(out, *s.Slots[i].Score)
		}
	}
	return out
}

// Inquiries returns all inquiry fragments in priority order.
func (s *RawExtractionSet) Inquiries() []InquiryFragment {
	var out []InquiryFragment
	for i := range s.Slots {
		out = append(out, s.Slots[i].Inquiries...)
	}
	return out
}

// PublicRecords returns all public record fragments in priority order.
func (s *RawExtractionSet) PublicRecords() []PublicRecordFragment {
	var out []PublicRecordFragment
	for i := range s.Slots {
		out = append(out, s.Slots[i].PublicRecords...)
	}
	return out
}

// IsEmpty returns true if no bureau produced any fragment.
func (s *RawExtractionSet) IsEmpty() bool {
	for i := range s.Slots {
		if !s.Slots[i].IsEmpty() {
			return false
		}
	}
	return true
}
