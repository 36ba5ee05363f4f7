package domain

// IssueTag names the rule that produced an issue.
type IssueTag string

const (
	IssueLatePayment      IssueTag = "late_payment"
	IssueHighUtilization  IssueTag = "high_utilization"
	IssueChargeOff        IssueTag = "charge_off"
	IssueCollection       IssueTag = "collection"
	IssueClosedDerogatory IssueTag = "closed_derogatory"
)

// Issue is one fired rule plus the values that made it fire.
type Issue struct {
	Rule     IssueTag          `json:"rule"`
	Bureau   Bureau            `json:"bureau"`
	Evidence map[string]string `json:"evidence"`
}

// Tradeline is the canonical view of one reported credit account.
// Numeric fields are pointers: absent is not zero.
type Tradeline struct {
	CreditorName     string   `json:"creditorName"`
	AccountRef       string   `json:"accountRef,omitempty"`
	AccountType      string   `json:"accountType,omitempty"`
	Status           string   `json:"status,omitempty"`
	PaymentHistory   string   `json:"paymentHistory,omitempty"`
	Balance          *float64 `json:"balance"`
	CreditLimit      *float64 `json:"creditLimit"`
	Utilization      *float64 `json:"utilization"`
	IsNegative       bool     `json:"isNegative"`
	Issues           []Issue  `json:"issues"`
	ReportedBureaus  []Bureau `json:"reportedBureaus"`
	DuplicateBureaus []Bureau `json:"duplicateBureaus,omitempty"`
	OpenDate         string   `json:"openDate,omitempty"`
	CloseDate        string   `json:"closeDate,omitempty"`
}

// RecomputeUtilization sets Utilization to balance/limit when both are present
// and limit > 0, and clears it otherwise.
func (t *Tradeline) RecomputeUtilization() {
	t.Utilization = nil
	if t.Balance == nil || t.CreditLimit == nil || *t.CreditLimit <= 0 {
		return
	}
	u := *t.Balance / *t.CreditLimit
	t.Utilization = &u
}

// HasIssue returns true if an issue with the given tag is present.
func (t *Tradeline) HasIssue(tag IssueTag) bool {
	for _, is := range t.Issues {
		if is.Rule == tag {
			return true
		}
	}
	return false
}

// IsClosed returns true if the account has a close date.
func (t *Tradeline) IsClosed() bool {
	return t.CloseDate != ""
}
