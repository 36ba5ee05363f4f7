package domain

// Address is a postal address split into components.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// IsEmpty returns true if no address component is set.
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.PostalCode == ""
}

// PersonalInfo is one bureau's personal information after light normalization.
// Kept per bureau in the report for audit.
type PersonalInfo struct {
	Bureau     Bureau     `json:"bureau"`
	Name       string     `json:"name"`
	Aliases    []string   `json:"aliases,omitempty"`
	SSNLast4   string     `json:"ssnLast4,omitempty"`
	DOB        string     `json:"dob,omitempty"`
	Address    Address    `json:"address"`
	Employer   string     `json:"employer,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// Identity field names used in discrepancies.
const (
	FieldName       = "name"
	FieldSSNLast4   = "ssnLast4"
	FieldDOB        = "dob"
	FieldStreet     = "address.street"
	FieldCity       = "address.city"
	FieldState      = "address.state"
	FieldPostalCode = "address.postalCode"
)

// BureauValue is one bureau's value for a field.
type BureauValue struct {
	Bureau Bureau `json:"bureau"`
	Value  string `json:"value"`
}

// Discrepancy records a field on which bureaus disagree.
// BureauValues holds the base bureau's value first, then every disagreeing value.
type Discrepancy struct {
	Field        string        `json:"field"`
	BureauValues []BureauValue `json:"bureauValues"`
}

// CanonicalIdentity is the reconciled personal-info record. Derived, never edited.
type CanonicalIdentity struct {
	Name          string        `json:"name"`
	SSNLast4      string        `json:"ssnLast4,omitempty"`
	DOB           string        `json:"dob,omitempty"`
	Address       Address       `json:"address"`
	BaseBureau    Bureau        `json:"baseBureau"`
	Bureaus       []Bureau      `json:"bureaus"`
	Confidence    float64       `json:"confidence"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}

// Discrepancy returns the discrepancy for a field, or nil.
func (c *CanonicalIdentity) Discrepancy(field string) *Discrepancy {
	for i := range c.Discrepancies {
		if c.Discrepancies[i].Field == field {
			return &c.Discrepancies[i]
		}
	}
	return nil
}
