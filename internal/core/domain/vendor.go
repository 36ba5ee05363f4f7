package domain

// UnknownVendorID is the id of the sentinel profile used when no vendor matches.
const UnknownVendorID = "unknown"

// VendorInfo describes a registered vendor profile.
type VendorInfo struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Version   string  `json:"version"`
	Threshold float64 `json:"threshold"`
}

// IsUnknown returns true for the sentinel profile.
func (v VendorInfo) IsUnknown() bool {
	return v.ID == UnknownVendorID
}
