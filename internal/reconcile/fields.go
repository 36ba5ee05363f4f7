package reconcile

import (
	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/textnorm"
)

// matchKind selects the equivalence rule for a field.
type matchKind int

const (
	matchExact matchKind = iota
	matchFuzzy
)

// field is one compared identity field.
type field struct {
	name   string
	kind   matchKind
	get    func(*domain.PersonalInfo) string
	set    func(*domain.CanonicalIdentity, string)
	tokens func(string) []string // fuzzy fields only
}

// fields is the ordered comparison table.
var fields = []field{
	{
		name:   domain.FieldName,
		kind:   matchFuzzy,
		get:    func(p *domain.PersonalInfo) string { return p.Name },
		set:    func(c *domain.CanonicalIdentity, v string) { c.Name = v },
		tokens: textnorm.Tokens,
	},
	{
		name: domain.FieldSSNLast4,
		kind: matchExact,
		get:  func(p *domain.PersonalInfo) string { return p.SSNLast4 },
		set:  func(c *domain.CanonicalIdentity, v string) { c.SSNLast4 = v },
	},
	{
		name: domain.FieldDOB,
		kind: matchExact,
		get:  func(p *domain.PersonalInfo) string { return p.DOB },
		set:  func(c *domain.CanonicalIdentity, v string) { c.DOB = v },
	},
	{
		name:   domain.FieldStreet,
		kind:   matchFuzzy,
		get:    func(p *domain.PersonalInfo) string { return p.Address.Street },
		set:    func(c *domain.CanonicalIdentity, v string) { c.Address.Street = v },
		tokens: streetTokens,
	},
	{
		name: domain.FieldCity,
		kind: matchExact,
		get:  func(p *domain.PersonalInfo) string { return p.Address.City },
		set:  func(c *domain.CanonicalIdentity, v string) { c.Address.City = v },
	},
	{
		name: domain.FieldState,
		kind: matchExact,
		get:  func(p *domain.PersonalInfo) string { return p.Address.State },
		set:  func(c *domain.CanonicalIdentity, v string) { c.Address.State = v },
	},
	{
		name: domain.FieldPostalCode,
		kind: matchExact,
		get:  func(p *domain.PersonalInfo) string { return textnorm.PostalCode(p.Address.PostalCode) },
		set:  func(c *domain.CanonicalIdentity, v string) { c.Address.PostalCode = v },
	},
}

var streetAbbreviations = map[string]string{
	"STREET":    "ST",
	"AVENUE":    "AVE",
	"AV":        "AVE",
	"ROAD":      "RD",
	"DRIVE":     "DR",
	"BOULEVARD": "BLVD",
	"LANE":      "LN",
	"COURT":     "CT",
	"PLACE":     "PL",
	"TERRACE":   "TER",
	"CIRCLE":    "CIR",
	"HIGHWAY":   "HWY",
	"PARKWAY":   "PKWY",
	"TRAIL":     "TRL",
	"APARTMENT": "APT",
	"SUITE":     "STE",
	"NORTH":     "N",
	"SOUTH":     "S",
	"EAST":      "E",
	"WEST":      "W",
	"NORTHEAST": "NE",
	"NORTHWEST": "NW",
	"SOUTHEAST": "SE",
	"SOUTHWEST": "SW",
}

// streetTokens folds a street line and abbreviates suffixes and directionals
// so "456 Oak Avenue" and "456 OAK AVE" tokenize identically.
func streetTokens(s string) []string {
	toks := textnorm.Tokens(s)
	for i, t := range toks {
		if abbr, ok := streetAbbreviations[t]; ok {
			toks[i] = abbr
		}
	}
	return toks
}
