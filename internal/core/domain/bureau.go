package domain

import (
	"fmt"
	"strings"
)

// Bureau identifies one of the three credit-reporting agencies.
// The codes are part of the output compatibility contract.
type Bureau string

const (
	BureauTransUnion Bureau = "TU"
	BureauExperian   Bureau = "EX"
	BureauEquifax    Bureau = "EQ"
)

// AllBureaus lists the bureaus in tie-break priority order (TU > EX > EQ).
// The order is a determinism choice, not a statement about data quality.
var AllBureaus = []Bureau{BureauTransUnion, BureauExperian, BureauEquifax}

// BureauCount is the size of the fixed bureau set.
const BureauCount = 3

// Index returns the bureau's position in AllBureaus, or -1 for unknown codes.
// Lower index means higher tie-break priority.
func (b Bureau) Index() int {
	switch b {
	case BureauTransUnion:
		return 0
	case BureauExperian:
		return 1
	case BureauEquifax:
		return 2
	default:
		return -1
	}
}

// IsValid returns true if the bureau is one of TU, EX, EQ.
func (b Bureau) IsValid() bool {
	return b.Index() >= 0
}

// Name returns the agency's display name.
func (b Bureau) Name() string {
	switch b {
	case BureauTransUnion:
		return "TransUnion"
	case BureauExperian:
		return "Experian"
	case BureauEquifax:
		return "Equifax"
	default:
		return string(b)
	}
}

// ParseBureau accepts a bureau code or agency name in any case.
func ParseBureau(s string) (Bureau, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	switch key {
	case "tu", "tuc", "transunion":
		return BureauTransUnion, nil
	case "ex", "exp", "xpn", "experian":
		return BureauExperian, nil
	case "eq", "eqf", "equifax":
		return BureauEquifax, nil
	}
	return "", fmt.Errorf("%w: unknown bureau %q", ErrInvalidInput, s)
}

// BureauAt returns the bureau stored at slot i of a per-bureau array.
func BureauAt(i int) Bureau {
	if i < 0 || i >= BureauCount {
		return ""
	}
	return AllBureaus[i]
}

// SortBureaus orders a bureau set by priority and drops duplicates and invalid codes.
func SortBureaus(in []Bureau) []Bureau {
	var seen [BureauCount]bool
	for _, b := range in {
		if idx := b.Index(); idx >= 0 {
			seen[idx] = true
		}
	}
	out := make([]Bureau, 0, BureauCount)
	for i, ok := range seen {
		if ok {
			out = append(out, AllBureaus[i])
		}
	}
	return out
}
