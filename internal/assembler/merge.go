package assembler

import (
	"sort"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/textnorm"
)

// accountIndex finds earlier tradelines for the same account. Two tradelines
// match on normalized creditor plus the last four of the account number, or on
// creditor plus open date when at least one of them has no account number.
// Tradelines with neither key are never merged.
type accountIndex struct {
	byRef    map[string]int
	byOpened map[string][]int
}

func newAccountIndex() *accountIndex {
	return &accountIndex{byRef: make(map[string]int), byOpened: make(map[string][]int)}
}

func refKey(t *domain.Tradeline) string {
	if t.AccountRef == "" {
		return ""
	}
	return textnorm.Key(t.CreditorName) + "|" + t.AccountRef
}

func openedKey(t *domain.Tradeline) string {
	if t.OpenDate == "" {
		return ""
	}
	return textnorm.Key(t.CreditorName) + "|" + t.OpenDate
}

func (x *accountIndex) find(out []domain.Tradeline, t *domain.Tradeline) (int, bool) {
	if k := refKey(t); k != "" {
		if i, ok := x.byRef[k]; ok {
			return i, true
		}
	}
	if k := openedKey(t); k != "" {
		for _, i := range x.byOpened[k] {
			if t.AccountRef == "" || out[i].AccountRef == "" {
				return i, true
			}
		}
	}
	return 0, false
}

// add registers out[i] under its current keys. Call again after a merge
// fills its account number or open date.
func (x *accountIndex) add(out []domain.Tradeline, i int) {
	if k := refKey(&out[i]); k != "" {
		if _, ok := x.byRef[k]; !ok {
			x.byRef[k] = i
		}
	}
	if k := openedKey(&out[i]); k != "" {
		for _, j := range x.byOpened[k] {
			if j == i {
				return
			}
		}
		x.byOpened[k] = append(x.byOpened[k], i)
	}
}

// mergeTradelines collapses tradelines describing the same account. The
// first occurrence in bureau priority order is the base; later ones union
// their bureaus and issues into it and fill its absent fields.
func mergeTradelines(in []domain.Tradeline) []domain.Tradeline {
	ordered := make([]domain.Tradeline, len(in))
	copy(ordered, in)
	sort.SliceStable(ordered, func(i, j int) bool {
		return firstBureau(&ordered[i]).Index() < firstBureau(&ordered[j]).Index()
	})

	out := make([]domain.Tradeline, 0, len(ordered))
	index := newAccountIndex()
	for _, t := range ordered {
		if i, ok := index.find(out, &t); ok {
			merge(&out[i], &t)
			index.add(out, i)
			continue
		}
		out = append(out, t)
		index.add(out, len(out)-1)
	}
	for i := range out {
		out[i].RecomputeUtilization()
	}
	return out
}

func merge(base, t *domain.Tradeline) {
	for _, b := range t.ReportedBureaus {
		if containsBureau(base.ReportedBureaus, b) {
			if !containsBureau(base.DuplicateBureaus, b) {
				base.DuplicateBureaus = domain.SortBureaus(append(base.DuplicateBureaus, b))
			}
			continue
		}
		base.ReportedBureaus = domain.SortBureaus(append(base.ReportedBureaus, b))
	}

	if base.Balance == nil {
		base.Balance = t.Balance
	}
	if base.CreditLimit == nil {
		base.CreditLimit = t.CreditLimit
	}
	fill(&base.AccountRef, t.AccountRef)
	fill(&base.AccountType, t.AccountType)
	fill(&base.Status, t.Status)
	fill(&base.PaymentHistory, t.PaymentHistory)
	fill(&base.OpenDate, t.OpenDate)
	fill(&base.CloseDate, t.CloseDate)

	base.Issues = append(base.Issues, t.Issues...)
	base.IsNegative = base.IsNegative || t.IsNegative
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func firstBureau(t *domain.Tradeline) domain.Bureau {
	if len(t.ReportedBureaus) == 0 {
		return ""
	}
	return t.ReportedBureaus[0]
}

func containsBureau(set []domain.Bureau, b domain.Bureau) bool {
	for _, x := range set {
		if x == b {
			return true
		}
	}
	return false
}
