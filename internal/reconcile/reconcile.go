// Package reconcile merges the personal information reported by each bureau
// into one canonical identity and records where the bureaus disagree.
package reconcile

import (
	"log/slog"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/textnorm"
)

// Config holds configuration for the Reconciler.
type Config struct {
	Policy domain.Policy
	Logger *slog.Logger
}

// Reconciler builds a CanonicalIdentity from per-bureau fragments.
// It holds no per-call state and is safe for concurrent use.
type Reconciler struct {
	threshold float64
	logger    *slog.Logger
}

// New creates a Reconciler. Zero policy values fall back to defaults.
func New(cfg Config) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		threshold: cfg.Policy.WithDefaults().SimilarityThreshold,
		logger:    logger,
	}
}

// Normalize converts a raw fragment into a PersonalInfo: text is folded,
// the SSN is reduced to its last four digits and the DOB to ISO form.
// Values that cannot be normalized are kept folded and reported to diags.
func Normalize(f domain.PersonalInfoFragment, diags *domain.Diagnostics) domain.PersonalInfo {
	p := domain.PersonalInfo{
		Bureau:     f.Bureau,
		Name:       present(f.Name),
		SSNLast4:   textnorm.Last4(f.SSN),
		Employer:   present(f.Employer),
		Confidence: f.Confidence,
		Address: domain.Address{
			Street:     present(f.Street),
			City:       present(f.City),
			State:      present(f.State),
			PostalCode: textnorm.Digits(f.PostalCode),
		},
	}
	for _, a := range f.Aliases {
		if v := present(a); v != "" {
			p.Aliases = append(p.Aliases, v)
		}
	}
	if p.SSNLast4 == "" && present(f.SSN) != "" {
		warn(diags, f.Bureau, "ssn %q has fewer than 4 digits", f.SSN)
	}
	if dob := present(f.DOB); dob != "" {
		if iso, ok := textnorm.ParseDate(f.DOB); ok {
			p.DOB = iso
		} else {
			p.DOB = dob
			warn(diags, f.Bureau, "unrecognized date of birth %q", f.DOB)
		}
	}
	if len(p.Address.PostalCode) > 5 {
		p.Address.PostalCode = p.Address.PostalCode[:5] + "-" + p.Address.PostalCode[5:]
	}
	return p
}

// Reconcile normalizes the fragments and merges them into a canonical identity.
//
// The base record is the fragment with the highest extraction confidence,
// ties broken by bureau priority TU > EX > EQ. Empty base fields are filled
// from the next bureau in priority order. Every other bureau's value is
// compared with the chosen value; the confidence is the share of agreeing
// comparisons, 1.0 when nothing could be compared.
func (r *Reconciler) Reconcile(frags []domain.PersonalInfoFragment, diags *domain.Diagnostics) (*domain.CanonicalIdentity, []domain.PersonalInfo, error) {
	infos := make([]domain.PersonalInfo, 0, len(frags))
	var seen [domain.BureauCount]bool
	for _, f := range frags {
		idx := f.Bureau.Index()
		if idx < 0 {
			warn(diags, f.Bureau, "personal info for unknown bureau ignored")
			continue
		}
		if seen[idx] {
			warn(diags, f.Bureau, "duplicate personal info ignored")
			continue
		}
		seen[idx] = true
		infos = append(infos, Normalize(f, diags))
	}
	if len(infos) == 0 {
		return nil, nil, domain.ErrNoIdentity
	}
	order := priorityOrder(infos)
	base := &infos[order[0]]

	id := &domain.CanonicalIdentity{
		BaseBureau:    base.Bureau,
		Discrepancies: []domain.Discrepancy{},
	}
	for _, i := range order {
		id.Bureaus = append(id.Bureaus, infos[i].Bureau)
	}
	id.Bureaus = domain.SortBureaus(id.Bureaus)

	compared, agreed := 0, 0
	for _, fld := range fields {
		ref := -1
		for _, i := range order {
			if fld.get(&infos[i]) != "" {
				ref = i
				break
			}
		}
		if ref < 0 {
			continue
		}
		refValue := fld.get(&infos[ref])
		fld.set(id, displayValue(fld, &infos[ref]))

		var disagree []domain.BureauValue
		for _, i := range order {
			if i == ref {
				continue
			}
			v := fld.get(&infos[i])
			if v == "" {
				continue
			}
			compared++
			if r.equivalent(fld, refValue, v) {
				agreed++
				continue
			}
			disagree = append(disagree, domain.BureauValue{Bureau: infos[i].Bureau, Value: displayValue(fld, &infos[i])})
		}
		if len(disagree) > 0 {
			values := append([]domain.BureauValue{{Bureau: infos[ref].Bureau, Value: displayValue(fld, &infos[ref])}}, disagree...)
			id.Discrepancies = append(id.Discrepancies, domain.Discrepancy{Field: fld.name, BureauValues: values})
		}
	}

	id.Confidence = 1.0
	if compared > 0 {
		id.Confidence = float64(agreed) / float64(compared)
	}
	if len(id.Discrepancies) > 0 {
		r.logger.Debug("identity discrepancies",
			"base_bureau", id.BaseBureau,
			"discrepancies", len(id.Discrepancies),
			"confidence", id.Confidence,
		)
	}

	// Per-bureau output is in bureau priority order.
	sorted := make([]domain.PersonalInfo, 0, len(infos))
	for _, b := range domain.AllBureaus {
		for i := range infos {
			if infos[i].Bureau == b {
				sorted = append(sorted, infos[i])
			}
		}
	}
	return id, sorted, nil
}

func (r *Reconciler) equivalent(fld field, a, b string) bool {
	if fld.kind == matchExact {
		return a == b
	}
	return textnorm.Dice(fld.tokens(a), fld.tokens(b)) >= r.threshold
}

// priorityOrder returns indexes into infos sorted by confidence rank
// (highest first), then bureau priority.
func priorityOrder(infos []domain.PersonalInfo) []int {
	order := make([]int, 0, len(infos))
	for rank := 2; rank >= 0; rank-- {
		for _, b := range domain.AllBureaus {
			for i := range infos {
				if infos[i].Bureau == b && infos[i].Confidence.Rank() == rank {
					order = append(order, i)
				}
			}
		}
	}
	return order
}

// displayValue is the value shown in the identity and in discrepancies.
// Postal codes are compared on five digits but shown in full.
func displayValue(fld field, p *domain.PersonalInfo) string {
	if fld.name == domain.FieldPostalCode {
		return p.Address.PostalCode
	}
	return fld.get(p)
}

func present(s string) string {
	if textnorm.IsAbsent(s) {
		return ""
	}
	return textnorm.Fold(s)
}

func warn(diags *domain.Diagnostics, b domain.Bureau, format string, args ...any) {
	if diags == nil {
		return
	}
	diags.Warn(domain.SectionPersonalInfo, b, format, args...)
}
