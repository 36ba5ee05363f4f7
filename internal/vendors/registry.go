// Package vendors implements the document classifier and the closed set of
// vendor extraction strategies.
package vendors

import (
	"fmt"
	"strings"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VendorClassifier = (*Registry)(nil)

// Profile is a named, versioned strategy descriptor: a signature matcher plus
// the extractor to use when it wins. Profiles are static data.
type Profile struct {
	Info      domain.VendorInfo
	Matcher   driven.SignatureMatcher
	Extractor driven.VendorExtractor
}

// Registry is the read-only vendor registry. It is built once at startup and
// never mutated, so concurrent lookups need no locking.
type Registry struct {
	profiles []Profile
	unknown  Profile
}

// NewRegistry validates and registers profiles in the given order.
// Registration order is the classification tie-break.
func NewRegistry(profiles ...Profile) (*Registry, error) {
	seen := make(map[string]struct{}, len(profiles))
	out := make([]Profile, 0, len(profiles))
	for i, p := range profiles {
		id := strings.TrimSpace(p.Info.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: profile %d has empty id", domain.ErrInvalidInput, i)
		}
		if id == domain.UnknownVendorID {
			return nil, fmt.Errorf("%w: %q is reserved", domain.ErrInvalidInput, id)
		}
		if p.Matcher == nil || p.Extractor == nil {
			return nil, fmt.Errorf("%w: profile %q needs a matcher and an extractor", domain.ErrInvalidInput, id)
		}
		if p.Info.Threshold <= 0 || p.Info.Threshold > 1 {
			return nil, fmt.Errorf("%w: profile %q threshold must be in (0,1]", domain.ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: profile %q", domain.ErrAlreadyExists, id)
		}
		seen[id] = struct{}{}
		out = append(out, p)
	}
	return &Registry{profiles: out, unknown: UnknownProfile()}, nil
}

// Classify evaluates matchers in registration order; the first one at or above
// its own threshold wins. Otherwise the unknown profile is returned with
// confidence 0.
func (r *Registry) Classify(doc domain.RawDocument) driven.Classification {
	for _, p := range r.profiles {
		score := p.Matcher.Match(doc)
		if score >= p.Info.Threshold {
			return driven.Classification{Vendor: p.Info, Extractor: p.Extractor, Confidence: score}
		}
	}
	return driven.Classification{Vendor: r.unknown.Info, Extractor: r.unknown.Extractor, Confidence: 0}
}

// Profiles lists registered profiles in registration order, unknown last.
func (r *Registry) Profiles() []domain.VendorInfo {
	out := make([]domain.VendorInfo, 0, len(r.profiles)+1)
	for _, p := range r.profiles {
		out = append(out, p.Info)
	}
	return append(out, r.unknown.Info)
}

// Lookup returns a registered profile by id.
func (r *Registry) Lookup(id string) (Profile, bool) {
	if id == domain.UnknownVendorID {
		return r.unknown, true
	}
	for _, p := range r.profiles {
		if p.Info.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// Default returns the registry with every built-in vendor profile.
func Default() *Registry {
	r, err := NewRegistry(DemoProfile(), GridProfile())
	if err != nil {
		// Built-in profiles are static; a failure here is a programming error.
		panic(err)
	}
	return r
}
