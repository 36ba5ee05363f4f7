package vendors

import (
	"errors"
	"testing"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/vendors/samples"
)

// fixed-score matcher for testing
type scoreMatcher float64

func (m scoreMatcher) Match(domain.RawDocument) float64 { return float64(m) }

type nopExtractor struct{ id string }

func (nopExtractor) Extract(domain.RawDocument, *domain.Diagnostics) (*domain.RawExtractionSet, error) {
	return domain.NewRawExtractionSet(), nil
}

func profile(id string, score, threshold float64) Profile {
	return Profile{
		Info:      domain.VendorInfo{ID: id, Name: id, Version: "1", Threshold: threshold},
		Matcher:   scoreMatcher(score),
		Extractor: nopExtractor{id: id},
	}
}

func htmlDoc(body string) domain.RawDocument {
	return domain.NewRawDocument([]byte(body), "text/html", "test.html", "acct_test")
}

func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name     string
		profiles []Profile
		want     error
	}{
		{"empty id", []Profile{profile(" ", 1, 0.5)}, domain.ErrInvalidInput},
		{"reserved id", []Profile{profile("unknown", 1, 0.5)}, domain.ErrInvalidInput},
		{"zero threshold", []Profile{profile("a", 1, 0)}, domain.ErrInvalidInput},
		{"nil matcher", []Profile{{Info: domain.VendorInfo{ID: "a", Threshold: 0.5}, Extractor: nopExtractor{}}}, domain.ErrInvalidInput},
		{"duplicate", []Profile{profile("a", 1, 0.5), profile("a", 1, 0.5)}, domain.ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.profiles...)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegistry_Classify_RegistrationOrderWins(t *testing.T) {
	r, err := NewRegistry(
		profile("low", 0.4, 0.5),
		profile("first", 0.7, 0.6),
		profile("second", 0.99, 0.6),
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	c := r.Classify(htmlDoc("<html></html>"))

	if c.Vendor.ID != "first" {
		t.Errorf("expected first matcher above threshold to win, got %s", c.Vendor.ID)
	}
	if c.Confidence != 0.7 {
		t.Errorf("expected confidence 0.7, got %v", c.Confidence)
	}
}

func TestRegistry_Classify_Unknown(t *testing.T) {
	r, err := NewRegistry(profile("a", 0.3, 0.5))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	c := r.Classify(htmlDoc("<html><body>hello</body></html>"))

	if c.Vendor.ID != domain.UnknownVendorID {
		t.Errorf("expected unknown, got %s", c.Vendor.ID)
	}
	if c.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", c.Confidence)
	}
	if c.Extractor == nil {
		t.Error("unknown profile must carry the generic extractor")
	}
}

func TestRegistry_Profiles(t *testing.T) {
	r := Default()
	infos := r.Profiles()

	want := []string{DemoVendorID, GridVendorID, domain.UnknownVendorID}
	if len(infos) != len(want) {
		t.Fatalf("expected %d profiles, got %d", len(want), len(infos))
	}
	for i, id := range want {
		if infos[i].ID != id {
			t.Errorf("profile %d: expected %s, got %s", i, id, infos[i].ID)
		}
	}
	if _, ok := r.Lookup(GridVendorID); !ok {
		t.Error("expected Lookup to find grid profile")
	}
	if _, ok := r.Lookup("nope"); ok {
		t.Error("unexpected profile")
	}
}

func TestDefault_ClassifiesSamples(t *testing.T) {
	r := Default()
	tests := []struct {
		sample string
		want   string
	}{
		{samples.DemoReport, DemoVendorID},
		{samples.GridReport, GridVendorID},
	}
	for _, tt := range tests {
		t.Run(tt.sample, func(t *testing.T) {
			c := r.Classify(htmlDoc(string(samples.MustGet(tt.sample))))
			if c.Vendor.ID != tt.want {
				t.Errorf("expected %s, got %s", tt.want, c.Vendor.ID)
			}
			if c.Confidence < c.Vendor.Threshold {
				t.Errorf("confidence %v below threshold %v", c.Confidence, c.Vendor.Threshold)
			}
		})
	}
}
