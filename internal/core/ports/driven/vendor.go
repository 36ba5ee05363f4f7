package driven

import "github.com/Fchery87/Rapid-CRM/internal/core/domain"

// SignatureMatcher scores how strongly a document carries a vendor's
// structural markers. Implementations are pure and safe for concurrent use.
type SignatureMatcher interface {
	// Match returns a confidence in [0,1].
	Match(doc domain.RawDocument) float64
}

// VendorExtractor turns a RawDocument into a RawExtractionSet using
// vendor-specific structural knowledge.
//
// Recoverable problems (a missing field, one bureau lacking a section) are
// recorded in diags and extraction continues. A non-nil error means the whole
// document is unusable and is always an *domain.ExtractionFailedError with
// Section == domain.SectionDocument.
type VendorExtractor interface {
	Extract(doc domain.RawDocument, diags *domain.Diagnostics) (*domain.RawExtractionSet, error)
}

// Classification is the outcome of the document classifier.
type Classification struct {
	Vendor     domain.VendorInfo
	Extractor  VendorExtractor
	Confidence float64
}

// VendorClassifier selects the vendor profile for a document.
// Registration happens once at startup; lookups need no synchronization.
type VendorClassifier interface {
	// Classify never fails: an unrecognized document yields the unknown
	// profile with confidence 0.
	Classify(doc domain.RawDocument) Classification

	// Profiles lists registered profiles in registration order.
	Profiles() []domain.VendorInfo
}
