package domain

import "fmt"

// Policy holds the tunable thresholds used by reconciliation, tradeline
// classification and the audit view.
type Policy struct {
	// SimilarityThreshold is the fuzzy-match cutoff for name and street (0..1]
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// HighUtilizationThreshold fires high_utilization at or above this ratio (0..1]
	HighUtilizationThreshold float64 `json:"high_utilization_threshold" yaml:"high_utilization_threshold"`

	// UtilizationTarget is the audit target in percent
	UtilizationTarget float64 `json:"utilization_target" yaml:"utilization_target"`

	// LateMarkers extends the recognized late-payment markers
	LateMarkers []string `json:"late_markers,omitempty" yaml:"late_markers,omitempty"`

	// DerogatoryStatuses extends the recognized derogatory status vocabulary
	DerogatoryStatuses []string `json:"derogatory_statuses,omitempty" yaml:"derogatory_statuses,omitempty"`
}

// Policy defaults
const (
	DefaultSimilarityThreshold      = 0.8
	DefaultHighUtilizationThreshold = 0.90
	DefaultUtilizationTarget        = 10.0
)

// DefaultPolicy returns the documented default thresholds.
func DefaultPolicy() Policy {
	return Policy{
		SimilarityThreshold:      DefaultSimilarityThreshold,
		HighUtilizationThreshold: DefaultHighUtilizationThreshold,
		UtilizationTarget:        DefaultUtilizationTarget,
	}
}

// WithDefaults fills zero-valued thresholds with defaults.
func (p Policy) WithDefaults() Policy {
	if p.SimilarityThreshold == 0 {
		p.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if p.HighUtilizationThreshold == 0 {
		p.HighUtilizationThreshold = DefaultHighUtilizationThreshold
	}
	if p.UtilizationTarget == 0 {
		p.UtilizationTarget = DefaultUtilizationTarget
	}
	return p
}

// Validate checks threshold ranges.
func (p Policy) Validate() error {
	if p.SimilarityThreshold <= 0 || p.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be in (0,1], got %v", ErrInvalidInput, p.SimilarityThreshold)
	}
	if p.HighUtilizationThreshold <= 0 || p.HighUtilizationThreshold > 1 {
		return fmt.Errorf("%w: high_utilization_threshold must be in (0,1], got %v", ErrInvalidInput, p.HighUtilizationThreshold)
	}
	if p.UtilizationTarget <= 0 || p.UtilizationTarget > 100 {
		return fmt.Errorf("%w: utilization_target must be in (0,100], got %v", ErrInvalidInput, p.UtilizationTarget)
	}
	return nil
}
