package pipeline

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/Fchery87/Rapid-CRM/internal/vendors"
	"github.com/Fchery87/Rapid-CRM/internal/vendors/samples"
)

func newPipeline() *Pipeline {
	return New(Config{Now: func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }})
}

func sample(t *testing.T, name string) domain.RawDocument {
	t.Helper()
	return domain.NewRawDocument(samples.MustGet(name), "text/html", "reports/"+name, "acct-1")
}

func findTradeline(r *domain.NormalizedReport, creditor string) *domain.Tradeline {
	for i := range r.Tradelines {
		if r.Tradelines[i].CreditorName == creditor {
			return &r.Tradelines[i]
		}
	}
	return nil
}

func TestRun_DemoReport(t *testing.T) {
	report, err := newPipeline().Run(sample(t, samples.DemoReport))
	require.NoError(t, err)

	assert.True(t, report.OK)
	assert.False(t, report.Partial, "warnings: %v", report.Warnings)
	assert.Equal(t, vendors.DemoVendorID, report.Vendor)
	assert.Equal(t, "reports/"+samples.DemoReport, report.ObjectKey)
	assert.Equal(t, "acct-1", report.AccountID)
	assert.Equal(t, "2024-05-01", report.ReportDate)
	assert.Greater(t, report.ClassificationConfidence, 0.0)

	require.Len(t, report.Bureaus, 3)
	assert.Equal(t, 688, report.Score(domain.BureauTransUnion))
	assert.Equal(t, 701, report.Score(domain.BureauExperian))
	assert.Equal(t, 695, report.Score(domain.BureauEquifax))

	assert.Len(t, report.PersonalInfo, 3)
	require.NotNil(t, report.Identity)
	assert.Greater(t, report.Identity.Confidence, 0.9)
	assert.Less(t, report.Identity.Confidence, 1.0)
	require.Len(t, report.Identity.Discrepancies, 1)
	assert.Equal(t, domain.FieldStreet, report.Identity.Discrepancies[0].Field)

	require.Len(t, report.Tradelines, 3)
	capOne := findTradeline(report, "CAPITAL ONE")
	require.NotNil(t, capOne)
	assert.Equal(t, domain.AllBureaus, capOne.ReportedBureaus)
	assert.True(t, capOne.HasIssue(domain.IssueHighUtilization))
	assert.True(t, capOne.IsNegative)

	discover := findTradeline(report, "DISCOVER BANK")
	require.NotNil(t, discover)
	assert.False(t, discover.HasIssue(domain.IssueHighUtilization))
	assert.True(t, discover.HasIssue(domain.IssueLatePayment))
	assert.InDelta(t, 0.01, *discover.Utilization, 1e-9)

	midland := findTradeline(report, "MIDLAND CREDIT MGMT")
	require.NotNil(t, midland)
	assert.True(t, midland.HasIssue(domain.IssueCollection))
	assert.Nil(t, midland.Utilization)

	assert.Len(t, report.Inquiries, 3)
	require.Len(t, report.PublicRecords, 1)
	assert.Equal(t, "Bankruptcy Chapter 7", report.PublicRecords[0].Kind)
}

func TestRun_GridReport(t *testing.T) {
	report, err := newPipeline().Run(sample(t, samples.GridReport))
	require.NoError(t, err)

	assert.Equal(t, vendors.GridVendorID, report.Vendor)
	assert.Equal(t, "2024-04-15", report.ReportDate)
	require.NotNil(t, report.Identity)
	assert.Equal(t, 1.0, report.Identity.Confidence)
	assert.Empty(t, report.Identity.Discrepancies)

	require.Len(t, report.Tradelines, 2)
	wells := findTradeline(report, "WELLS FARGO AUTO")
	require.NotNil(t, wells)
	assert.Equal(t, []domain.Bureau{domain.BureauExperian, domain.BureauEquifax}, wells.ReportedBureaus)
	assert.True(t, wells.HasIssue(domain.IssueChargeOff))
	assert.True(t, wells.HasIssue(domain.IssueClosedDerogatory))
}

func TestRun_TradelineInvariants(t *testing.T) {
	p := newPipeline()
	for _, name := range samples.Names() {
		t.Run(name, func(t *testing.T) {
			report, err := p.Run(sample(t, name))
			require.NoError(t, err)
			for _, tl := range report.Tradelines {
				assert.NotEmpty(t, tl.ReportedBureaus)
				for _, b := range tl.ReportedBureaus {
					assert.True(t, b.IsValid())
				}
				if tl.Balance != nil && tl.CreditLimit != nil && *tl.CreditLimit > 0 {
					require.NotNil(t, tl.Utilization)
					assert.InDelta(t, *tl.Balance / *tl.CreditLimit, *tl.Utilization, 1e-9)
				} else {
					assert.Nil(t, tl.Utilization)
				}
			}
		})
	}
}

func TestRun_UnknownDocument(t *testing.T) {
	doc := domain.NewRawDocument([]byte("<html><body><p>Nothing to see</p></body></html>"), "text/html", "k", "a")

	p := newPipeline()
	class := p.Classify(doc)
	assert.True(t, class.Vendor.IsUnknown())
	assert.Equal(t, 0.0, class.Confidence)

	report, err := p.Run(doc)
	require.NoError(t, err)
	assert.True(t, report.OK)
	assert.Equal(t, domain.UnknownVendorID, report.Vendor)
	assert.Empty(t, report.Tradelines)
	assert.Empty(t, report.Bureaus)
	assert.Nil(t, report.Identity)
	assert.True(t, report.Partial, "missing identity is a section failure")
}

func TestRun_NonTextMediaTypeDegrades(t *testing.T) {
	tests := []struct {
		name string
		doc  domain.RawDocument
	}{
		{"pdf", domain.NewRawDocument([]byte("%PDF-1.7\n%binary"), "application/pdf", "k2", "a2")},
		{"json", domain.NewRawDocument([]byte(`{"score": 700}`), "application/json", "k4", "a4")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := newPipeline().Run(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, domain.UnknownVendorID, report.Vendor)
			assert.Empty(t, report.Tradelines)
			assert.Equal(t, tt.doc.ObjectKey, report.ObjectKey)
			assert.Contains(t, strings.Join(report.Warnings, "\n"), "is not text or HTML")
		})
	}
}

func TestRun_ParseFailed(t *testing.T) {
	tests := []struct {
		name string
		doc  domain.RawDocument
		kind string
	}{
		{"empty", domain.NewRawDocument([]byte("  \n"), "text/html", "k1", "a1"), domain.ParseFailureEmptyDocument},
		{
			"demo marker without panels",
			domain.NewRawDocument([]byte(`<html><head><meta name="generator" content="DemoVendor"></head><body></body></html>`), "text/html", "k3", "a3"),
			domain.ParseFailureExtractionFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := newPipeline().Run(tt.doc)
			assert.Nil(t, report)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrParseFailed))

			pf, ok := domain.AsParseFailed(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, pf.Kind)
			assert.Equal(t, tt.doc.ObjectKey, pf.ObjectKey)
			assert.Equal(t, tt.doc.AccountID, pf.AccountID)
			assert.NotEmpty(t, pf.Message)
		})
	}
}

type failingExtractor struct{}

func (failingExtractor) Extract(domain.RawDocument, *domain.Diagnostics) (*domain.RawExtractionSet, error) {
	return nil, domain.NewDocumentFailure("boom")
}

type fixedClassifier struct{ ex driven.VendorExtractor }

func (c fixedClassifier) Classify(domain.RawDocument) driven.Classification {
	return driven.Classification{Vendor: domain.VendorInfo{ID: "fixed", Version: "9"}, Extractor: c.ex, Confidence: 1}
}

func (c fixedClassifier) Profiles() []domain.VendorInfo { return nil }

func TestRun_CustomClassifier(t *testing.T) {
	p := New(Config{Classifier: fixedClassifier{ex: failingExtractor{}}})
	_, err := p.Run(domain.NewRawDocument([]byte("<html>x</html>"), "", "k", "a"))

	pf, ok := domain.AsParseFailed(err)
	require.True(t, ok)
	assert.Equal(t, domain.ParseFailureExtractionFailed, pf.Kind)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestRun_Concurrent(t *testing.T) {
	p := newPipeline()
	doc := sample(t, samples.DemoReport)

	var wg sync.WaitGroup
	results := make([]*domain.NormalizedReport, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := p.Run(doc)
			if err == nil {
				results[i] = r
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, results[0].Identity.Confidence, r.Identity.Confidence)
		assert.Len(t, r.Tradelines, 3)
	}
}

func TestStagesAndPolicy(t *testing.T) {
	p := New(Config{Policy: domain.Policy{SimilarityThreshold: 0.5}})
	assert.Equal(t, []string{StageClassify, StageExtract, StageReconcile, StageTradelines, StageAssemble}, p.Stages())
	assert.Equal(t, 0.5, p.Policy().SimilarityThreshold)
	assert.Equal(t, domain.DefaultHighUtilizationThreshold, p.Policy().HighUtilizationThreshold)
	assert.NotEmpty(t, p.Vendors())
}
