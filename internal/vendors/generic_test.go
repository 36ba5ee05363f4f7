package vendors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

func TestGenericExtractor_Unrecognized(t *testing.T) {
	r := Default()
	doc := htmlDoc(`<html><body><h1>Quarterly newsletter</h1><p>Nothing to see.</p></body></html>`)

	c := r.Classify(doc)
	require.Equal(t, domain.UnknownVendorID, c.Vendor.ID)
	require.Equal(t, 0.0, c.Confidence)

	diags := domain.NewDiagnostics()
	set, err := c.Extractor.Extract(doc, diags)

	require.NoError(t, err)
	require.NotNil(t, set)
	assert.True(t, set.IsEmpty())
	assert.Empty(t, set.Bureaus())
	assert.False(t, diags.Partial())
}

func TestGenericExtractor_EmptyPayload(t *testing.T) {
	set, err := UnknownProfile().Extractor.Extract(domain.NewRawDocument(nil, "", "", ""), domain.NewDiagnostics())
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
}

func TestGenericExtractor_LabelScan(t *testing.T) {
	doc := htmlDoc(`<html><body>
<p>Report Date: 03/01/2024</p>
<p>Name: ORPHAN VALUE</p>
<h2>TransUnion</h2>
<p>Credit Score: 712</p>
<p>Name: MARY MAJOR</p>
<p>Address: 9 PINE RD</p>
<h2>Equifax Report</h2>
<dl><dt>Name</dt>
<dd>MARY  MAJOR</dd>
<dt>Date of Birth</dt><dd>02/02/1970</dd></dl>
</body></html>`)
	diags := domain.NewDiagnostics()

	set, err := UnknownProfile().Extractor.Extract(doc, diags)
	require.NoError(t, err)

	assert.Equal(t, "03/01/2024", set.ReportDate)
	assert.Equal(t, []domain.Bureau{domain.BureauTransUnion, domain.BureauEquifax}, set.Bureaus())

	tu := set.Slot(domain.BureauTransUnion)
	require.NotNil(t, tu.Score)
	assert.Equal(t, "712", tu.Score.Value)
	assert.Equal(t, domain.ConfidenceHeuristic, tu.Score.Confidence)
	require.NotNil(t, tu.PersonalInfo)
	assert.Equal(t, "MARY MAJOR", tu.PersonalInfo.Name)
	assert.Equal(t, "9 PINE RD", tu.PersonalInfo.Street)

	eq := set.Slot(domain.BureauEquifax)
	require.NotNil(t, eq.PersonalInfo)
	assert.Equal(t, "MARY MAJOR", eq.PersonalInfo.Name)
	assert.Equal(t, "02/02/1970", eq.PersonalInfo.DOB)
}

func TestGenericExtractor_PlainText(t *testing.T) {
	doc := domain.NewRawDocument([]byte("EXPERIAN\nName: SAM ROE\nSSN: ***-**-4444\n"), "text/plain", "", "")

	set, err := UnknownProfile().Extractor.Extract(doc, domain.NewDiagnostics())
	require.NoError(t, err)

	ex := set.Slot(domain.BureauExperian).PersonalInfo
	require.NotNil(t, ex)
	assert.Equal(t, "SAM ROE", ex.Name)
	assert.Equal(t, "***-**-4444", ex.SSN)
}
