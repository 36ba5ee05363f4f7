// Package pipeline runs the parse stages for one document: classify,
// extract, reconcile identity, classify tradelines and assemble.
package pipeline

import (
	"log/slog"
	"strings"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/assembler"
	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/Fchery87/Rapid-CRM/internal/reconcile"
	"github.com/Fchery87/Rapid-CRM/internal/tradelines"
	"github.com/Fchery87/Rapid-CRM/internal/vendors"
)

// Stage names, in execution order.
const (
	StageClassify   = "classify"
	StageExtract    = "extract"
	StageReconcile  = "reconcile"
	StageTradelines = "tradelines"
	StageAssemble   = "assemble"
)

// Config holds configuration for the Pipeline.
type Config struct {
	// Classifier defaults to vendors.Default()
	Classifier driven.VendorClassifier
	Policy     domain.Policy
	Logger     *slog.Logger
	Now        func() time.Time
}

// Pipeline is stateless after construction: every Run builds its own
// diagnostics, so one Pipeline serves many goroutines.
type Pipeline struct {
	classifier driven.VendorClassifier
	reconciler *reconcile.Reconciler
	tradelines *tradelines.Classifier
	assembler  *assembler.Assembler
	policy     domain.Policy
	logger     *slog.Logger
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = vendors.Default()
	}
	policy := cfg.Policy.WithDefaults()
	return &Pipeline{
		classifier: classifier,
		reconciler: reconcile.New(reconcile.Config{Policy: policy, Logger: logger}),
		tradelines: tradelines.New(tradelines.Config{Policy: policy, Logger: logger}),
		assembler:  assembler.New(assembler.Config{Logger: logger, Now: cfg.Now}),
		policy:     policy,
		logger:     logger,
	}
}

// Stages returns the stage names in order.
func (p *Pipeline) Stages() []string {
	return []string{StageClassify, StageExtract, StageReconcile, StageTradelines, StageAssemble}
}

// Policy returns the effective policy.
func (p *Pipeline) Policy() domain.Policy {
	return p.policy
}

// Classify runs only the classification stage.
func (p *Pipeline) Classify(doc domain.RawDocument) driven.Classification {
	return p.classifier.Classify(doc)
}

// Vendors lists the registered vendor profiles.
func (p *Pipeline) Vendors() []domain.VendorInfo {
	return p.classifier.Profiles()
}

// Run parses one document. It returns either a report, possibly partial,
// or a *domain.ParseFailedError; never both.
func (p *Pipeline) Run(doc domain.RawDocument) (*domain.NormalizedReport, error) {
	start := time.Now()
	if doc.IsEmpty() {
		return nil, domain.NewParseFailedError(domain.ParseFailureEmptyDocument, doc, domain.ErrEmptyDocument)
	}

	diags := domain.NewDiagnostics()
	if !textual(doc) {
		diags.Warn(domain.SectionDocument, "", "media type %q is not text or HTML", doc.BaseMediaType())
	}

	class := p.classifier.Classify(doc)
	p.logger.Debug("document classified",
		"object_key", doc.ObjectKey,
		"vendor", class.Vendor.ID,
		"confidence", class.Confidence,
	)

	set, err := class.Extractor.Extract(doc, diags)
	if err != nil {
		p.logger.Warn("extraction failed",
			"object_key", doc.ObjectKey,
			"vendor", class.Vendor.ID,
			"error", err,
		)
		return nil, domain.NewParseFailedError(domain.ParseFailureExtractionFailed, doc, err)
	}
	if set == nil {
		set = domain.NewRawExtractionSet()
	}

	identity, infos, idErr := p.reconciler.Reconcile(set.PersonalInfo(), diags)
	lines := p.tradelines.ClassifyAll(set.Tradelines(), diags)

	report := p.assembler.Assemble(assembler.Input{
		Extraction:   set,
		Identity:     identity,
		PersonalInfo: infos,
		IdentityErr:  idErr,
		Tradelines:   lines,
	}, diags)

	report.Vendor = class.Vendor.ID
	report.VendorVersion = class.Vendor.Version
	report.ClassificationConfidence = class.Confidence
	report.ObjectKey = doc.ObjectKey
	report.AccountID = doc.AccountID

	p.logger.Info("document parsed",
		"object_key", doc.ObjectKey,
		"account_id", doc.AccountID,
		"vendor", report.Vendor,
		"tradelines", len(report.Tradelines),
		"partial", report.Partial,
		"warnings", len(report.Warnings),
		"duration", time.Since(start),
	)
	return report, nil
}

// textual reports whether doc is HTML, plain text or anything that sniffs as HTML.
// Other media types still run; they usually classify as the unknown vendor.
func textual(doc domain.RawDocument) bool {
	mt := doc.BaseMediaType()
	if mt == "" || strings.HasPrefix(mt, "text/") || doc.IsHTML() {
		return true
	}
	return mt == "application/octet-stream"
}
