// Package tradelines turns raw tradeline fragments into canonical tradelines
// and tags them with issues from an ordered rule table.
package tradelines

import (
	"log/slog"
	"strings"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/textnorm"
)

// Config holds configuration for the Classifier.
type Config struct {
	Policy domain.Policy
	// Rules overrides DefaultRules when set
	Rules  []Rule
	Logger *slog.Logger
}

// Classifier normalizes tradeline fragments and evaluates the rule table.
// Read-only after construction and safe for concurrent use.
type Classifier struct {
	policy domain.Policy
	rules  []Rule
	vocab  *Vocabulary
	logger *slog.Logger
}

// New creates a Classifier.
func New(cfg Config) *Classifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules
	}
	policy := cfg.Policy.WithDefaults()
	return &Classifier{
		policy: policy,
		rules:  rules,
		vocab:  NewVocabulary(policy),
		logger: logger,
	}
}

// ClassifyAll classifies every fragment in order.
func (c *Classifier) ClassifyAll(frags []domain.TradelineFragment, diags *domain.Diagnostics) []domain.Tradeline {
	out := make([]domain.Tradeline, 0, len(frags))
	for _, f := range frags {
		out = append(out, c.Classify(f, diags))
	}
	return out
}

// Classify normalizes one fragment and fires every applicable rule.
// Malformed values are dropped with a warning; classification never fails.
func (c *Classifier) Classify(f domain.TradelineFragment, diags *domain.Diagnostics) domain.Tradeline {
	t := domain.Tradeline{
		CreditorName:    textnorm.Fold(f.CreditorName),
		AccountRef:      textnorm.Last4(f.AccountNumber),
		AccountType:     present(f.AccountType),
		Status:          present(f.Status),
		PaymentHistory:  present(f.PaymentHistory),
		Issues:          []domain.Issue{},
		ReportedBureaus: []domain.Bureau{f.Bureau},
	}
	if t.Status == "" {
		t.Status = present(f.PaymentStatus)
	}
	t.Balance = c.money(f, "balance", f.Balance, diags)
	t.CreditLimit = c.money(f, "credit limit", f.CreditLimit, diags)
	t.OpenDate = c.date(f, "open date", f.OpenDate, diags)
	t.CloseDate = c.date(f, "close date", f.CloseDate, diags)
	t.RecomputeUtilization()

	statusKey := strings.TrimSpace(textnorm.Key(f.Status) + " " + textnorm.Key(f.PaymentStatus))
	c.Evaluate(&t, f.Bureau, statusKey, diags)
	return t
}

// Evaluate runs the rule table against a normalized tradeline and sets
// Issues and IsNegative. A derogatory status that no rule maps is still
// negative and is reported so the rule table can be extended.
func (c *Classifier) Evaluate(t *domain.Tradeline, bureau domain.Bureau, statusKey string, diags *domain.Diagnostics) {
	facts := &Facts{
		Tradeline:  t,
		Bureau:     bureau,
		StatusKey:  statusKey,
		History:    textnorm.Tokens(t.PaymentHistory),
		Vocabulary: c.vocab,
		Policy:     c.policy,
	}
	for _, r := range c.rules {
		if ev := r.Predicate(facts); ev != nil {
			t.Issues = append(t.Issues, domain.Issue{Rule: r.Tag, Bureau: bureau, Evidence: ev})
		}
	}

	t.IsNegative = len(t.Issues) > 0
	if !t.IsNegative && c.vocab.IsDerogatory(statusKey) {
		t.IsNegative = true
		c.logger.Warn("unmapped derogatory status",
			"creditor", t.CreditorName,
			"bureau", bureau,
			"status", t.Status,
		)
		if diags != nil {
			diags.Warn(domain.SectionTradelines, bureau, "unmapped derogatory status %q for %s", t.Status, t.CreditorName)
		}
	}
}

// Policy returns the effective policy.
func (c *Classifier) Policy() domain.Policy {
	return c.policy
}

func (c *Classifier) money(f domain.TradelineFragment, name, raw string, diags *domain.Diagnostics) *float64 {
	v, ok, err := textnorm.ParseMoney(raw)
	if err != nil {
		if diags != nil {
			diags.Warn(domain.SectionTradelines, f.Bureau, "%s: unreadable %s %q", textnorm.Fold(f.CreditorName), name, raw)
		}
		return nil
	}
	if !ok {
		return nil
	}
	return &v
}

func (c *Classifier) date(f domain.TradelineFragment, name, raw string, diags *domain.Diagnostics) string {
	if textnorm.IsAbsent(raw) {
		return ""
	}
	iso, ok := textnorm.ParseDate(raw)
	if !ok {
		if diags != nil {
			diags.Warn(domain.SectionTradelines, f.Bureau, "%s: unreadable %s %q", textnorm.Fold(f.CreditorName), name, raw)
		}
		return ""
	}
	return iso
}

func present(s string) string {
	if textnorm.IsAbsent(s) {
		return ""
	}
	return textnorm.Clean(s)
}
