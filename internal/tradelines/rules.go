package tradelines

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/textnorm"
)

// Facts is what a rule predicate sees: the normalized tradeline plus the
// folded status and history text it was built from.
type Facts struct {
	Tradeline *domain.Tradeline
	Bureau    domain.Bureau

	// StatusKey is the folded status and payment status, tokens joined by spaces
	StatusKey string

	// History holds the folded payment-history tokens
	History []string

	Vocabulary *Vocabulary
	Policy     domain.Policy
}

// Predicate returns the evidence for a fired rule, or nil.
type Predicate func(f *Facts) map[string]string

// Rule maps a predicate to the issue tag it produces.
type Rule struct {
	Tag       domain.IssueTag
	Predicate Predicate
}

// DefaultRules is the ordered rule table. Every rule is evaluated; a
// tradeline collects one issue per rule that fires.
var DefaultRules = []Rule{
	{Tag: domain.IssueLatePayment, Predicate: latePayment},
	{Tag: domain.IssueHighUtilization, Predicate: highUtilization},
	{Tag: domain.IssueChargeOff, Predicate: statusIn(func(v *Vocabulary) []string { return v.ChargeOff })},
	{Tag: domain.IssueCollection, Predicate: statusIn(func(v *Vocabulary) []string { return v.Collection })},
	{Tag: domain.IssueClosedDerogatory, Predicate: closedDerogatory},
}

// Vocabulary holds the folded phrases the rules recognize.
type Vocabulary struct {
	LateMarkers map[string]bool
	ChargeOff   []string
	Collection  []string
	// Derogatory covers statuses that are negative but map to no named rule
	Derogatory []string
}

var (
	defaultLateMarkers = []string{
		"30", "60", "90", "120", "150", "180",
		"LATE", "DELINQUENT",
		"30 DAYS LATE", "60 DAYS LATE", "90 DAYS LATE", "120 DAYS LATE",
	}
	defaultChargeOff = []string{
		"CHARGE OFF", "CHARGED OFF", "CHARGEOFF", "CHARGEDOFF",
		"WRITTEN OFF", "WRITE OFF", "PROFIT AND LOSS",
	}
	defaultCollection = []string{
		"COLLECTION", "COLLECTIONS", "PLACED FOR COLLECTION", "TRANSFERRED TO COLLECTIONS",
	}
	defaultDerogatory = []string{
		"REPOSSESSION", "REPOSSESSED", "VOLUNTARY SURRENDER", "FORECLOSURE", "FORECLOSED",
		"BANKRUPTCY", "INCLUDED IN BANKRUPTCY", "SETTLED", "SETTLED FOR LESS",
		"DEROGATORY", "DEFAULT", "DEFAULTED", "PAST DUE", "DELINQUENT",
	}
)

// NewVocabulary builds the default vocabulary extended by the policy lists.
// Policy derogatory statuses count as unmapped derogatory statuses.
func NewVocabulary(p domain.Policy) *Vocabulary {
	v := &Vocabulary{
		LateMarkers: make(map[string]bool),
		ChargeOff:   keys(defaultChargeOff),
		Collection:  keys(defaultCollection),
		Derogatory:  keys(append(append([]string{}, defaultDerogatory...), p.DerogatoryStatuses...)),
	}
	for _, m := range append(append([]string{}, defaultLateMarkers...), p.LateMarkers...) {
		if k := textnorm.Key(m); k != "" {
			v.LateMarkers[k] = true
		}
	}
	return v
}

// IsDerogatory returns true if the status key matches any derogatory phrase.
func (v *Vocabulary) IsDerogatory(statusKey string) bool {
	return matchPhrase(statusKey, v.ChargeOff) != "" ||
		matchPhrase(statusKey, v.Collection) != "" ||
		matchPhrase(statusKey, v.Derogatory) != ""
}

func latePayment(f *Facts) map[string]string {
	history := liveHistory(f.History)
	var found []string
	for _, tok := range history {
		if tok != "" && f.Vocabulary.LateMarkers[tok] {
			found = append(found, tok)
		}
	}
	// Multi-word markers ("30 DAYS LATE") are matched against the whole history.
	joined := strings.Join(history, " ")
	var phrases []string
	for m := range f.Vocabulary.LateMarkers {
		if strings.Contains(m, " ") && containsPhrase(joined, m) {
			phrases = append(phrases, m)
		}
	}
	sort.Strings(phrases)
	found = append(found, phrases...)
	if len(found) == 0 {
		return nil
	}
	return map[string]string{
		"paymentHistory": f.Tradeline.PaymentHistory,
		"markers":        strings.Join(dedupe(found), ","),
	}
}

// negators open a span that reports late payments as absent ("NEVER LATE",
// "NO LATE PAYMENTS", "0 TIMES 30 DAYS LATE").
var negators = map[string]bool{"NEVER": true, "NO": true, "NOT": true, "NONE": true, "ZERO": true, "0X": true}

// negationReach is how far past a negator the closing LATE may sit.
const negationReach = 5

// liveHistory blanks negated spans out of the history tokens. A span runs from
// the negator to the next LATE or DELINQUENT within reach; a negator with no
// closing token negates nothing.
func liveHistory(tokens []string) []string {
	out := append([]string(nil), tokens...)
	for i := 0; i < len(tokens); i++ {
		if !isNegator(tokens, i) {
			continue
		}
		for j := i + 1; j < len(tokens) && j <= i+negationReach; j++ {
			if tokens[j] == "LATE" || tokens[j] == "DELINQUENT" {
				for k := i; k <= j; k++ {
					out[k] = ""
				}
				i = j
				break
			}
		}
	}
	return out
}

func isNegator(tokens []string, i int) bool {
	if negators[tokens[i]] {
		return true
	}
	return tokens[i] == "0" && i+1 < len(tokens) && (tokens[i+1] == "TIMES" || tokens[i+1] == "X")
}

func highUtilization(f *Facts) map[string]string {
	u := f.Tradeline.Utilization
	if u == nil || *u < f.Policy.HighUtilizationThreshold {
		return nil
	}
	return map[string]string{
		"balance":     formatFloat(*f.Tradeline.Balance),
		"creditLimit": formatFloat(*f.Tradeline.CreditLimit),
		"utilization": strconv.FormatFloat(*u, 'f', 4, 64),
		"threshold":   strconv.FormatFloat(f.Policy.HighUtilizationThreshold, 'f', 2, 64),
	}
}

func statusIn(vocab func(*Vocabulary) []string) Predicate {
	return func(f *Facts) map[string]string {
		m := matchPhrase(f.StatusKey, vocab(f.Vocabulary))
		if m == "" {
			return nil
		}
		return map[string]string{"status": f.Tradeline.Status, "matched": m}
	}
}

func closedDerogatory(f *Facts) map[string]string {
	closed := f.Tradeline.IsClosed() || containsPhrase(f.StatusKey, "CLOSED")
	if !closed || !f.Vocabulary.IsDerogatory(f.StatusKey) {
		return nil
	}
	ev := map[string]string{"status": f.Tradeline.Status}
	if f.Tradeline.CloseDate != "" {
		ev["closeDate"] = f.Tradeline.CloseDate
	}
	return ev
}

// matchPhrase returns the first phrase found on word boundaries in key.
func matchPhrase(key string, phrases []string) string {
	for _, p := range phrases {
		if containsPhrase(key, p) {
			return p
		}
	}
	return ""
}

func containsPhrase(key, phrase string) bool {
	if key == "" || phrase == "" {
		return false
	}
	return strings.Contains(" "+key+" ", " "+phrase+" ")
}

func keys(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if k := textnorm.Key(p); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
